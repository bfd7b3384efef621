package engine

import (
	"bytes"
	"encoding/json"

	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/fees"
	"github.com/GNSR-Network/registry_core/internal/gateway"
	"github.com/GNSR-Network/registry_core/internal/governance"
	"github.com/GNSR-Network/registry_core/internal/ledger"
	"github.com/GNSR-Network/registry_core/internal/registrar"
)

// handlerFunc mutates a state clone or returns a typed rejection.
type handlerFunc func(s *contract.State, in contract.Interaction) error

// handlers is the write-function catalog. Anything not listed here fails
// closed before the state is cloned.
var handlers = map[string]handlerFunc{
	"transfer":                      applyTransfer,
	"mint":                          applyMint,
	"buyRecord":                     applyBuyRecord,
	"extendRecord":                  applyExtendRecord,
	"removeRecord":                  applyRemoveRecord,
	"setFees":                       applySetFees,
	"createNewTier":                 applyCreateNewTier,
	"setActiveTier":                 applySetActiveTier,
	"addANTSourceCodeTx":            applyAddANTSourceCodeTx,
	"removeANTSourceCodeTx":         applyRemoveANTSourceCodeTx,
	"evolve":                        applyEvolve,
	"joinNetwork":                   applyJoinNetwork,
	"increaseOperatorStake":         applyIncreaseOperatorStake,
	"initiateOperatorStakeDecrease": applyInitiateOperatorStakeDecrease,
	"finalizeOperatorStakeDecrease": applyFinalizeOperatorStakeDecrease,
	"initiateLeave":                 applyInitiateLeave,
	"finalizeLeave":                 applyFinalizeLeave,
	"updateGatewaySettings":         applyUpdateGatewaySettings,
}

// decodeInput strictly decodes the payload into a param struct. Unknown
// fields and wrong types are validation rejections: the payloads come off
// the wire from arbitrary callers and must not be interpreted loosely.
func decodeInput(raw json.RawMessage, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return contract.ErrValidation("malformed input: %v", err)
	}
	return nil
}

// functionTag absorbs the routing tag during strict decoding.
type functionTag struct {
	Function string `json:"function"`
}

func applyTransfer(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Target string `json:"target"`
		Qty    int64  `json:"qty"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return ledger.Transfer(s.Balances, in.Caller, p.Target, p.Qty)
}

func applyMint(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Qty int64 `json:"qty"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	if in.Caller != s.Owner {
		return contract.ErrAuthorization("caller is not the owner of the registry")
	}
	return ledger.Mint(s.Balances, in.Caller, p.Qty)
}

func applyBuyRecord(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Name         string              `json:"name"`
		ContractTxID string              `json:"contractTxId"`
		Years        int64               `json:"years"`
		Tier         int                 `json:"tier"`
		Type         contract.RecordType `json:"type"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return registrar.Buy(s, in.Caller, registrar.BuyParams{
		Name:         p.Name,
		ContractTxID: p.ContractTxID,
		Years:        p.Years,
		Tier:         p.Tier,
		Type:         p.Type,
	}, in.Timestamp, in.ID)
}

func applyExtendRecord(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Name  string `json:"name"`
		Years int64  `json:"years"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return registrar.Extend(s, in.Caller, p.Name, p.Years, in.Timestamp)
}

func applyRemoveRecord(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Name string `json:"name"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return registrar.Remove(s, in.Caller, p.Name)
}

func applySetFees(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Fees fees.Table `json:"fees"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return governance.SetFees(s, in.Caller, p.Fees)
}

func applyCreateNewTier(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		NewTier struct {
			Fee      int64 `json:"fee"`
			Settings struct {
				MaxSubdomains int64 `json:"maxSubdomains"`
			} `json:"settings"`
		} `json:"newTier"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	_, err := governance.CreateNewTier(s, in.Caller,
		p.NewTier.Fee, p.NewTier.Settings.MaxSubdomains, in.ID)
	return err
}

func applySetActiveTier(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		TierNumber int    `json:"tierNumber"`
		TierID     string `json:"tierId"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return governance.SetActiveTier(s, in.Caller, p.TierNumber, p.TierID)
}

func applyAddANTSourceCodeTx(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		ContractTxID string `json:"contractTxId"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return governance.AddANTSourceCodeTx(s, in.Caller, p.ContractTxID)
}

func applyRemoveANTSourceCodeTx(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		ContractTxID string `json:"contractTxId"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return governance.RemoveANTSourceCodeTx(s, in.Caller, p.ContractTxID)
}

func applyEvolve(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Value string `json:"value"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return governance.Evolve(s, in.Caller, p.Value)
}

func applyJoinNetwork(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Qty               int64    `json:"qty"`
		Label             string   `json:"label"`
		FQDN              string   `json:"fqdn"`
		Port              int      `json:"port"`
		Protocol          string   `json:"protocol"`
		OpenDelegation    bool     `json:"openDelegation"`
		DelegateAllowList []string `json:"delegateAllowList"`
		Note              string   `json:"note"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return gateway.Join(s, in.Caller, gateway.JoinParams{
		Qty: p.Qty,
		Settings: contract.GatewaySettings{
			Label:             p.Label,
			FQDN:              p.FQDN,
			Port:              p.Port,
			Protocol:          p.Protocol,
			OpenDelegation:    p.OpenDelegation,
			DelegateAllowList: p.DelegateAllowList,
			Note:              p.Note,
		},
	}, in.Height)
}

func applyIncreaseOperatorStake(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Qty int64 `json:"qty"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return gateway.IncreaseStake(s, in.Caller, p.Qty, in.Height)
}

func applyInitiateOperatorStakeDecrease(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		ID int `json:"id"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return gateway.InitiateStakeDecrease(s, in.Caller, p.ID, in.Height)
}

func applyFinalizeOperatorStakeDecrease(s *contract.State, in contract.Interaction) error {
	var p functionTag
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return gateway.FinalizeStakeDecrease(s, in.Caller, in.Height)
}

func applyInitiateLeave(s *contract.State, in contract.Interaction) error {
	var p functionTag
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return gateway.InitiateLeave(s, in.Caller, in.Height)
}

func applyFinalizeLeave(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Target string `json:"target"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return gateway.FinalizeLeave(s, in.Caller, p.Target, in.Height)
}

func applyUpdateGatewaySettings(s *contract.State, in contract.Interaction) error {
	var p struct {
		functionTag
		Label             *string                 `json:"label"`
		FQDN              *string                 `json:"fqdn"`
		Port              *int                    `json:"port"`
		Protocol          *string                 `json:"protocol"`
		OpenDelegation    *bool                   `json:"openDelegation"`
		DelegateAllowList *[]string               `json:"delegateAllowList"`
		Note              *string                 `json:"note"`
		Status            *contract.GatewayStatus `json:"status"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return err
	}
	return gateway.UpdateSettings(s, in.Caller, gateway.SettingsUpdate{
		Label:             p.Label,
		FQDN:              p.FQDN,
		Port:              p.Port,
		Protocol:          p.Protocol,
		OpenDelegation:    p.OpenDelegation,
		DelegateAllowList: p.DelegateAllowList,
		Note:              p.Note,
		Status:            p.Status,
	})
}
