// Package gateway implements the gateway operator directory: staked join,
// operator stake management through the vault engine, the two-phase exit,
// and ranked registry reads.
//
// Height is the only clock here. Minimum membership lengths, unlock
// delays, and leave windows are all counted in heights against the
// registry settings carried in state.
package gateway

import (
	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/ledger"
	"github.com/GNSR-Network/registry_core/internal/vaulting"
)

// msgNoGateway matches the read-side rejection for unknown targets.
const msgNoGateway = "This target does not have a registered gateway."

// JoinParams is a validated-shape network join request.
type JoinParams struct {
	Qty      int64
	Settings contract.GatewaySettings
}

// Join registers the caller as a gateway operator, moving qty from its
// balance into an indefinitely locked operator vault.
func Join(s *contract.State, caller string, p JoinParams, height int64) error {
	if _, ok := s.Gateways[caller]; ok {
		return contract.ErrStateConflict("this caller already has a gateway in the network")
	}
	min := s.Settings.Registry.MinNetworkJoinStakeAmount
	if p.Qty < min {
		return contract.ErrValidation(
			"qty is less than the minimum network join stake of %d", min)
	}
	if err := ValidateSettings(p.Settings); err != nil {
		return err
	}
	if err := ledger.Debit(s.Balances, caller, p.Qty); err != nil {
		return err
	}
	vault, err := vaulting.Lock(p.Qty, height, 0)
	if err != nil {
		return err
	}
	s.Gateways[caller] = contract.Gateway{
		OperatorStake: p.Qty,
		Status:        contract.StatusJoined,
		Start:         height,
		Vaults:        []contract.Vault{vault},
		Delegates:     map[string][]contract.Vault{},
		Settings:      p.Settings,
	}
	return nil
}

// IncreaseStake locks qty more of the caller's balance into a fresh
// operator vault.
func IncreaseStake(s *contract.State, caller string, qty, height int64) error {
	gw, ok := s.Gateways[caller]
	if !ok {
		return contract.ErrNotFound(msgNoGateway)
	}
	if gw.Status == contract.StatusLeaving {
		return contract.ErrStateConflict("gateway is leaving the network and cannot accept stake")
	}
	if err := ledger.Debit(s.Balances, caller, qty); err != nil {
		return err
	}
	vault, err := vaulting.Lock(qty, height, 0)
	if err != nil {
		return err
	}
	gw.OperatorStake += qty
	gw.Vaults = append(gw.Vaults, vault)
	s.Gateways[caller] = gw
	return nil
}

// InitiateStakeDecrease schedules one operator vault for release after the
// withdraw delay. The vault must have aged past the minimum lock length,
// and releasing it must not drop the operator below the join minimum.
func InitiateStakeDecrease(s *contract.State, caller string, vaultIndex int, height int64) error {
	gw, ok := s.Gateways[caller]
	if !ok {
		return contract.ErrNotFound(msgNoGateway)
	}
	if gw.Status == contract.StatusLeaving {
		return contract.ErrStateConflict("gateway is leaving the network; its vaults already unlock at its end height")
	}
	if vaultIndex < 0 || vaultIndex >= len(gw.Vaults) {
		return contract.ErrNotFound("no vault at index %d", vaultIndex)
	}
	reg := s.Settings.Registry
	vault := gw.Vaults[vaultIndex]
	if gw.OperatorStake-vault.Balance < reg.MinNetworkJoinStakeAmount {
		return contract.ErrStateConflict(
			"releasing this vault would drop the operator below the minimum network join stake of %d",
			reg.MinNetworkJoinStakeAmount)
	}
	unlocking, err := vaulting.InitiateUnlock(
		vault, height, reg.MinLockLength, reg.OperatorStakeWithdrawLength)
	if err != nil {
		return err
	}
	gw.Vaults[vaultIndex] = unlocking
	s.Gateways[caller] = gw
	return nil
}

// FinalizeStakeDecrease returns every due operator vault to the caller's
// balance. Nothing due is not an error.
func FinalizeStakeDecrease(s *contract.State, caller string, height int64) error {
	gw, ok := s.Gateways[caller]
	if !ok {
		return contract.ErrNotFound(msgNoGateway)
	}
	if gw.Status == contract.StatusLeaving {
		return contract.ErrStateConflict("leaving gateways settle through finalizeLeave")
	}
	remaining, released := vaulting.FinalizeDue(gw.Vaults, height)
	if released == 0 {
		return nil
	}
	gw.Vaults = remaining
	gw.OperatorStake -= released
	s.Gateways[caller] = gw
	ledger.Credit(s.Balances, caller, released)
	return nil
}

// InitiateLeave moves the caller's gateway to leaving and forces every
// vault to unlock in unison at the gateway's end height.
func InitiateLeave(s *contract.State, caller string, height int64) error {
	gw, ok := s.Gateways[caller]
	if !ok {
		return contract.ErrNotFound(msgNoGateway)
	}
	if gw.Status == contract.StatusLeaving {
		return contract.ErrStateConflict("gateway is already leaving the network")
	}
	reg := s.Settings.Registry
	if height-gw.Start < reg.MinGatewayJoinLength {
		return contract.ErrStateConflict(
			"gateway has not been in the network the minimum of %d heights",
			reg.MinGatewayJoinLength)
	}
	end := height + reg.GatewayLeaveLength
	gw.Status = contract.StatusLeaving
	gw.End = end
	for i := range gw.Vaults {
		gw.Vaults[i].End = end
	}
	for delegate, vaults := range gw.Delegates {
		for i := range vaults {
			vaults[i].End = end
		}
		gw.Delegates[delegate] = vaults
	}
	s.Gateways[caller] = gw
	return nil
}

// FinalizeLeave settles a leaving gateway whose end height has been
// reached: every operator vault is returned to the operator, every
// delegate vault to its delegate, and the gateway is removed. An empty
// target settles the caller's own gateway. Calling before the end height
// is a no-op.
func FinalizeLeave(s *contract.State, caller, target string, height int64) error {
	if target == "" {
		target = caller
	}
	gw, ok := s.Gateways[target]
	if !ok {
		return contract.ErrNotFound(msgNoGateway)
	}
	if gw.Status != contract.StatusLeaving || height < gw.End {
		return nil
	}
	ledger.Credit(s.Balances, target, vaulting.TotalBalance(gw.Vaults))
	for delegate, vaults := range gw.Delegates {
		ledger.Credit(s.Balances, delegate, vaulting.TotalBalance(vaults))
	}
	delete(s.Gateways, target)
	return nil
}

// SettingsUpdate is a partial settings change; nil fields are untouched.
// Status may only move between joined and hidden.
type SettingsUpdate struct {
	Label             *string
	FQDN              *string
	Port              *int
	Protocol          *string
	OpenDelegation    *bool
	DelegateAllowList *[]string
	Note              *string
	Status            *contract.GatewayStatus
}

// UpdateSettings applies the update all-or-nothing: every provided field
// is validated before any of them is written.
func UpdateSettings(s *contract.State, caller string, upd SettingsUpdate) error {
	gw, ok := s.Gateways[caller]
	if !ok {
		return contract.ErrNotFound(msgNoGateway)
	}

	next := gw.Settings
	if upd.Label != nil {
		if err := validateLabel(*upd.Label); err != nil {
			return err
		}
		next.Label = *upd.Label
	}
	if upd.FQDN != nil {
		if err := validateFQDN(*upd.FQDN); err != nil {
			return err
		}
		next.FQDN = *upd.FQDN
	}
	if upd.Port != nil {
		if err := validatePort(*upd.Port); err != nil {
			return err
		}
		next.Port = *upd.Port
	}
	if upd.Protocol != nil {
		if err := validateProtocol(*upd.Protocol); err != nil {
			return err
		}
		next.Protocol = *upd.Protocol
	}
	if upd.OpenDelegation != nil {
		next.OpenDelegation = *upd.OpenDelegation
	}
	if upd.DelegateAllowList != nil {
		if err := validateAllowList(*upd.DelegateAllowList); err != nil {
			return err
		}
		next.DelegateAllowList = append([]string(nil), *upd.DelegateAllowList...)
	}
	if upd.Note != nil {
		if err := validateNote(*upd.Note); err != nil {
			return err
		}
		next.Note = *upd.Note
	}

	status := gw.Status
	if upd.Status != nil {
		switch *upd.Status {
		case contract.StatusJoined, contract.StatusHidden:
		default:
			return contract.ErrValidation(
				"status may only be set to %q or %q",
				contract.StatusJoined, contract.StatusHidden)
		}
		if gw.Status == contract.StatusLeaving {
			return contract.ErrStateConflict("a leaving gateway cannot change status")
		}
		status = *upd.Status
	}

	gw.Settings = next
	gw.Status = status
	s.Gateways[caller] = gw
	return nil
}
