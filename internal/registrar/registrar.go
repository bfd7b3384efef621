// Package registrar implements the name registry: tiered purchases,
// lease extensions, owner removals, and record reads.
//
// Expiration is lazy. Nothing sweeps expired records; every purchase and
// read compares the stored endTimestamp (plus the grace period) against
// the interaction clock.
package registrar

import (
	"strings"

	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/fees"
	"github.com/GNSR-Network/registry_core/internal/ledger"
)

// Rejection messages surfaced to the host.
const (
	msgNameDoesNotExist = "This name does not exist"
	msgNameNotExpired   = "This name already exists in an active lease"
)

// BuyParams is a validated-shape purchase request. Tier is the requested
// slot; zero means the lowest active slot.
type BuyParams struct {
	Name         string
	ContractTxID string
	Years        int64
	Tier         int
	Type         contract.RecordType
}

// Buy registers a name for the caller, overwriting a record only once its
// lease and grace period have fully elapsed. txID is the interaction
// identifier substituted for the "atomic" sentinel.
func Buy(s *contract.State, caller string, p BuyParams, now int64, txID string) error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}

	recordType := p.Type
	if recordType == "" {
		recordType = contract.RecordTypeLease
	}
	if recordType != contract.RecordTypeLease && recordType != contract.RecordTypePermabuy {
		return contract.ErrValidation("type must be %q or %q",
			contract.RecordTypeLease, contract.RecordTypePermabuy)
	}
	if recordType == contract.RecordTypeLease {
		if p.Years < 1 || p.Years > contract.MaxYears {
			return contract.ErrValidation("years must be between 1 and %d", contract.MaxYears)
		}
	}

	contractTxID := p.ContractTxID
	if contractTxID == contract.AtomicTxID {
		contractTxID = txID
	}
	if !contract.ValidTxID(contractTxID) {
		return contract.ErrValidation(
			"contractTxId must be %q or a %d-character transaction id",
			contract.AtomicTxID, contract.TxIDLength)
	}

	slot := p.Tier
	if slot == 0 {
		lowest, err := fees.LowestActiveSlot(s.Tiers)
		if err != nil {
			return err
		}
		slot = lowest
	}
	tier, err := fees.CurrentTier(s.Tiers, slot)
	if err != nil {
		return err
	}

	name := strings.ToLower(p.Name)
	if existing, ok := s.Records[name]; ok && !existing.Expired(now) {
		return contract.ErrStateConflict(msgNameNotExpired)
	}

	annual, err := AnnualFee(s.Fees, name, tier)
	if err != nil {
		return err
	}
	var price, endTimestamp int64
	if recordType == contract.RecordTypePermabuy {
		price, err = PermabuyPrice(annual)
	} else {
		price, err = LeasePrice(annual, p.Years)
		endTimestamp = now + p.Years*contract.SecondsInYear
	}
	if err != nil {
		return err
	}

	if err := ledger.Debit(s.Balances, caller, price); err != nil {
		return err
	}

	s.Records[name] = contract.NameRecord{
		Tier:          tier.ID,
		ContractTxID:  contractTxID,
		Type:          recordType,
		EndTimestamp:  endTimestamp,
		MaxSubdomains: tier.Settings.MaxSubdomains,
	}
	return nil
}

// Extend lengthens an existing lease at today's fee for the record's tier.
func Extend(s *contract.State, caller, rawName string, years, now int64) error {
	name := strings.ToLower(rawName)
	record, ok := s.Records[name]
	if !ok {
		return contract.ErrNotFound(msgNameDoesNotExist)
	}
	if record.Expired(now) {
		return contract.ErrStateConflict(
			"this name has expired and must be purchased again")
	}
	if record.Type == contract.RecordTypePermabuy {
		return contract.ErrValidation("permanently owned names cannot be extended")
	}
	if years < 1 || years > contract.MaxYears {
		return contract.ErrValidation("years must be between 1 and %d", contract.MaxYears)
	}

	tier, ok := fees.TierByID(s.Tiers, record.Tier)
	if !ok {
		return contract.ErrStateConflict("record references unknown tier %s", record.Tier)
	}
	annual, err := AnnualFee(s.Fees, name, tier)
	if err != nil {
		return err
	}
	price, err := LeasePrice(annual, years)
	if err != nil {
		return err
	}
	if err := ledger.Debit(s.Balances, caller, price); err != nil {
		return err
	}

	record.EndTimestamp += years * contract.SecondsInYear
	s.Records[name] = record
	return nil
}

// Remove deletes a record unconditionally. Registry-owner-only; record
// purchasers cannot remove their own names, and there is no refund.
func Remove(s *contract.State, caller, rawName string) error {
	if caller != s.Owner {
		return contract.ErrAuthorization("caller is not the owner of the registry")
	}
	name := strings.ToLower(rawName)
	if _, ok := s.Records[name]; !ok {
		return contract.ErrNotFound(msgNameDoesNotExist)
	}
	delete(s.Records, name)
	return nil
}

// RecordView is the read projection of one record, joined with its tier.
type RecordView struct {
	Name          string              `json:"name"`
	Tier          contract.Tier       `json:"tier"`
	ContractTxID  string              `json:"contractTxId"`
	Type          contract.RecordType `json:"type"`
	EndTimestamp  int64               `json:"endTimestamp"`
	MaxSubdomains int64               `json:"maxSubdomains"`
}

// GetRecord resolves a name to its view, failing with NotFound when the
// name was never registered.
func GetRecord(s *contract.State, rawName string) (RecordView, error) {
	name := strings.ToLower(rawName)
	record, ok := s.Records[name]
	if !ok {
		return RecordView{}, contract.ErrNotFound(msgNameDoesNotExist)
	}
	tier, _ := fees.TierByID(s.Tiers, record.Tier)
	return RecordView{
		Name:          name,
		Tier:          tier,
		ContractTxID:  record.ContractTxID,
		Type:          record.Type,
		EndTimestamp:  record.EndTimestamp,
		MaxSubdomains: record.MaxSubdomains,
	}, nil
}
