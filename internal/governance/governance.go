// Package governance implements the owner-gated administrative operations:
// fee schedule replacement, tier catalog changes, the approved source-code
// list, and contract evolution.
package governance

import (
	"strings"

	"github.com/google/uuid"

	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/fees"
)

// ActiveTierSlots is the number of purchasable tier slots.
const ActiveTierSlots = 3

func requireOwner(s *contract.State, caller string) error {
	if caller != s.Owner {
		return contract.ErrAuthorization("caller is not the owner of the registry")
	}
	return nil
}

// SetFees replaces the entire fee schedule. The replacement is validated
// as a whole; one bad bucket rejects the table and the old schedule stays
// in force.
func SetFees(s *contract.State, caller string, table map[string]int64) error {
	if err := requireOwner(s, caller); err != nil {
		return err
	}
	if err := fees.Validate(table); err != nil {
		return err
	}
	next := make(map[string]int64, len(table))
	for bucket, fee := range table {
		next[bucket] = fee
	}
	s.Fees = next
	return nil
}

// AddANTSourceCodeTx appends a transaction id to the approved source-code
// list. Duplicates are rejected rather than silently ignored.
func AddANTSourceCodeTx(s *contract.State, caller, txID string) error {
	if err := requireOwner(s, caller); err != nil {
		return err
	}
	if !contract.ValidTxID(txID) {
		return contract.ErrValidation(
			"contractTxId must be a %d-character transaction id", contract.TxIDLength)
	}
	for _, existing := range s.ApprovedANTSourceCodeTxs {
		if existing == txID {
			return contract.ErrStateConflict("this contract source is already approved")
		}
	}
	s.ApprovedANTSourceCodeTxs = append(s.ApprovedANTSourceCodeTxs, txID)
	return nil
}

// RemoveANTSourceCodeTx drops a transaction id from the approved list.
func RemoveANTSourceCodeTx(s *contract.State, caller, txID string) error {
	if err := requireOwner(s, caller); err != nil {
		return err
	}
	if !contract.ValidTxID(txID) {
		return contract.ErrValidation(
			"contractTxId must be a %d-character transaction id", contract.TxIDLength)
	}
	for i, existing := range s.ApprovedANTSourceCodeTxs {
		if existing == txID {
			s.ApprovedANTSourceCodeTxs = append(
				s.ApprovedANTSourceCodeTxs[:i], s.ApprovedANTSourceCodeTxs[i+1:]...)
			return nil
		}
	}
	return contract.ErrNotFound("this contract source is not on the approved list")
}

// Evolve records the transaction id of the next contract source. Fails
// permanently once evolution has been disabled.
func Evolve(s *contract.State, caller, value string) error {
	if err := requireOwner(s, caller); err != nil {
		return err
	}
	if !s.CanEvolve {
		return contract.ErrStateConflict("this contract can no longer evolve")
	}
	if !contract.ValidTxID(value) {
		return contract.ErrValidation(
			"value must be a %d-character transaction id", contract.TxIDLength)
	}
	s.Evolve = value
	return nil
}

// CreateNewTier appends a tier definition to the catalog history. The new
// tier prices nothing until a slot is pointed at it with SetActiveTier.
// interactionID, when well formed, becomes the tier id so the catalog
// entry is traceable to the interaction that created it.
func CreateNewTier(s *contract.State, caller string, fee, maxSubdomains int64, interactionID string) (string, error) {
	if err := requireOwner(s, caller); err != nil {
		return "", err
	}
	if fee <= 0 {
		return "", contract.ErrValidation("tier fee must be a positive integer")
	}
	if maxSubdomains <= 0 {
		return "", contract.ErrValidation("maxSubdomains must be a positive integer")
	}
	id := interactionID
	if !contract.ValidTxID(id) {
		id = strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")[:contract.TxIDLength]
	}
	if _, exists := fees.TierByID(s.Tiers, id); exists {
		return "", contract.ErrStateConflict("a tier with id %s already exists", id)
	}
	s.Tiers.History = append(s.Tiers.History, contract.Tier{
		ID:  id,
		Fee: fee,
		Settings: contract.TierSettings{
			MaxSubdomains: maxSubdomains,
		},
	})
	return id, nil
}

// SetActiveTier repoints a slot at a tier already present in the history.
// Existing records keep their tier id; only future pricing through the
// slot changes.
func SetActiveTier(s *contract.State, caller string, slot int, tierID string) error {
	if err := requireOwner(s, caller); err != nil {
		return err
	}
	if slot < 1 || slot > ActiveTierSlots {
		return contract.ErrValidation("tier number must be between 1 and %d", ActiveTierSlots)
	}
	if _, ok := fees.TierByID(s.Tiers, tierID); !ok {
		return contract.ErrNotFound("tier %s does not exist in the catalog history", tierID)
	}
	if s.Tiers.Current == nil {
		s.Tiers.Current = map[int]string{}
	}
	s.Tiers.Current[slot] = tierID
	return nil
}
