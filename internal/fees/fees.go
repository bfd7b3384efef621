// Package fees implements the governance-controlled fee schedule and the
// tier catalog reads used by the name registry.
package fees

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/GNSR-Network/registry_core/internal/contract"
)

// BucketCount is the fixed number of name-length buckets in the schedule.
const BucketCount = 32

// Table is a fee schedule keyed by name-length bucket ("1".."32"). Its
// JSON decoding rejects anything that is not a plain integer, so a
// fractional or quoted fee fails before any state is touched.
type Table map[string]int64

// UnmarshalJSON implements json.Unmarshaler with integer-only values.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw map[string]json.Number
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out := make(Table, len(raw))
	for bucket, num := range raw {
		val, err := strconv.ParseInt(num.String(), 10, 64)
		if err != nil {
			return contract.ErrValidation("fee for bucket %q must be an integer", bucket)
		}
		out[bucket] = val
	}
	*t = out
	return nil
}

// Validate checks a replacement schedule: exactly the fixed bucket set,
// every value a positive integer. Any violation rejects the whole table.
func Validate(table map[string]int64) error {
	if len(table) != BucketCount {
		return contract.ErrValidation(
			"fee table must contain exactly %d length buckets, got %d", BucketCount, len(table))
	}
	for bucket := 1; bucket <= BucketCount; bucket++ {
		fee, ok := table[strconv.Itoa(bucket)]
		if !ok {
			return contract.ErrValidation("fee table is missing bucket %d", bucket)
		}
		if fee <= 0 {
			return contract.ErrValidation("fee for bucket %d must be a positive integer", bucket)
		}
	}
	return nil
}

// ForLength resolves the base annual price for a name length.
func ForLength(table map[string]int64, length int) (int64, error) {
	fee, ok := table[strconv.Itoa(length)]
	if !ok {
		return 0, contract.ErrValidation("no fee bucket for name length %d", length)
	}
	return fee, nil
}

// TierByID finds a tier in the catalog history.
func TierByID(tiers contract.Tiers, id string) (contract.Tier, bool) {
	for _, tier := range tiers.History {
		if tier.ID == id {
			return tier, true
		}
	}
	return contract.Tier{}, false
}

// CurrentTier resolves a slot through the current pointer to its tier
// definition. The registry always charges today's fee for a slot, not the
// fee active when an older record was created.
func CurrentTier(tiers contract.Tiers, slot int) (contract.Tier, error) {
	id, ok := tiers.Current[slot]
	if !ok {
		return contract.Tier{}, contract.ErrValidation("tier %d is not an active tier", slot)
	}
	tier, ok := TierByID(tiers, id)
	if !ok {
		return contract.Tier{}, contract.ErrStateConflict(
			"tier slot %d points at unknown tier %s", slot, id)
	}
	return tier, nil
}

// LowestActiveSlot returns the smallest populated slot number. Used when a
// purchase does not name a tier.
func LowestActiveSlot(tiers contract.Tiers) (int, error) {
	lowest := 0
	for slot := range tiers.Current {
		if lowest == 0 || slot < lowest {
			lowest = slot
		}
	}
	if lowest == 0 {
		return 0, contract.ErrStateConflict("tier catalog has no active tiers")
	}
	return lowest, nil
}
