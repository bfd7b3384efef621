// Package vaulting implements the generic time-locked fund primitive.
//
// A vault holds a balance borrowed from the ledger between a start height
// and an end height. End == 0 means no scheduled release: the balance is
// locked until an unlock is initiated. Balances are returned exactly once,
// exactly to the owning address, when a due vault is finalized.
package vaulting

import (
	"github.com/GNSR-Network/registry_core/internal/contract"
)

// Lock creates a vault holding amount from start. end may be zero.
func Lock(amount, start, end int64) (contract.Vault, error) {
	if amount <= 0 {
		return contract.Vault{}, contract.ErrValidation("vault amount must be a positive integer")
	}
	if end != 0 && end < start {
		return contract.Vault{}, contract.ErrValidation("vault end height precedes its start")
	}
	return contract.Vault{Balance: amount, Start: start, End: end}, nil
}

// InitiateUnlock schedules the vault's release at height + withdrawDelay.
// It fails while the vault has not been locked for minLock heights, and
// when an unlock is already scheduled.
func InitiateUnlock(v contract.Vault, height, minLock, withdrawDelay int64) (contract.Vault, error) {
	if v.End != 0 {
		return v, contract.ErrStateConflict("vault is already unlocking at height %d", v.End)
	}
	if height-v.Start < minLock {
		return v, contract.ErrStateConflict(
			"vault has not been locked long enough: %d of %d heights elapsed",
			height-v.Start, minLock)
	}
	v.End = height + withdrawDelay
	return v, nil
}

// Due reports whether the vault's scheduled release has been reached.
func Due(v contract.Vault, height int64) bool {
	return v.End != 0 && height >= v.End
}

// FinalizeDue removes every due vault, returning the surviving vaults and
// the total balance released. Finalizing with nothing due releases zero
// and is not an error.
func FinalizeDue(vaults []contract.Vault, height int64) (remaining []contract.Vault, released int64) {
	remaining = vaults[:0:0]
	for _, v := range vaults {
		if Due(v, height) {
			released += v.Balance
			continue
		}
		remaining = append(remaining, v)
	}
	return remaining, released
}

// TotalBalance sums the locked balances of a vault collection.
func TotalBalance(vaults []contract.Vault) int64 {
	var sum int64
	for _, v := range vaults {
		sum += v.Balance
	}
	return sum
}
