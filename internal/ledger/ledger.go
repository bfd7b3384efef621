// Package ledger provides core balance management for the registry.
//
// This is NOT a component with its own interactions beyond transfer and
// mint: it is the infrastructure every other component uses to move funds.
// Debit and Credit are the internal primitives; callers are responsible
// for invoking them on a state clone so a later rejection discards the
// whole transition.
package ledger

import (
	"github.com/GNSR-Network/registry_core/internal/contract"
)

// Transfer moves qty from caller to target.
func Transfer(balances map[string]int64, caller, target string, qty int64) error {
	if qty <= 0 {
		return contract.ErrValidation("quantity must be a positive integer")
	}
	if target == "" {
		return contract.ErrValidation("transfer target is required")
	}
	if target == caller {
		return contract.ErrValidation("invalid target: cannot transfer to self")
	}
	if err := Debit(balances, caller, qty); err != nil {
		return err
	}
	Credit(balances, target, qty)
	return nil
}

// Mint creates qty new units and credits them to caller. Ownership is
// enforced by the dispatcher; qty validation lives here.
func Mint(balances map[string]int64, caller string, qty int64) error {
	if qty <= 0 {
		return contract.ErrValidation("mint quantity must be a positive integer")
	}
	Credit(balances, caller, qty)
	return nil
}

// Debit removes qty from addr, failing without mutation when the balance
// is short. Zero balances persist; they are legitimate account entries.
func Debit(balances map[string]int64, addr string, qty int64) error {
	if qty <= 0 {
		return contract.ErrValidation("debit quantity must be a positive integer")
	}
	available := balances[addr]
	if available < qty {
		return contract.ErrInsufficientFunds(
			"insufficient balance: available %d, requested %d", available, qty)
	}
	balances[addr] = available - qty
	return nil
}

// Credit adds qty to addr, creating the entry on demand.
func Credit(balances map[string]int64, addr string, qty int64) {
	balances[addr] += qty
}

// Total sums all spendable balances. Used by conservation checks in tests.
func Total(balances map[string]int64) int64 {
	var sum int64
	for _, bal := range balances {
		sum += bal
	}
	return sum
}
