package domain

import (
	"fmt"
	"sort"
)

// ApplyLedger computes the inventory quantity after applying one ledger entry
// to the current quantity. Purchase and event_return add, event_dispatch
// subtracts, adjustment and initial_inventory replace the running total
// outright. A result below zero fails validation and leaves the caller's
// state untouched.
func ApplyLedger(current int, typ LedgerType, quantity int) (int, error) {
	var next int
	switch typ {
	case LedgerPurchase, LedgerEventReturn:
		next = current + quantity
	case LedgerEventDispatch:
		next = current - quantity
	case LedgerAdjustment, LedgerInitialInventory:
		next = quantity
	default:
		return 0, ValidationError{Reason: fmt.Sprintf("unknown ledger type %q", typ)}
	}
	if next < 0 {
		return 0, ValidationError{Reason: fmt.Sprintf("inventory quantity would become negative (%d)", next)}
	}
	return next, nil
}

// ReverseLedger computes the quantity after removing a ledger entry. The
// entry's own quantity is subtracted back out regardless of its type — for
// adjustment and initial_inventory entries this does not restore the
// pre-entry total. That asymmetry is inherited behavior and is pinned by
// tests rather than corrected here.
func ReverseLedger(current int, entry InventoryTransaction) int {
	return current - entry.Quantity
}

// FoldLedger replays ledger entries in creation order (ties broken by ID) and
// returns the resulting quantity. It is the reference implementation the
// stored Inventory.Quantity must always agree with.
func FoldLedger(entries []InventoryTransaction) (int, error) {
	ordered := append([]InventoryTransaction(nil), entries...)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})
	total := 0
	for _, entry := range ordered {
		next, err := ApplyLedger(total, entry.Type, entry.Quantity)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}
