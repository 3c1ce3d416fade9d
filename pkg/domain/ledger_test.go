package domain

import "testing"

func TestApplyLedgerQuantityEffects(t *testing.T) {
	cases := []struct {
		name    string
		current int
		typ     LedgerType
		qty     int
		want    int
	}{
		{"purchase adds", 10, LedgerPurchase, 5, 15},
		{"event return adds", 3, LedgerEventReturn, 2, 5},
		{"event dispatch subtracts", 10, LedgerEventDispatch, 4, 6},
		{"adjustment replaces", 10, LedgerAdjustment, 7, 7},
		{"initial inventory replaces", 4, LedgerInitialInventory, 12, 12},
		{"dispatch to zero", 4, LedgerEventDispatch, 4, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ApplyLedger(tc.current, tc.typ, tc.qty)
			if err != nil {
				t.Fatalf("ApplyLedger: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestApplyLedgerRejectsNegativeResult(t *testing.T) {
	if _, err := ApplyLedger(3, LedgerEventDispatch, 4); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyLedgerRejectsUnknownType(t *testing.T) {
	if _, err := ApplyLedger(3, LedgerType("donation"), 1); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// Reversal subtracts the entry quantity regardless of type, so removing a
// replacing entry (adjustment, initial) does not restore the pre-entry value.
func TestReverseLedgerAlwaysSubtracts(t *testing.T) {
	entries := []InventoryTransaction{
		{Type: LedgerPurchase, Quantity: 5},
		{Type: LedgerEventDispatch, Quantity: 2},
		{Type: LedgerAdjustment, Quantity: 7},
	}
	for _, entry := range entries {
		if got := ReverseLedger(10, entry); got != 10-entry.Quantity {
			t.Fatalf("reverse %s: got %d want %d", entry.Type, got, 10-entry.Quantity)
		}
	}
}

func TestFoldLedgerIsOrderSensitive(t *testing.T) {
	entries := []InventoryTransaction{
		{Type: LedgerInitialInventory, Quantity: 10},
		{Type: LedgerEventDispatch, Quantity: 4},
		{Type: LedgerAdjustment, Quantity: 3},
		{Type: LedgerPurchase, Quantity: 2},
	}
	got, err := FoldLedger(entries)
	if err != nil {
		t.Fatalf("FoldLedger: %v", err)
	}
	if got != 5 {
		t.Fatalf("got %d want 5", got)
	}
}

func TestFoldLedgerPropagatesNegative(t *testing.T) {
	entries := []InventoryTransaction{
		{Type: LedgerInitialInventory, Quantity: 2},
		{Type: LedgerEventDispatch, Quantity: 3},
	}
	if _, err := FoldLedger(entries); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
