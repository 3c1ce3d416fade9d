package core

import (
	"context"
	"fmt"

	"eventcore/pkg/domain"
)

// NewInventoryBalanceRule returns the in-transaction rule rejecting negative
// derived inventory quantities.
func NewInventoryBalanceRule() domain.Rule {
	return inventoryBalanceRule{}
}

type inventoryBalanceRule struct{}

func (inventoryBalanceRule) Name() string { return "inventory_balance" }

func (inventoryBalanceRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, inventory := range view.ListInventories() {
		if inventory.Quantity < 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "inventory_balance",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("inventory %s (%s) has negative quantity %d", inventory.Name, inventory.ID, inventory.Quantity),
				Entity:   domain.EntityInventory,
				EntityID: inventory.ID,
			})
		}
	}
	return res, nil
}
