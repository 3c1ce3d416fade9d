package core

import (
	"context"

	"eventcore/internal/authz"
	"eventcore/pkg/domain"
)

// CreateInventoryArgs carries the payload for inventory.create.
type CreateInventoryArgs struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	Events    []string `json:"events"`
	PhotoPath *string  `json:"photo_path,omitempty"`
}

// CreateInventory inserts an inventory item, its event associations, and the
// initial_inventory ledger entry that makes the quantity reconstructable from
// the ledger from the very first write. Admin or logistics-team lead.
func (s *Service) CreateInventory(ctx context.Context, actor *Actor, args CreateInventoryArgs) (domain.Inventory, Result, error) {
	if err := authz.RequireAdminOrTeamLead(actor, domain.TeamLogistics); err != nil {
		return domain.Inventory{}, Result{}, err
	}
	if args.ID == "" {
		return domain.Inventory{}, Result{}, domain.ValidationError{Reason: "inventory id is required"}
	}
	if args.Name == "" {
		return domain.Inventory{}, Result{}, domain.ValidationError{Reason: "inventory name is required"}
	}
	if args.Quantity < 0 {
		return domain.Inventory{}, Result{}, domain.ValidationError{Reason: "inventory quantity cannot be negative"}
	}
	if err := s.validatePhotoPath(args.PhotoPath); err != nil {
		return domain.Inventory{}, Result{}, err
	}

	var created domain.Inventory
	res, err := s.run(ctx, "inventory.create", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		events := dedupe(args.Events)
		for _, eventID := range events {
			if _, ok := view.FindEvent(eventID); !ok {
				return domain.NotFoundError{Entity: domain.EntityEvent, ID: eventID}
			}
		}
		var err error
		created, err = tx.CreateInventory(domain.Inventory{
			Base:      domain.Base{ID: args.ID},
			Name:      args.Name,
			Quantity:  args.Quantity,
			UnitPrice: args.UnitPrice,
			PhotoPath: args.PhotoPath,
		})
		if err != nil {
			return err
		}
		for _, eventID := range events {
			if err := addInventoryEvent(tx, args.ID, eventID); err != nil {
				return err
			}
		}
		// One initial_inventory entry per item; a re-executed create finds the
		// existing entry and leaves the ledger untouched.
		for _, entry := range view.ListInventoryTransactions() {
			if entry.InventoryID == args.ID && entry.Type == domain.LedgerInitialInventory {
				return nil
			}
		}
		entry, err := tx.CreateInventoryTransaction(domain.InventoryTransaction{
			Base:        domain.Base{ID: domain.NewID()},
			InventoryID: args.ID,
			Type:        domain.LedgerInitialInventory,
			Quantity:    args.Quantity,
		})
		if err != nil {
			return err
		}
		for _, eventID := range events {
			if err := addInventoryTransactionEvent(tx, entry.ID, eventID); err != nil {
				return err
			}
		}
		return nil
	})
	return created, res, err
}

// UpdateInventoryArgs carries the payload for inventory.update. Quantity is
// deliberately absent: it moves only through ledger entries.
type UpdateInventoryArgs struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name,omitempty"`
	UnitPrice *float64  `json:"unit_price,omitempty"`
	PhotoPath *string   `json:"photo_path,omitempty"`
	Events    *[]string `json:"events,omitempty"`
}

// UpdateInventory patches inventory fields and diffs the event association
// set. Admin or logistics-team lead.
func (s *Service) UpdateInventory(ctx context.Context, actor *Actor, args UpdateInventoryArgs) (domain.Inventory, Result, error) {
	if err := authz.RequireAdminOrTeamLead(actor, domain.TeamLogistics); err != nil {
		return domain.Inventory{}, Result{}, err
	}
	if err := s.validatePhotoPath(args.PhotoPath); err != nil {
		return domain.Inventory{}, Result{}, err
	}

	var updated domain.Inventory
	res, err := s.run(ctx, "inventory.update", actor, &args.ID, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateInventory(args.ID, func(inv *domain.Inventory) error {
			if args.Name != nil {
				inv.Name = *args.Name
			}
			if args.UnitPrice != nil {
				inv.UnitPrice = *args.UnitPrice
			}
			if args.PhotoPath != nil {
				if *args.PhotoPath == "" {
					inv.PhotoPath = nil
				} else {
					inv.PhotoPath = args.PhotoPath
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		if args.Events != nil {
			if err := syncInventoryEvents(tx, args.ID, dedupe(*args.Events)); err != nil {
				return err
			}
		}
		return nil
	})
	return updated, res, err
}

// CreateInventoryTransactionArgs carries the payload for
// inventoryTransactions.create.
type CreateInventoryTransactionArgs struct {
	ID           string            `json:"id"`
	InventoryID  string            `json:"inventory_id"`
	Type         domain.LedgerType `json:"type"`
	Quantity     int               `json:"quantity"`
	Events       []string          `json:"events"`
	TransactorID *string           `json:"transactor_id,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
}

// CreateInventoryTransaction appends a ledger entry and applies its delta to
// the derived inventory quantity in the same transaction. The
// initial_inventory type is rejected: it is written only by inventory.create.
// Admin or logistics-team lead.
func (s *Service) CreateInventoryTransaction(ctx context.Context, actor *Actor, args CreateInventoryTransactionArgs) (domain.InventoryTransaction, Result, error) {
	if err := authz.RequireAdminOrTeamLead(actor, domain.TeamLogistics); err != nil {
		return domain.InventoryTransaction{}, Result{}, err
	}
	if args.ID == "" {
		return domain.InventoryTransaction{}, Result{}, domain.ValidationError{Reason: "inventory transaction id is required"}
	}
	if args.Type == domain.LedgerInitialInventory {
		return domain.InventoryTransaction{}, Result{}, domain.ValidationError{Reason: "initial_inventory entries are written only at item creation"}
	}
	switch args.Type {
	case domain.LedgerPurchase, domain.LedgerAdjustment, domain.LedgerEventReturn, domain.LedgerEventDispatch:
	default:
		return domain.InventoryTransaction{}, Result{}, domain.ValidationError{Reason: "unknown ledger entry type"}
	}

	var created domain.InventoryTransaction
	res, err := s.run(ctx, "inventoryTransactions.create", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		inventory, ok := view.FindInventory(args.InventoryID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityInventory, ID: args.InventoryID}
		}
		// An entry with this ID already applied its delta; re-execution is a
		// no-op rather than a double count.
		if existing, ok := view.FindInventoryTransaction(args.ID); ok {
			created = existing
			return nil
		}
		events := dedupe(args.Events)
		for _, eventID := range events {
			if _, ok := view.FindEvent(eventID); !ok {
				return domain.NotFoundError{Entity: domain.EntityEvent, ID: eventID}
			}
		}
		newQuantity, err := domain.ApplyLedger(inventory.Quantity, args.Type, args.Quantity)
		if err != nil {
			return err
		}
		created, err = tx.CreateInventoryTransaction(domain.InventoryTransaction{
			Base:         domain.Base{ID: args.ID},
			InventoryID:  args.InventoryID,
			Type:         args.Type,
			Quantity:     args.Quantity,
			TransactorID: args.TransactorID,
			Notes:        args.Notes,
		})
		if err != nil {
			return err
		}
		for _, eventID := range events {
			if err := addInventoryTransactionEvent(tx, args.ID, eventID); err != nil {
				return err
			}
		}
		_, err = tx.UpdateInventory(args.InventoryID, func(inv *domain.Inventory) error {
			inv.Quantity = newQuantity
			return nil
		})
		return err
	})
	return created, res, err
}

// DeleteInventoryTransactionArgs carries the payload for
// inventoryTransactions.delete.
type DeleteInventoryTransactionArgs struct {
	ID string `json:"id"`
}

// DeleteInventoryTransaction removes a ledger entry, subtracting its quantity
// back out of the derived inventory quantity. The subtraction applies to all
// entry types, including adjustment and initial_inventory rows. Admin or
// logistics-team lead.
func (s *Service) DeleteInventoryTransaction(ctx context.Context, actor *Actor, args DeleteInventoryTransactionArgs) (Result, error) {
	if err := authz.RequireAdminOrTeamLead(actor, domain.TeamLogistics); err != nil {
		return Result{}, err
	}
	return s.run(ctx, "inventoryTransactions.delete", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		entry, ok := view.FindInventoryTransaction(args.ID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityInventoryTransaction, ID: args.ID}
		}
		inventory, ok := view.FindInventory(entry.InventoryID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityInventory, ID: entry.InventoryID}
		}
		newQuantity := domain.ReverseLedger(inventory.Quantity, entry)
		for _, row := range view.ListInventoryTransactionEvents() {
			if row.TransactionID == args.ID {
				if err := tx.DeleteInventoryTransactionEvent(row.ID); err != nil {
					return err
				}
			}
		}
		if err := tx.DeleteInventoryTransaction(args.ID); err != nil {
			return err
		}
		_, err := tx.UpdateInventory(entry.InventoryID, func(inv *domain.Inventory) error {
			inv.Quantity = newQuantity
			return nil
		})
		return err
	})
}

func addInventoryEvent(tx Transaction, inventoryID, eventID string) error {
	for _, row := range tx.Snapshot().ListInventoryEvents() {
		if row.InventoryID == inventoryID && row.EventID == eventID {
			return nil
		}
	}
	_, err := tx.CreateInventoryEvent(domain.InventoryEvent{
		Base:        domain.Base{ID: domain.NewID()},
		InventoryID: inventoryID,
		EventID:     eventID,
	})
	return err
}

func addInventoryTransactionEvent(tx Transaction, transactionID, eventID string) error {
	for _, row := range tx.Snapshot().ListInventoryTransactionEvents() {
		if row.TransactionID == transactionID && row.EventID == eventID {
			return nil
		}
	}
	_, err := tx.CreateInventoryTransactionEvent(domain.InventoryTransactionEvent{
		Base:          domain.Base{ID: domain.NewID()},
		TransactionID: transactionID,
		EventID:       eventID,
	})
	return err
}

func syncInventoryEvents(tx Transaction, inventoryID string, desired []string) error {
	view := tx.Snapshot()
	for _, eventID := range desired {
		if _, ok := view.FindEvent(eventID); !ok {
			return domain.NotFoundError{Entity: domain.EntityEvent, ID: eventID}
		}
	}
	rowByEvent := map[string]string{}
	var current []string
	for _, row := range view.ListInventoryEvents() {
		if row.InventoryID == inventoryID {
			current = append(current, row.EventID)
			rowByEvent[row.EventID] = row.ID
		}
	}
	toAdd, toRemove := diffMemberships(current, desired)
	for _, eventID := range toRemove {
		if err := tx.DeleteInventoryEvent(rowByEvent[eventID]); err != nil {
			return err
		}
	}
	for _, eventID := range toAdd {
		if err := addInventoryEvent(tx, inventoryID, eventID); err != nil {
			return err
		}
	}
	return nil
}
