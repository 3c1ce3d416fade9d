package core

import (
	"context"

	"eventcore/internal/authz"
	"eventcore/pkg/domain"
)

// CreateCenterArgs carries the payload for centers.create. The ID is generated
// by the caller before invocation so both execution locations insert the same
// row.
type CreateCenterArgs struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Liaisons  []string `json:"liaisons"`
	Guardians []string `json:"guardians"`
}

// CreateCenter inserts a center plus one membership row per liaison and
// guardian. Admin only.
func (s *Service) CreateCenter(ctx context.Context, actor *Actor, args CreateCenterArgs) (domain.Center, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.Center{}, Result{}, err
	}
	if args.ID == "" {
		return domain.Center{}, Result{}, domain.ValidationError{Reason: "center id is required"}
	}
	if args.Name == "" {
		return domain.Center{}, Result{}, domain.ValidationError{Reason: "center name is required"}
	}

	var created domain.Center
	res, err := s.run(ctx, "centers.create", actor, &args.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateCenter(domain.Center{
			Base: domain.Base{ID: args.ID},
			Name: args.Name,
		})
		if err != nil {
			return err
		}
		for _, userID := range dedupe(args.Liaisons) {
			if err := addCenterLiaison(tx, args.ID, userID); err != nil {
				return err
			}
		}
		for _, userID := range dedupe(args.Guardians) {
			if err := addCenterGuardian(tx, args.ID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	return created, res, err
}

// UpdateCenterArgs carries the payload for centers.update. Nil fields are left
// untouched; nil membership slices leave the relation unchanged.
type UpdateCenterArgs struct {
	ID                 string    `json:"id"`
	Name               *string   `json:"name,omitempty"`
	IsLocked           *bool     `json:"is_locked,omitempty"`
	EnableEventMapping *bool     `json:"enable_event_mapping,omitempty"`
	Liaisons           *[]string `json:"liaisons,omitempty"`
	Guardians          *[]string `json:"guardians,omitempty"`
}

// UpdateCenter patches center fields and diffs liaison/guardian membership
// against the desired sets. Admin only. Fails NotFound before any write when
// the center is missing.
func (s *Service) UpdateCenter(ctx context.Context, actor *Actor, args UpdateCenterArgs) (domain.Center, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.Center{}, Result{}, err
	}

	var updated domain.Center
	res, err := s.run(ctx, "centers.update", actor, &args.ID, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateCenter(args.ID, func(c *domain.Center) error {
			if args.Name != nil {
				c.Name = *args.Name
			}
			if args.IsLocked != nil {
				c.IsLocked = *args.IsLocked
			}
			if args.EnableEventMapping != nil {
				c.EnableEventMapping = *args.EnableEventMapping
			}
			return nil
		})
		if err != nil {
			return err
		}
		if args.Liaisons != nil {
			if err := syncCenterLiaisons(tx, args.ID, dedupe(*args.Liaisons)); err != nil {
				return err
			}
		}
		if args.Guardians != nil {
			if err := syncCenterGuardians(tx, args.ID, dedupe(*args.Guardians)); err != nil {
				return err
			}
		}
		return nil
	})
	return updated, res, err
}

// addCenterLiaison inserts a liaison membership unless the (user, center)
// pair already exists.
func addCenterLiaison(tx Transaction, centerID, userID string) error {
	for _, row := range tx.Snapshot().ListCenterLiaisons() {
		if row.CenterID == centerID && row.UserID == userID {
			return nil
		}
	}
	_, err := tx.CreateCenterLiaison(domain.CenterLiaison{
		Base:     domain.Base{ID: domain.NewID()},
		UserID:   userID,
		CenterID: centerID,
	})
	return err
}

func addCenterGuardian(tx Transaction, centerID, userID string) error {
	for _, row := range tx.Snapshot().ListCenterGuardians() {
		if row.CenterID == centerID && row.UserID == userID {
			return nil
		}
	}
	_, err := tx.CreateCenterGuardian(domain.CenterGuardian{
		Base:     domain.Base{ID: domain.NewID()},
		UserID:   userID,
		CenterID: centerID,
	})
	return err
}

// syncCenterLiaisons diffs the liaison set for a center and applies removals
// before inserts.
func syncCenterLiaisons(tx Transaction, centerID string, desired []string) error {
	rowByUser := map[string]string{}
	var current []string
	for _, row := range tx.Snapshot().ListCenterLiaisons() {
		if row.CenterID == centerID {
			current = append(current, row.UserID)
			rowByUser[row.UserID] = row.ID
		}
	}
	toAdd, toRemove := diffMemberships(current, desired)
	for _, userID := range toRemove {
		if err := tx.DeleteCenterLiaison(rowByUser[userID]); err != nil {
			return err
		}
	}
	for _, userID := range toAdd {
		if err := addCenterLiaison(tx, centerID, userID); err != nil {
			return err
		}
	}
	return nil
}

func syncCenterGuardians(tx Transaction, centerID string, desired []string) error {
	rowByUser := map[string]string{}
	var current []string
	for _, row := range tx.Snapshot().ListCenterGuardians() {
		if row.CenterID == centerID {
			current = append(current, row.UserID)
			rowByUser[row.UserID] = row.ID
		}
	}
	toAdd, toRemove := diffMemberships(current, desired)
	for _, userID := range toRemove {
		if err := tx.DeleteCenterGuardian(rowByUser[userID]); err != nil {
			return err
		}
	}
	for _, userID := range toAdd {
		if err := addCenterGuardian(tx, centerID, userID); err != nil {
			return err
		}
	}
	return nil
}
