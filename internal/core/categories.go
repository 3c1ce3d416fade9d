package core

import (
	"context"

	"eventcore/internal/authz"
	"eventcore/pkg/domain"
)

// CreateParticipantCategoryArgs carries the payload for
// participantCategories.create.
type CreateParticipantCategoryArgs struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	MinAge               int    `json:"min_age"`
	MaxAge               int    `json:"max_age"`
	MaxBoys              int    `json:"max_boys"`
	MaxGirls             int    `json:"max_girls"`
	TotalEventsAllowed   int    `json:"total_events_allowed"`
	MaxEventsPerCategory int    `json:"max_events_per_category"`
}

// CreateParticipantCategory inserts an age-band category. Admin only.
func (s *Service) CreateParticipantCategory(ctx context.Context, actor *Actor, args CreateParticipantCategoryArgs) (domain.ParticipantCategory, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.ParticipantCategory{}, Result{}, err
	}
	if args.ID == "" {
		return domain.ParticipantCategory{}, Result{}, domain.ValidationError{Reason: "participant category id is required"}
	}
	if args.Name == "" {
		return domain.ParticipantCategory{}, Result{}, domain.ValidationError{Reason: "participant category name is required"}
	}
	if args.MinAge > args.MaxAge {
		return domain.ParticipantCategory{}, Result{}, domain.ValidationError{Reason: "participant category age band is inverted"}
	}

	var created domain.ParticipantCategory
	res, err := s.run(ctx, "participantCategories.create", actor, &args.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateParticipantCategory(domain.ParticipantCategory{
			Base:                 domain.Base{ID: args.ID},
			Name:                 args.Name,
			MinAge:               args.MinAge,
			MaxAge:               args.MaxAge,
			MaxBoys:              args.MaxBoys,
			MaxGirls:             args.MaxGirls,
			TotalEventsAllowed:   args.TotalEventsAllowed,
			MaxEventsPerCategory: args.MaxEventsPerCategory,
		})
		return err
	})
	return created, res, err
}

// UpdateParticipantCategoryArgs carries the payload for
// participantCategories.update.
type UpdateParticipantCategoryArgs struct {
	ID                   string  `json:"id"`
	Name                 *string `json:"name,omitempty"`
	MinAge               *int    `json:"min_age,omitempty"`
	MaxAge               *int    `json:"max_age,omitempty"`
	MaxBoys              *int    `json:"max_boys,omitempty"`
	MaxGirls             *int    `json:"max_girls,omitempty"`
	TotalEventsAllowed   *int    `json:"total_events_allowed,omitempty"`
	MaxEventsPerCategory *int    `json:"max_events_per_category,omitempty"`
}

// UpdateParticipantCategory patches category fields. Admin only.
func (s *Service) UpdateParticipantCategory(ctx context.Context, actor *Actor, args UpdateParticipantCategoryArgs) (domain.ParticipantCategory, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.ParticipantCategory{}, Result{}, err
	}
	var updated domain.ParticipantCategory
	res, err := s.run(ctx, "participantCategories.update", actor, &args.ID, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateParticipantCategory(args.ID, func(c *domain.ParticipantCategory) error {
			if args.Name != nil {
				c.Name = *args.Name
			}
			if args.MinAge != nil {
				c.MinAge = *args.MinAge
			}
			if args.MaxAge != nil {
				c.MaxAge = *args.MaxAge
			}
			if args.MaxBoys != nil {
				c.MaxBoys = *args.MaxBoys
			}
			if args.MaxGirls != nil {
				c.MaxGirls = *args.MaxGirls
			}
			if args.TotalEventsAllowed != nil {
				c.TotalEventsAllowed = *args.TotalEventsAllowed
			}
			if args.MaxEventsPerCategory != nil {
				c.MaxEventsPerCategory = *args.MaxEventsPerCategory
			}
			if c.MinAge > c.MaxAge {
				return domain.ValidationError{Reason: "participant category age band is inverted"}
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteParticipantCategoryArgs carries the payload for
// participantCategories.delete.
type DeleteParticipantCategoryArgs struct {
	ID string `json:"id"`
}

// DeleteParticipantCategory removes a category. Admin only.
func (s *Service) DeleteParticipantCategory(ctx context.Context, actor *Actor, args DeleteParticipantCategoryArgs) (Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return Result{}, err
	}
	return s.run(ctx, "participantCategories.delete", actor, &args.ID, func(tx Transaction) error {
		return tx.DeleteParticipantCategory(args.ID)
	})
}

// CreateEventCategoryArgs carries the payload for eventCategories.create.
type CreateEventCategoryArgs struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CoordinatorID *string `json:"coordinator_id,omitempty"`
}

// CreateEventCategory inserts an event category. Admin only.
func (s *Service) CreateEventCategory(ctx context.Context, actor *Actor, args CreateEventCategoryArgs) (domain.EventCategory, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.EventCategory{}, Result{}, err
	}
	if args.ID == "" {
		return domain.EventCategory{}, Result{}, domain.ValidationError{Reason: "event category id is required"}
	}
	if args.Name == "" {
		return domain.EventCategory{}, Result{}, domain.ValidationError{Reason: "event category name is required"}
	}
	var created domain.EventCategory
	res, err := s.run(ctx, "eventCategories.create", actor, &args.ID, func(tx Transaction) error {
		if args.CoordinatorID != nil {
			if _, ok := tx.Snapshot().FindUser(*args.CoordinatorID); !ok {
				return domain.NotFoundError{Entity: domain.EntityUser, ID: *args.CoordinatorID}
			}
		}
		var err error
		created, err = tx.CreateEventCategory(domain.EventCategory{
			Base:          domain.Base{ID: args.ID},
			Name:          args.Name,
			CoordinatorID: args.CoordinatorID,
		})
		return err
	})
	return created, res, err
}

// UpdateEventCategoryArgs carries the payload for eventCategories.update.
type UpdateEventCategoryArgs struct {
	ID            string  `json:"id"`
	Name          *string `json:"name,omitempty"`
	CoordinatorID *string `json:"coordinator_id,omitempty"`
	// ClearCoordinator removes the coordinator reference when true.
	ClearCoordinator bool `json:"clear_coordinator,omitempty"`
}

// UpdateEventCategory patches an event category. Admin only.
func (s *Service) UpdateEventCategory(ctx context.Context, actor *Actor, args UpdateEventCategoryArgs) (domain.EventCategory, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.EventCategory{}, Result{}, err
	}
	var updated domain.EventCategory
	res, err := s.run(ctx, "eventCategories.update", actor, &args.ID, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateEventCategory(args.ID, func(c *domain.EventCategory) error {
			if args.Name != nil {
				c.Name = *args.Name
			}
			if args.ClearCoordinator {
				c.CoordinatorID = nil
			} else if args.CoordinatorID != nil {
				if _, ok := tx.Snapshot().FindUser(*args.CoordinatorID); !ok {
					return domain.NotFoundError{Entity: domain.EntityUser, ID: *args.CoordinatorID}
				}
				c.CoordinatorID = args.CoordinatorID
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteEventCategoryArgs carries the payload for eventCategories.delete.
type DeleteEventCategoryArgs struct {
	ID string `json:"id"`
}

// DeleteEventCategory removes an event category. Categories still referenced
// by events cannot be removed. Admin only.
func (s *Service) DeleteEventCategory(ctx context.Context, actor *Actor, args DeleteEventCategoryArgs) (Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return Result{}, err
	}
	return s.run(ctx, "eventCategories.delete", actor, &args.ID, func(tx Transaction) error {
		for _, event := range tx.Snapshot().ListEvents() {
			if event.EventCategoryID == args.ID {
				return domain.ValidationError{Reason: "event category is referenced by events"}
			}
		}
		return tx.DeleteEventCategory(args.ID)
	})
}
