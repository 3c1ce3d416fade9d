package core

import (
	"context"

	"eventcore/internal/authz"
	"eventcore/pkg/domain"
)

// UpdateScoresheetPhotoArgs carries the payload for
// subEvents.updateScoresheetPhoto. A nil path clears the reference.
type UpdateScoresheetPhotoArgs struct {
	ID   string  `json:"id"`
	Path *string `json:"path"`
}

// UpdateScoresheetPhoto sets or clears a sub-event's scoresheet photo
// reference. Authorized through the event-coordinator relationship.
func (s *Service) UpdateScoresheetPhoto(ctx context.Context, actor *Actor, args UpdateScoresheetPhotoArgs) (domain.SubEvent, Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return domain.SubEvent{}, Result{}, err
	}
	if err := s.validatePhotoPath(args.Path); err != nil {
		return domain.SubEvent{}, Result{}, err
	}

	var updated domain.SubEvent
	res, err := s.run(ctx, "subEvents.updateScoresheetPhoto", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindSubEvent(args.ID); !ok {
			return domain.NotFoundError{Entity: domain.EntitySubEvent, ID: args.ID}
		}
		if err := authz.RequireEventCoordinatorOfSubEvent(view, actor, args.ID); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateSubEvent(args.ID, func(se *domain.SubEvent) error {
			se.ScoresheetPhoto = args.Path
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteSubEventArgs carries the payload for subEvents.delete.
type DeleteSubEventArgs struct {
	ID string `json:"id"`
}

// DeleteSubEvent removes a sub-event and its registrations. When the slot is
// the owning event's only sub-event, the whole event is deleted instead.
// Admin only.
func (s *Service) DeleteSubEvent(ctx context.Context, actor *Actor, args DeleteSubEventArgs) (Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return Result{}, err
	}
	return s.run(ctx, "subEvents.delete", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		subEvent, ok := view.FindSubEvent(args.ID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntitySubEvent, ID: args.ID}
		}
		siblings := 0
		for _, candidate := range view.ListSubEvents() {
			if candidate.EventID == subEvent.EventID {
				siblings++
			}
		}
		if siblings == 1 {
			return cascadeDeleteEvent(tx, subEvent.EventID)
		}
		return deleteSubEventRows(tx, args.ID)
	})
}
