package core

import (
	"context"

	"eventcore/internal/authz"
	"eventcore/pkg/domain"
)

// CreateSubEventParticipantsArgs carries the payload for
// subEventParticipants.createBatch. A non-empty GroupID registers the batch
// as a group for a group event.
type CreateSubEventParticipantsArgs struct {
	SubEventID     string   `json:"sub_event_id"`
	ParticipantIDs []string `json:"participant_ids"`
	GroupID        string   `json:"group_id,omitempty"`
}

// CreateSubEventParticipants registers a batch of participants for one
// sub-event. The batch authorizes against the first participant's center
// relationship; batches are assumed homogeneous in authorization scope.
// Already-registered (participant, sub-event) pairs are skipped so
// re-execution converges.
func (s *Service) CreateSubEventParticipants(ctx context.Context, actor *Actor, args CreateSubEventParticipantsArgs) (Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return Result{}, err
	}
	ids := dedupe(args.ParticipantIDs)
	if len(ids) == 0 {
		return Result{}, domain.ValidationError{Reason: "participant list is empty"}
	}

	return s.run(ctx, "subEventParticipants.createBatch", actor, &args.SubEventID, func(tx Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindSubEvent(args.SubEventID); !ok {
			return domain.NotFoundError{Entity: domain.EntitySubEvent, ID: args.SubEventID}
		}
		if err := authz.RequireAdminOrParticipantRelated(view, actor, ids[0]); err != nil {
			return err
		}
		registered := map[string]bool{}
		for _, row := range view.ListSubEventParticipants() {
			if row.SubEventID == args.SubEventID {
				registered[row.ParticipantID] = true
			}
		}
		for _, participantID := range ids {
			if _, ok := view.FindParticipant(participantID); !ok {
				return domain.NotFoundError{Entity: domain.EntityParticipant, ID: participantID}
			}
			if registered[participantID] {
				continue
			}
			row := domain.SubEventParticipant{
				Base:          domain.Base{ID: domain.NewID()},
				ParticipantID: participantID,
				SubEventID:    args.SubEventID,
			}
			if args.GroupID != "" {
				groupID := args.GroupID
				row.GroupID = &groupID
			}
			if _, err := tx.CreateSubEventParticipant(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSubEventParticipantGroupArgs carries the payload for
// subEventParticipants.deleteGroup.
type DeleteSubEventParticipantGroupArgs struct {
	GroupID string `json:"group_id"`
}

// DeleteSubEventParticipantGroup removes every registration sharing a group
// ID as one unit. Authorized through any one member's center relationship.
func (s *Service) DeleteSubEventParticipantGroup(ctx context.Context, actor *Actor, args DeleteSubEventParticipantGroupArgs) (Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return Result{}, err
	}
	return s.run(ctx, "subEventParticipants.deleteGroup", actor, &args.GroupID, func(tx Transaction) error {
		view := tx.Snapshot()
		var members []domain.SubEventParticipant
		for _, row := range view.ListSubEventParticipants() {
			if row.GroupID != nil && *row.GroupID == args.GroupID {
				members = append(members, row)
			}
		}
		if len(members) == 0 {
			return domain.NotFoundError{Entity: domain.EntitySubEventParticipant, ID: args.GroupID}
		}
		if err := authz.RequireAdminOrSubEventParticipantRelated(view, actor, args.GroupID); err != nil {
			return err
		}
		for _, row := range members {
			if err := tx.DeleteSubEventParticipant(row.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ToggleAttendedArgs names the registration whose attendance flag is flipped.
type ToggleAttendedArgs struct {
	ID string `json:"id"`
}

// ToggleAttended flips the attendance flag on a registration. Authorized
// through the event-coordinator relationship.
func (s *Service) ToggleAttended(ctx context.Context, actor *Actor, args ToggleAttendedArgs) (domain.SubEventParticipant, Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return domain.SubEventParticipant{}, Result{}, err
	}
	var updated domain.SubEventParticipant
	res, err := s.run(ctx, "subEventParticipants.toggleAttended", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindSubEventParticipant(args.ID); !ok {
			return domain.NotFoundError{Entity: domain.EntitySubEventParticipant, ID: args.ID}
		}
		if err := authz.RequireEventCoordinatorOfSubEvent(view, actor, args.ID); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateSubEventParticipant(args.ID, func(row *domain.SubEventParticipant) error {
			row.Attended = !row.Attended
			return nil
		})
		return err
	})
	return updated, res, err
}

// UpdateAwardsArgs carries the payload for awards.update. Nil flags are left
// untouched.
type UpdateAwardsArgs struct {
	ID           string `json:"id"`
	IsWinner     *bool  `json:"is_winner,omitempty"`
	IsRunner     *bool  `json:"is_runner,omitempty"`
	PrizeAwarded *bool  `json:"prize_awarded,omitempty"`
}

// UpdateAwards patches the award flags on a registration. Authorized through
// the event-coordinator relationship.
func (s *Service) UpdateAwards(ctx context.Context, actor *Actor, args UpdateAwardsArgs) (domain.SubEventParticipant, Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return domain.SubEventParticipant{}, Result{}, err
	}
	var updated domain.SubEventParticipant
	res, err := s.run(ctx, "awards.update", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindSubEventParticipant(args.ID); !ok {
			return domain.NotFoundError{Entity: domain.EntitySubEventParticipant, ID: args.ID}
		}
		if err := authz.RequireEventCoordinatorOfSubEvent(view, actor, args.ID); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateSubEventParticipant(args.ID, func(row *domain.SubEventParticipant) error {
			if args.IsWinner != nil {
				row.IsWinner = *args.IsWinner
			}
			if args.IsRunner != nil {
				row.IsRunner = *args.IsRunner
			}
			if args.PrizeAwarded != nil {
				row.PrizeAwarded = *args.PrizeAwarded
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// UpdateSubmissionPhotoArgs carries the payload for
// subEventParticipants.updateSubmissionPhoto. A nil path clears the reference.
type UpdateSubmissionPhotoArgs struct {
	ID   string  `json:"id"`
	Path *string `json:"path"`
}

// UpdateSubmissionPhoto sets or clears a registration's submission photo
// reference. Authorized through the registration's center relationship.
func (s *Service) UpdateSubmissionPhoto(ctx context.Context, actor *Actor, args UpdateSubmissionPhotoArgs) (domain.SubEventParticipant, Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return domain.SubEventParticipant{}, Result{}, err
	}
	if err := s.validatePhotoPath(args.Path); err != nil {
		return domain.SubEventParticipant{}, Result{}, err
	}
	var updated domain.SubEventParticipant
	res, err := s.run(ctx, "subEventParticipants.updateSubmissionPhoto", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindSubEventParticipant(args.ID); !ok {
			return domain.NotFoundError{Entity: domain.EntitySubEventParticipant, ID: args.ID}
		}
		if err := authz.RequireAdminOrSubEventParticipantRelated(view, actor, args.ID); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateSubEventParticipant(args.ID, func(row *domain.SubEventParticipant) error {
			row.SubmissionPhoto = args.Path
			return nil
		})
		return err
	})
	return updated, res, err
}
