package core

import (
	"context"
	"time"

	"eventcore/internal/authz"
	"eventcore/pkg/domain"
)

// CreateParticipantArgs carries the payload for participants.create. Age and
// category are computed by the mutator, never supplied by the caller.
type CreateParticipantArgs struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	DOB      time.Time     `json:"dob"`
	Gender   domain.Gender `json:"gender"`
	CenterID string        `json:"center_id"`
}

// CreateParticipant registers a participant with a center. The mutator
// computes the age from DOB at call time, assigns the first participant
// category whose band contains that age, and enforces the per-center gender
// capacity of that category before any write. Authorized to admins and
// liaisons/guardians of the target center.
func (s *Service) CreateParticipant(ctx context.Context, actor *Actor, args CreateParticipantArgs) (domain.Participant, Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return domain.Participant{}, Result{}, err
	}
	if args.ID == "" {
		return domain.Participant{}, Result{}, domain.ValidationError{Reason: "participant id is required"}
	}
	if args.Name == "" {
		return domain.Participant{}, Result{}, domain.ValidationError{Reason: "participant name is required"}
	}
	if args.Gender != domain.GenderMale && args.Gender != domain.GenderFemale {
		return domain.Participant{}, Result{}, domain.ValidationError{Reason: "participant gender is invalid"}
	}
	age := domain.AgeAt(args.DOB, s.clock.Now())

	var created domain.Participant
	res, err := s.run(ctx, "participants.create", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindCenter(args.CenterID); !ok {
			return domain.NotFoundError{Entity: domain.EntityCenter, ID: args.CenterID}
		}
		if err := authz.RequireAdminOrCenterRelated(view, actor, args.CenterID); err != nil {
			return err
		}

		category, ok := matchCategory(view, age)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityParticipantCategory, ID: ""}
		}

		count := 0
		for _, existing := range view.ListParticipants() {
			if existing.ID == args.ID {
				continue
			}
			if existing.CenterID == args.CenterID &&
				existing.ParticipantCategoryID == category.ID &&
				existing.Gender == args.Gender {
				count++
			}
		}
		if count >= category.CapacityFor(args.Gender) {
			return domain.ValidationError{Reason: "participant category capacity reached for center"}
		}

		var err error
		created, err = tx.CreateParticipant(domain.Participant{
			Base:                  domain.Base{ID: args.ID},
			Name:                  args.Name,
			DOB:                   args.DOB,
			Age:                   age,
			Gender:                args.Gender,
			CenterID:              args.CenterID,
			ParticipantCategoryID: category.ID,
		})
		return err
	})
	return created, res, err
}

// matchCategory returns the first category, in creation order, whose age band
// contains the given age. Overlapping bands resolve to the earliest category.
func matchCategory(view TransactionView, age int) (domain.ParticipantCategory, bool) {
	for _, category := range view.ListParticipantCategories() {
		if category.Contains(age) {
			return category, true
		}
	}
	return domain.ParticipantCategory{}, false
}

// UpdateParticipantArgs carries the payload for participants.update.
type UpdateParticipantArgs struct {
	ID       string         `json:"id"`
	Name     *string        `json:"name,omitempty"`
	Gender   *domain.Gender `json:"gender,omitempty"`
	CenterID *string        `json:"center_id,omitempty"`
}

// UpdateParticipant patches participant fields. Authorization is evaluated
// against the participant's current center before the patch is applied, so a
// center change in the same call cannot widen the actor's reach.
func (s *Service) UpdateParticipant(ctx context.Context, actor *Actor, args UpdateParticipantArgs) (domain.Participant, Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return domain.Participant{}, Result{}, err
	}

	var updated domain.Participant
	res, err := s.run(ctx, "participants.update", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		if err := authz.RequireAdminOrParticipantRelated(view, actor, args.ID); err != nil {
			if _, ok := view.FindParticipant(args.ID); !ok {
				return domain.NotFoundError{Entity: domain.EntityParticipant, ID: args.ID}
			}
			return err
		}
		var err error
		updated, err = tx.UpdateParticipant(args.ID, func(p *domain.Participant) error {
			if args.Name != nil {
				p.Name = *args.Name
			}
			if args.Gender != nil {
				p.Gender = *args.Gender
			}
			if args.CenterID != nil {
				if _, ok := view.FindCenter(*args.CenterID); !ok {
					return domain.NotFoundError{Entity: domain.EntityCenter, ID: *args.CenterID}
				}
				p.CenterID = *args.CenterID
			}
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteParticipantArgs carries the payload for participants.delete.
type DeleteParticipantArgs struct {
	ID string `json:"id"`
}

// DeleteParticipant removes a participant and their sub-event registrations.
// Same center-relationship authorization as update.
func (s *Service) DeleteParticipant(ctx context.Context, actor *Actor, args DeleteParticipantArgs) (Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return Result{}, err
	}
	return s.run(ctx, "participants.delete", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		if _, ok := view.FindParticipant(args.ID); !ok {
			return domain.NotFoundError{Entity: domain.EntityParticipant, ID: args.ID}
		}
		if err := authz.RequireAdminOrParticipantRelated(view, actor, args.ID); err != nil {
			return err
		}
		for _, row := range view.ListSubEventParticipants() {
			if row.ParticipantID == args.ID {
				if err := tx.DeleteSubEventParticipant(row.ID); err != nil {
					return err
				}
			}
		}
		return tx.DeleteParticipant(args.ID)
	})
}

// ToggleParticipantArgs names the participant whose flag is toggled.
type ToggleParticipantArgs struct {
	ID string `json:"id"`
}

// participantToggle flips one boolean field on a participant after the given
// authorization check passes.
func (s *Service) participantToggle(ctx context.Context, op string, actor *Actor, id string,
	authorize func(view TransactionView, centerID string) error,
	flip func(p *domain.Participant),
) (domain.Participant, Result, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return domain.Participant{}, Result{}, err
	}
	var updated domain.Participant
	res, err := s.run(ctx, op, actor, &id, func(tx Transaction) error {
		view := tx.Snapshot()
		participant, ok := view.FindParticipant(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityParticipant, ID: id}
		}
		if err := authorize(view, participant.CenterID); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateParticipant(id, func(p *domain.Participant) error {
			flip(p)
			return nil
		})
		return err
	})
	return updated, res, err
}

// TogglePickedUp flips the picked-up flag. Admin or center liaison only;
// guardians are excluded from venue-operations toggles.
func (s *Service) TogglePickedUp(ctx context.Context, actor *Actor, args ToggleParticipantArgs) (domain.Participant, Result, error) {
	return s.participantToggle(ctx, "participants.togglePickedUp", actor, args.ID,
		func(view TransactionView, centerID string) error {
			return authz.RequireAdminOrCenterLiaison(view, actor, centerID)
		},
		func(p *domain.Participant) { p.PickedUp = !p.PickedUp },
	)
}

// ToggleLeftVenue flips the left-venue flag. Admin or center liaison only.
func (s *Service) ToggleLeftVenue(ctx context.Context, actor *Actor, args ToggleParticipantArgs) (domain.Participant, Result, error) {
	return s.participantToggle(ctx, "participants.toggleLeftVenue", actor, args.ID,
		func(view TransactionView, centerID string) error {
			return authz.RequireAdminOrCenterLiaison(view, actor, centerID)
		},
		func(p *domain.Participant) { p.LeftVenue = !p.LeftVenue },
	)
}

// ToggleDroppedOff flips the dropped-off flag. Admin or center liaison only.
func (s *Service) ToggleDroppedOff(ctx context.Context, actor *Actor, args ToggleParticipantArgs) (domain.Participant, Result, error) {
	return s.participantToggle(ctx, "participants.toggleDroppedOff", actor, args.ID,
		func(view TransactionView, centerID string) error {
			return authz.RequireAdminOrCenterLiaison(view, actor, centerID)
		},
		func(p *domain.Participant) { p.DroppedOff = !p.DroppedOff },
	)
}

// ToggleHadBreakfast flips the breakfast flag. Admin or food-team lead.
func (s *Service) ToggleHadBreakfast(ctx context.Context, actor *Actor, args ToggleParticipantArgs) (domain.Participant, Result, error) {
	return s.participantToggle(ctx, "participants.toggleHadBreakfast", actor, args.ID,
		func(TransactionView, string) error {
			return authz.RequireAdminOrTeamLead(actor, domain.TeamFood)
		},
		func(p *domain.Participant) { p.HadBreakfast = !p.HadBreakfast },
	)
}

// ToggleHadLunch flips the lunch flag. Admin or food-team lead.
func (s *Service) ToggleHadLunch(ctx context.Context, actor *Actor, args ToggleParticipantArgs) (domain.Participant, Result, error) {
	return s.participantToggle(ctx, "participants.toggleHadLunch", actor, args.ID,
		func(TransactionView, string) error {
			return authz.RequireAdminOrTeamLead(actor, domain.TeamFood)
		},
		func(p *domain.Participant) { p.HadLunch = !p.HadLunch },
	)
}
