package core

import (
	"context"
	"time"

	"eventcore/internal/authz"
	"eventcore/pkg/domain"
)

// TimingArgs describes one schedule slot for a participant category. Entries
// missing either time are allowed: they are skipped on create and left
// untouched on update, so half-specified schedules persist until filled in.
type TimingArgs struct {
	SubEventID            string     `json:"sub_event_id,omitempty"`
	ParticipantCategoryID string     `json:"participant_category_id"`
	StartTime             *time.Time `json:"start_time,omitempty"`
	EndTime               *time.Time `json:"end_time,omitempty"`
}

func (t TimingArgs) complete() bool {
	return t.StartTime != nil && t.EndTime != nil
}

// CreateEventArgs carries the payload for events.create.
type CreateEventArgs struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Coordinators    []string             `json:"coordinators"`
	Volunteers      []string             `json:"volunteers"`
	EventCategoryID string               `json:"event_category_id"`
	AllowedGender   domain.AllowedGender `json:"allowed_gender"`
	IsGroupEvent    bool                 `json:"is_group_event"`
	MinGroupSize    *int                 `json:"min_group_size,omitempty"`
	MaxGroupSize    *int                 `json:"max_group_size,omitempty"`
	MaxParticipants int                  `json:"max_participants"`
	Timings         []TimingArgs         `json:"timings"`
}

// CreateEvent inserts an event, its coordinator/volunteer membership rows, and
// one sub-event per fully specified timing entry. Admin only.
func (s *Service) CreateEvent(ctx context.Context, actor *Actor, args CreateEventArgs) (domain.Event, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.Event{}, Result{}, err
	}
	if args.ID == "" {
		return domain.Event{}, Result{}, domain.ValidationError{Reason: "event id is required"}
	}
	if args.Name == "" {
		return domain.Event{}, Result{}, domain.ValidationError{Reason: "event name is required"}
	}
	if args.EventCategoryID == "" {
		return domain.Event{}, Result{}, domain.ValidationError{Reason: "event category is required"}
	}
	if args.IsGroupEvent && (args.MinGroupSize == nil || args.MaxGroupSize == nil) {
		return domain.Event{}, Result{}, domain.ValidationError{Reason: "group events require min and max group size"}
	}

	var created domain.Event
	res, err := s.run(ctx, "events.create", actor, &args.ID, func(tx Transaction) error {
		if _, ok := tx.Snapshot().FindEventCategory(args.EventCategoryID); !ok {
			return domain.NotFoundError{Entity: domain.EntityEventCategory, ID: args.EventCategoryID}
		}
		event := domain.Event{
			Base:            domain.Base{ID: args.ID},
			Name:            args.Name,
			EventCategoryID: args.EventCategoryID,
			AllowedGender:   args.AllowedGender,
			IsGroupEvent:    args.IsGroupEvent,
			MaxParticipants: args.MaxParticipants,
		}
		// Group-size fields are nulled when the event is not group based.
		if args.IsGroupEvent {
			event.MinGroupSize = args.MinGroupSize
			event.MaxGroupSize = args.MaxGroupSize
		}
		var err error
		created, err = tx.CreateEvent(event)
		if err != nil {
			return err
		}
		for _, userID := range dedupe(args.Coordinators) {
			if err := addEventCoordinator(tx, args.ID, userID); err != nil {
				return err
			}
		}
		for _, userID := range dedupe(args.Volunteers) {
			if err := addEventVolunteer(tx, args.ID, userID); err != nil {
				return err
			}
		}
		for _, timing := range args.Timings {
			if !timing.complete() {
				continue
			}
			if err := upsertSubEventTiming(tx, args.ID, timing); err != nil {
				return err
			}
		}
		return nil
	})
	return created, res, err
}

// UpdateEventArgs carries the payload for events.update.
type UpdateEventArgs struct {
	ID              string                `json:"id"`
	Name            *string               `json:"name,omitempty"`
	EventCategoryID *string               `json:"event_category_id,omitempty"`
	AllowedGender   *domain.AllowedGender `json:"allowed_gender,omitempty"`
	IsGroupEvent    *bool                 `json:"is_group_event,omitempty"`
	MinGroupSize    *int                  `json:"min_group_size,omitempty"`
	MaxGroupSize    *int                  `json:"max_group_size,omitempty"`
	MaxParticipants *int                  `json:"max_participants,omitempty"`
	Coordinators    *[]string             `json:"coordinators,omitempty"`
	Volunteers      *[]string             `json:"volunteers,omitempty"`
	Timings         []TimingArgs          `json:"timings,omitempty"`
}

// UpdateEvent patches event fields, diffs coordinator/volunteer membership,
// and walks timing entries: complete entries update an existing sub-event in
// place or insert a new one; incomplete entries are left untouched. Admin only.
func (s *Service) UpdateEvent(ctx context.Context, actor *Actor, args UpdateEventArgs) (domain.Event, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.Event{}, Result{}, err
	}

	var updated domain.Event
	res, err := s.run(ctx, "events.update", actor, &args.ID, func(tx Transaction) error {
		current, ok := tx.Snapshot().FindEvent(args.ID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityEvent, ID: args.ID}
		}
		isGroup := current.IsGroupEvent
		if args.IsGroupEvent != nil {
			isGroup = *args.IsGroupEvent
		}
		if isGroup {
			min := current.MinGroupSize
			if args.MinGroupSize != nil {
				min = args.MinGroupSize
			}
			max := current.MaxGroupSize
			if args.MaxGroupSize != nil {
				max = args.MaxGroupSize
			}
			if min == nil || max == nil {
				return domain.ValidationError{Reason: "group events require min and max group size"}
			}
		}

		var err error
		updated, err = tx.UpdateEvent(args.ID, func(e *domain.Event) error {
			if args.Name != nil {
				e.Name = *args.Name
			}
			if args.EventCategoryID != nil {
				if _, ok := tx.Snapshot().FindEventCategory(*args.EventCategoryID); !ok {
					return domain.NotFoundError{Entity: domain.EntityEventCategory, ID: *args.EventCategoryID}
				}
				e.EventCategoryID = *args.EventCategoryID
			}
			if args.AllowedGender != nil {
				e.AllowedGender = *args.AllowedGender
			}
			if args.MaxParticipants != nil {
				e.MaxParticipants = *args.MaxParticipants
			}
			e.IsGroupEvent = isGroup
			if isGroup {
				if args.MinGroupSize != nil {
					e.MinGroupSize = args.MinGroupSize
				}
				if args.MaxGroupSize != nil {
					e.MaxGroupSize = args.MaxGroupSize
				}
			} else {
				e.MinGroupSize = nil
				e.MaxGroupSize = nil
			}
			return nil
		})
		if err != nil {
			return err
		}
		if args.Coordinators != nil {
			if err := syncEventCoordinators(tx, args.ID, dedupe(*args.Coordinators)); err != nil {
				return err
			}
		}
		if args.Volunteers != nil {
			if err := syncEventVolunteers(tx, args.ID, dedupe(*args.Volunteers)); err != nil {
				return err
			}
		}
		for _, timing := range args.Timings {
			if !timing.complete() {
				continue
			}
			if err := upsertSubEventTiming(tx, args.ID, timing); err != nil {
				return err
			}
		}
		return nil
	})
	return updated, res, err
}

// DeleteEventArgs carries the payload for events.delete.
type DeleteEventArgs struct {
	ID string `json:"id"`
}

// DeleteEvent removes an event and, in the same transaction, its sub-events,
// registrations, membership rows, and inventory associations. Admin only.
func (s *Service) DeleteEvent(ctx context.Context, actor *Actor, args DeleteEventArgs) (Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return Result{}, err
	}
	return s.run(ctx, "events.delete", actor, &args.ID, func(tx Transaction) error {
		if _, ok := tx.Snapshot().FindEvent(args.ID); !ok {
			return domain.NotFoundError{Entity: domain.EntityEvent, ID: args.ID}
		}
		return cascadeDeleteEvent(tx, args.ID)
	})
}

// cascadeDeleteEvent removes an event and every row that references it.
func cascadeDeleteEvent(tx Transaction, eventID string) error {
	view := tx.Snapshot()
	for _, subEvent := range view.ListSubEvents() {
		if subEvent.EventID != eventID {
			continue
		}
		if err := deleteSubEventRows(tx, subEvent.ID); err != nil {
			return err
		}
	}
	for _, row := range view.ListEventCoordinators() {
		if row.EventID == eventID {
			if err := tx.DeleteEventCoordinator(row.ID); err != nil {
				return err
			}
		}
	}
	for _, row := range view.ListEventVolunteers() {
		if row.EventID == eventID {
			if err := tx.DeleteEventVolunteer(row.ID); err != nil {
				return err
			}
		}
	}
	for _, row := range view.ListInventoryEvents() {
		if row.EventID == eventID {
			if err := tx.DeleteInventoryEvent(row.ID); err != nil {
				return err
			}
		}
	}
	for _, row := range view.ListInventoryTransactionEvents() {
		if row.EventID == eventID {
			if err := tx.DeleteInventoryTransactionEvent(row.ID); err != nil {
				return err
			}
		}
	}
	return tx.DeleteEvent(eventID)
}

// deleteSubEventRows removes a sub-event and its registrations.
func deleteSubEventRows(tx Transaction, subEventID string) error {
	for _, row := range tx.Snapshot().ListSubEventParticipants() {
		if row.SubEventID == subEventID {
			if err := tx.DeleteSubEventParticipant(row.ID); err != nil {
				return err
			}
		}
	}
	return tx.DeleteSubEvent(subEventID)
}

// upsertSubEventTiming updates an existing sub-event slot in place or inserts
// a new one. Slots are matched by explicit sub-event ID first, then by the
// (event, participant category) pair so re-execution converges on one row.
func upsertSubEventTiming(tx Transaction, eventID string, timing TimingArgs) error {
	view := tx.Snapshot()
	targetID := timing.SubEventID
	if targetID == "" {
		for _, subEvent := range view.ListSubEvents() {
			if subEvent.EventID == eventID && subEvent.ParticipantCategoryID == timing.ParticipantCategoryID {
				targetID = subEvent.ID
				break
			}
		}
	}
	if targetID != "" {
		if _, ok := view.FindSubEvent(targetID); ok {
			_, err := tx.UpdateSubEvent(targetID, func(se *domain.SubEvent) error {
				se.StartTime = *timing.StartTime
				se.EndTime = *timing.EndTime
				return nil
			})
			return err
		}
	}
	if timing.ParticipantCategoryID == "" {
		return domain.ValidationError{Reason: "timing entry requires a participant category"}
	}
	if targetID == "" {
		targetID = domain.NewID()
	}
	_, err := tx.CreateSubEvent(domain.SubEvent{
		Base:                  domain.Base{ID: targetID},
		EventID:               eventID,
		ParticipantCategoryID: timing.ParticipantCategoryID,
		StartTime:             *timing.StartTime,
		EndTime:               *timing.EndTime,
	})
	return err
}

func addEventCoordinator(tx Transaction, eventID, userID string) error {
	for _, row := range tx.Snapshot().ListEventCoordinators() {
		if row.EventID == eventID && row.UserID == userID {
			return nil
		}
	}
	_, err := tx.CreateEventCoordinator(domain.EventCoordinator{
		Base:    domain.Base{ID: domain.NewID()},
		UserID:  userID,
		EventID: eventID,
	})
	return err
}

func addEventVolunteer(tx Transaction, eventID, userID string) error {
	for _, row := range tx.Snapshot().ListEventVolunteers() {
		if row.EventID == eventID && row.UserID == userID {
			return nil
		}
	}
	_, err := tx.CreateEventVolunteer(domain.EventVolunteer{
		Base:    domain.Base{ID: domain.NewID()},
		UserID:  userID,
		EventID: eventID,
	})
	return err
}

func syncEventCoordinators(tx Transaction, eventID string, desired []string) error {
	rowByUser := map[string]string{}
	var current []string
	for _, row := range tx.Snapshot().ListEventCoordinators() {
		if row.EventID == eventID {
			current = append(current, row.UserID)
			rowByUser[row.UserID] = row.ID
		}
	}
	toAdd, toRemove := diffMemberships(current, desired)
	for _, userID := range toRemove {
		if err := tx.DeleteEventCoordinator(rowByUser[userID]); err != nil {
			return err
		}
	}
	for _, userID := range toAdd {
		if err := addEventCoordinator(tx, eventID, userID); err != nil {
			return err
		}
	}
	return nil
}

func syncEventVolunteers(tx Transaction, eventID string, desired []string) error {
	rowByUser := map[string]string{}
	var current []string
	for _, row := range tx.Snapshot().ListEventVolunteers() {
		if row.EventID == eventID {
			current = append(current, row.UserID)
			rowByUser[row.UserID] = row.ID
		}
	}
	toAdd, toRemove := diffMemberships(current, desired)
	for _, userID := range toRemove {
		if err := tx.DeleteEventVolunteer(rowByUser[userID]); err != nil {
			return err
		}
	}
	for _, userID := range toAdd {
		if err := addEventVolunteer(tx, eventID, userID); err != nil {
			return err
		}
	}
	return nil
}
