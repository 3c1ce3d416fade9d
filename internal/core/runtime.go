package core

import (
	"context"
	"encoding/json"
	"sort"

	"eventcore/pkg/domain"
)

// Mutation is one logical operation as carried by the replication substrate:
// a dotted operation name plus its serialized argument payload. The same
// mutation is applied once speculatively on the client replica and once
// authoritatively on the server.
type Mutation struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Handler decodes a raw argument payload and invokes one mutator.
type Handler func(ctx context.Context, actor *Actor, raw json.RawMessage) error

// Runtime resolves dotted operation names to mutator handlers over one
// service instance.
type Runtime struct {
	service  *Service
	handlers map[string]Handler
}

// handle adapts a typed mutator to the raw Handler shape.
func handle[T any](fn func(ctx context.Context, actor *Actor, args T) error) Handler {
	return func(ctx context.Context, actor *Actor, raw json.RawMessage) error {
		var args T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return domain.ValidationError{Reason: "malformed arguments: " + err.Error()}
			}
		}
		return fn(ctx, actor, args)
	}
}

// NewRuntime registers the full mutator set over the given service.
func NewRuntime(service *Service) *Runtime {
	r := &Runtime{service: service, handlers: map[string]Handler{}}
	s := service

	r.handlers["centers.create"] = handle(func(ctx context.Context, actor *Actor, args CreateCenterArgs) error {
		_, _, err := s.CreateCenter(ctx, actor, args)
		return err
	})
	r.handlers["centers.update"] = handle(func(ctx context.Context, actor *Actor, args UpdateCenterArgs) error {
		_, _, err := s.UpdateCenter(ctx, actor, args)
		return err
	})
	r.handlers["events.create"] = handle(func(ctx context.Context, actor *Actor, args CreateEventArgs) error {
		_, _, err := s.CreateEvent(ctx, actor, args)
		return err
	})
	r.handlers["events.update"] = handle(func(ctx context.Context, actor *Actor, args UpdateEventArgs) error {
		_, _, err := s.UpdateEvent(ctx, actor, args)
		return err
	})
	r.handlers["events.delete"] = handle(func(ctx context.Context, actor *Actor, args DeleteEventArgs) error {
		_, err := s.DeleteEvent(ctx, actor, args)
		return err
	})
	r.handlers["subEvents.updateScoresheetPhoto"] = handle(func(ctx context.Context, actor *Actor, args UpdateScoresheetPhotoArgs) error {
		_, _, err := s.UpdateScoresheetPhoto(ctx, actor, args)
		return err
	})
	r.handlers["subEvents.delete"] = handle(func(ctx context.Context, actor *Actor, args DeleteSubEventArgs) error {
		_, err := s.DeleteSubEvent(ctx, actor, args)
		return err
	})
	r.handlers["eventCategories.create"] = handle(func(ctx context.Context, actor *Actor, args CreateEventCategoryArgs) error {
		_, _, err := s.CreateEventCategory(ctx, actor, args)
		return err
	})
	r.handlers["eventCategories.update"] = handle(func(ctx context.Context, actor *Actor, args UpdateEventCategoryArgs) error {
		_, _, err := s.UpdateEventCategory(ctx, actor, args)
		return err
	})
	r.handlers["eventCategories.delete"] = handle(func(ctx context.Context, actor *Actor, args DeleteEventCategoryArgs) error {
		_, err := s.DeleteEventCategory(ctx, actor, args)
		return err
	})
	r.handlers["participantCategories.create"] = handle(func(ctx context.Context, actor *Actor, args CreateParticipantCategoryArgs) error {
		_, _, err := s.CreateParticipantCategory(ctx, actor, args)
		return err
	})
	r.handlers["participantCategories.update"] = handle(func(ctx context.Context, actor *Actor, args UpdateParticipantCategoryArgs) error {
		_, _, err := s.UpdateParticipantCategory(ctx, actor, args)
		return err
	})
	r.handlers["participantCategories.delete"] = handle(func(ctx context.Context, actor *Actor, args DeleteParticipantCategoryArgs) error {
		_, err := s.DeleteParticipantCategory(ctx, actor, args)
		return err
	})
	r.handlers["participants.create"] = handle(func(ctx context.Context, actor *Actor, args CreateParticipantArgs) error {
		_, _, err := s.CreateParticipant(ctx, actor, args)
		return err
	})
	r.handlers["participants.update"] = handle(func(ctx context.Context, actor *Actor, args UpdateParticipantArgs) error {
		_, _, err := s.UpdateParticipant(ctx, actor, args)
		return err
	})
	r.handlers["participants.delete"] = handle(func(ctx context.Context, actor *Actor, args DeleteParticipantArgs) error {
		_, err := s.DeleteParticipant(ctx, actor, args)
		return err
	})
	r.handlers["participants.togglePickedUp"] = handle(func(ctx context.Context, actor *Actor, args ToggleParticipantArgs) error {
		_, _, err := s.TogglePickedUp(ctx, actor, args)
		return err
	})
	r.handlers["participants.toggleLeftVenue"] = handle(func(ctx context.Context, actor *Actor, args ToggleParticipantArgs) error {
		_, _, err := s.ToggleLeftVenue(ctx, actor, args)
		return err
	})
	r.handlers["participants.toggleDroppedOff"] = handle(func(ctx context.Context, actor *Actor, args ToggleParticipantArgs) error {
		_, _, err := s.ToggleDroppedOff(ctx, actor, args)
		return err
	})
	r.handlers["participants.toggleHadBreakfast"] = handle(func(ctx context.Context, actor *Actor, args ToggleParticipantArgs) error {
		_, _, err := s.ToggleHadBreakfast(ctx, actor, args)
		return err
	})
	r.handlers["participants.toggleHadLunch"] = handle(func(ctx context.Context, actor *Actor, args ToggleParticipantArgs) error {
		_, _, err := s.ToggleHadLunch(ctx, actor, args)
		return err
	})
	r.handlers["subEventParticipants.createBatch"] = handle(func(ctx context.Context, actor *Actor, args CreateSubEventParticipantsArgs) error {
		_, err := s.CreateSubEventParticipants(ctx, actor, args)
		return err
	})
	r.handlers["subEventParticipants.deleteGroup"] = handle(func(ctx context.Context, actor *Actor, args DeleteSubEventParticipantGroupArgs) error {
		_, err := s.DeleteSubEventParticipantGroup(ctx, actor, args)
		return err
	})
	r.handlers["subEventParticipants.toggleAttended"] = handle(func(ctx context.Context, actor *Actor, args ToggleAttendedArgs) error {
		_, _, err := s.ToggleAttended(ctx, actor, args)
		return err
	})
	r.handlers["subEventParticipants.updateSubmissionPhoto"] = handle(func(ctx context.Context, actor *Actor, args UpdateSubmissionPhotoArgs) error {
		_, _, err := s.UpdateSubmissionPhoto(ctx, actor, args)
		return err
	})
	r.handlers["awards.update"] = handle(func(ctx context.Context, actor *Actor, args UpdateAwardsArgs) error {
		_, _, err := s.UpdateAwards(ctx, actor, args)
		return err
	})
	r.handlers["inventory.create"] = handle(func(ctx context.Context, actor *Actor, args CreateInventoryArgs) error {
		_, _, err := s.CreateInventory(ctx, actor, args)
		return err
	})
	r.handlers["inventory.update"] = handle(func(ctx context.Context, actor *Actor, args UpdateInventoryArgs) error {
		_, _, err := s.UpdateInventory(ctx, actor, args)
		return err
	})
	r.handlers["inventoryTransactions.create"] = handle(func(ctx context.Context, actor *Actor, args CreateInventoryTransactionArgs) error {
		_, _, err := s.CreateInventoryTransaction(ctx, actor, args)
		return err
	})
	r.handlers["inventoryTransactions.delete"] = handle(func(ctx context.Context, actor *Actor, args DeleteInventoryTransactionArgs) error {
		_, err := s.DeleteInventoryTransaction(ctx, actor, args)
		return err
	})
	r.handlers["users.create"] = handle(func(ctx context.Context, actor *Actor, args CreateUserArgs) error {
		_, _, err := s.CreateUser(ctx, actor, args)
		return err
	})
	r.handlers["users.update"] = handle(func(ctx context.Context, actor *Actor, args UpdateUserArgs) error {
		_, _, err := s.UpdateUser(ctx, actor, args)
		return err
	})
	r.handlers["users.delete"] = handle(func(ctx context.Context, actor *Actor, args DeleteUserArgs) error {
		_, err := s.DeleteUser(ctx, actor, args)
		return err
	})
	return r
}

// Service returns the service backing this runtime.
func (r *Runtime) Service() *Service {
	return r.service
}

// Operations lists the registered operation names in sorted order.
func (r *Runtime) Operations() []string {
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Apply resolves a mutation by name and executes it.
func (r *Runtime) Apply(ctx context.Context, actor *Actor, mutation Mutation) error {
	handler, ok := r.handlers[mutation.Name]
	if !ok {
		return domain.ValidationError{Reason: "unknown mutator " + mutation.Name}
	}
	return handler(ctx, actor, mutation.Args)
}
