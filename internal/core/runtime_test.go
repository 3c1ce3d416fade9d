package core

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"eventcore/pkg/domain"
)

func TestRuntimeApply(t *testing.T) {
	s := newTestService(t)
	rt := NewRuntime(s)

	args, err := json.Marshal(CreateCenterArgs{ID: "c1", Name: "North"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := rt.Apply(context.Background(), adminActor(), Mutation{Name: "centers.create", Args: args}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := s.Store().GetCenter("c1"); !ok {
		t.Fatal("mutation did not reach the store")
	}
}

func TestRuntimeUnknownMutator(t *testing.T) {
	rt := NewRuntime(newTestService(t))
	err := rt.Apply(context.Background(), adminActor(), Mutation{Name: "centers.destroy"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRuntimeMalformedArguments(t *testing.T) {
	rt := NewRuntime(newTestService(t))
	err := rt.Apply(context.Background(), adminActor(), Mutation{
		Name: "centers.create",
		Args: json.RawMessage(`{"id": 42}`),
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRuntimeOperationsAreSortedAndDotted(t *testing.T) {
	rt := NewRuntime(newTestService(t))
	ops := rt.Operations()
	if len(ops) == 0 {
		t.Fatal("no operations registered")
	}
	if !sort.StringsAreSorted(ops) {
		t.Fatalf("operations not sorted: %v", ops)
	}
	for _, required := range []string{
		"centers.create", "events.create", "participants.create",
		"subEventParticipants.createBatch", "inventoryTransactions.create", "users.delete",
	} {
		found := false
		for _, op := range ops {
			if op == required {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("operation %q not registered", required)
		}
	}
}
