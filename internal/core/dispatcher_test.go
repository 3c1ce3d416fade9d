package core

import (
	"context"
	"encoding/json"
	"testing"

	"eventcore/pkg/domain"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	client := NewRuntime(newTestService(t, WithLocation(domain.LocationClient)))
	server := NewRuntime(newTestService(t))
	return NewDispatcher(client, server)
}

func mustMutation(t *testing.T, name string, args any) Mutation {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	return Mutation{Name: name, Args: raw}
}

func TestDispatcherAppliesToBothLocations(t *testing.T) {
	d := newTestDispatcher(t)
	if err := d.Apply(context.Background(), adminActor(), mustMutation(t, "centers.create", CreateCenterArgs{ID: "c1", Name: "North"})); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := d.Server().Service().Store().GetCenter("c1"); !ok {
		t.Fatal("server store missing the row")
	}
	if _, ok := d.Client().Service().Store().GetCenter("c1"); !ok {
		t.Fatal("client replica missing the row after rebase")
	}
}

func TestDispatcherServerVerdictWins(t *testing.T) {
	d := newTestDispatcher(t)

	// Seed the client replica only, so the speculative run succeeds where the
	// authoritative one fails.
	clientOnly := NewRuntime(d.Client().Service())
	if err := clientOnly.Apply(context.Background(), adminActor(), mustMutation(t, "centers.create", CreateCenterArgs{ID: "c1", Name: "North"})); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	name := "Renamed"
	err := d.Apply(context.Background(), adminActor(), mustMutation(t, "centers.update", UpdateCenterArgs{ID: "c1", Name: &name}))
	if !domain.IsNotFound(err) {
		t.Fatalf("expected the server's not-found verdict, got %v", err)
	}
	// The rebase discards the speculative row that the server never saw.
	if _, ok := d.Client().Service().Store().GetCenter("c1"); ok {
		t.Fatal("speculative divergence must be discarded on rebase")
	}
}

func TestDispatcherRebaseSurvivesClientFailure(t *testing.T) {
	d := newTestDispatcher(t)

	// Make the replica stale: write directly to the server, bypassing the
	// dispatcher.
	if err := d.Server().Apply(context.Background(), adminActor(), mustMutation(t, "centers.create", CreateCenterArgs{ID: "c1", Name: "North"})); err != nil {
		t.Fatalf("server write: %v", err)
	}

	// The client run fails (no such center in the replica) but the server run
	// succeeds, and the rebase brings the replica up to date.
	name := "Renamed"
	if err := d.Apply(context.Background(), adminActor(), mustMutation(t, "centers.update", UpdateCenterArgs{ID: "c1", Name: &name})); err != nil {
		t.Fatalf("apply: %v", err)
	}
	replica, ok := d.Client().Service().Store().GetCenter("c1")
	if !ok {
		t.Fatal("replica not rebased")
	}
	if replica.Name != "Renamed" {
		t.Fatalf("replica name: %q", replica.Name)
	}
}
