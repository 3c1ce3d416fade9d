package identity

import (
	"context"
	"testing"
)

func TestMemoryProviderLifecycle(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	id, err := p.CreateAccount(ctx, Profile{FirstName: "Asha", PhoneNumber: "555-0100"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("empty account id")
	}
	if p.Len() != 1 {
		t.Fatalf("len: got %d want 1", p.Len())
	}

	if err := p.UpdateAccount(ctx, id, Profile{FirstName: "Asha", PhoneNumber: "555-0199"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	profile, ok := p.Account(id)
	if !ok || profile.PhoneNumber != "555-0199" {
		t.Fatalf("profile not updated: %+v", profile)
	}

	if err := p.DeleteAccount(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("len after delete: got %d want 0", p.Len())
	}
}

func TestMemoryProviderUnknownAccount(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()
	if err := p.UpdateAccount(ctx, "missing", Profile{}); err == nil {
		t.Fatal("update of unknown account should fail")
	}
	if err := p.DeleteAccount(ctx, "missing"); err == nil {
		t.Fatal("delete of unknown account should fail")
	}
}

func TestMemoryProviderFailureKnobs(t *testing.T) {
	p := NewMemoryProvider()
	ctx := context.Background()

	p.FailCreate = true
	if _, err := p.CreateAccount(ctx, Profile{}); err == nil {
		t.Fatal("forced create failure not surfaced")
	}
	p.FailCreate = false

	id, err := p.CreateAccount(ctx, Profile{FirstName: "Asha"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	p.FailUpdate = true
	if err := p.UpdateAccount(ctx, id, Profile{}); err == nil {
		t.Fatal("forced update failure not surfaced")
	}
	p.FailDelete = true
	if err := p.DeleteAccount(ctx, id); err == nil {
		t.Fatal("forced delete failure not surfaced")
	}
	if p.Len() != 1 {
		t.Fatal("failed delete should leave the account")
	}
}
