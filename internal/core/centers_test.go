package core

import (
	"context"
	"testing"

	"eventcore/pkg/domain"
)

func liaisonIDs(t *testing.T, s *Service, centerID string) []string {
	t.Helper()
	var out []string
	if err := s.Store().View(context.Background(), func(view TransactionView) error {
		for _, row := range view.ListCenterLiaisons() {
			if row.CenterID == centerID {
				out = append(out, row.UserID)
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	return out
}

func TestCreateCenterWithMembership(t *testing.T) {
	s := newTestService(t)
	seedUser(t, s, "u1", "Asha")
	seedUser(t, s, "u2", "Ben")

	center, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{
		ID: "c1", Name: "North", Liaisons: []string{"u1", "u1"}, Guardians: []string{"u2"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if center.Name != "North" {
		t.Fatalf("name: %s", center.Name)
	}
	if got := liaisonIDs(t, s, "c1"); len(got) != 1 || got[0] != "u1" {
		t.Fatalf("liaisons not deduped: %v", got)
	}
}

func TestCreateCenterRequiresAdmin(t *testing.T) {
	s := newTestService(t)
	_, _, err := s.CreateCenter(context.Background(), volunteerActor("u1"), CreateCenterArgs{ID: "c1", Name: "North"})
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, _, err := s.CreateCenter(context.Background(), nil, CreateCenterArgs{ID: "c1", Name: "North"}); !domain.IsUnauthorized(err) {
		t.Fatalf("nil actor: expected unauthorized, got %v", err)
	}
}

func TestCreateCenterValidation(t *testing.T) {
	s := newTestService(t)
	if _, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{Name: "North"}); !domain.IsValidation(err) {
		t.Fatalf("missing id: expected validation, got %v", err)
	}
	if _, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{ID: "c1"}); !domain.IsValidation(err) {
		t.Fatalf("missing name: expected validation, got %v", err)
	}
}

func TestUpdateCenterDiffsMembership(t *testing.T) {
	s := newTestService(t)
	for _, id := range []string{"u1", "u2", "u3"} {
		seedUser(t, s, id, id)
	}
	seedCenter(t, s, "c1", []string{"u1", "u2"}, nil)

	desired := []string{"u2", "u3"}
	locked := true
	center, _, err := s.UpdateCenter(context.Background(), adminActor(), UpdateCenterArgs{
		ID: "c1", IsLocked: &locked, Liaisons: &desired,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !center.IsLocked {
		t.Fatal("lock flag not applied")
	}
	got := liaisonIDs(t, s, "c1")
	if len(got) != 2 {
		t.Fatalf("liaison count: %v", got)
	}
	seen := map[string]bool{}
	for _, id := range got {
		seen[id] = true
	}
	if !seen["u2"] || !seen["u3"] || seen["u1"] {
		t.Fatalf("membership diff wrong: %v", got)
	}
}

func TestUpdateCenterLeavesMembershipWhenNil(t *testing.T) {
	s := newTestService(t)
	seedUser(t, s, "u1", "Asha")
	seedCenter(t, s, "c1", []string{"u1"}, nil)

	name := "North Valley"
	if _, _, err := s.UpdateCenter(context.Background(), adminActor(), UpdateCenterArgs{ID: "c1", Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := liaisonIDs(t, s, "c1"); len(got) != 1 {
		t.Fatalf("membership changed without a membership argument: %v", got)
	}
}

func TestUpdateCenterMissing(t *testing.T) {
	s := newTestService(t)
	_, _, err := s.UpdateCenter(context.Background(), adminActor(), UpdateCenterArgs{ID: "absent"})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestCreateCenterReExecutionConverges(t *testing.T) {
	s := newTestService(t)
	seedUser(t, s, "u1", "Asha")
	args := CreateCenterArgs{ID: "c1", Name: "North", Liaisons: []string{"u1"}}

	if _, _, err := s.CreateCenter(context.Background(), adminActor(), args); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, _, err := s.CreateCenter(context.Background(), adminActor(), args); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := liaisonIDs(t, s, "c1"); len(got) != 1 {
		t.Fatalf("liaison duplicated on re-run: %v", got)
	}
}
