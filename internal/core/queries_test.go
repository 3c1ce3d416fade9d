package core

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"eventcore/pkg/domain"
)

func TestAllUsersVisibility(t *testing.T) {
	s := newTestService(t)
	seedUser(t, s, "u1", "Asha")
	seedUser(t, s, "u2", "Ben")

	all, err := s.AllUsers(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d users, want 2", len(all))
	}

	own, err := s.AllUsers(context.Background(), volunteerActor("u1"))
	if err != nil {
		t.Fatalf("volunteer: %v", err)
	}
	if len(own) != 1 || own[0].ID != "u1" {
		t.Fatalf("non-admin must see only their own row: %v", own)
	}

	if _, err := s.AllUsers(context.Background(), nil); !domain.IsUnauthorized(err) {
		t.Fatalf("anonymous: expected unauthorized, got %v", err)
	}
}

func TestUserByID(t *testing.T) {
	s := newTestService(t)
	id := uuid.NewString()
	seedUser(t, s, id, "Asha")
	other := uuid.NewString()
	seedUser(t, s, other, "Ben")

	if _, err := s.UserByID(context.Background(), adminActor(), "not-a-uuid"); !domain.IsValidation(err) {
		t.Fatalf("malformed id: expected validation error, got %v", err)
	}
	user, err := s.UserByID(context.Background(), adminActor(), id)
	if err != nil {
		t.Fatalf("admin lookup: %v", err)
	}
	if user.FirstName != "Asha" {
		t.Fatalf("wrong row: %+v", user)
	}

	// A non-admin reading another user's row gets not-found, not the row.
	if _, err := s.UserByID(context.Background(), volunteerActor(id), other); !domain.IsNotFound(err) {
		t.Fatalf("foreign row: expected not-found, got %v", err)
	}
	if _, err := s.UserByID(context.Background(), volunteerActor(id), id); err != nil {
		t.Fatalf("own row: %v", err)
	}
	if _, err := s.UserByID(context.Background(), adminActor(), uuid.NewString()); !domain.IsNotFound(err) {
		t.Fatalf("absent row: expected not-found, got %v", err)
	}
}

func TestCentersJoinMembership(t *testing.T) {
	s := newTestService(t)
	seedUser(t, s, "liaison", "Asha")
	seedUser(t, s, "guardian", "Ben")
	seedCenter(t, s, "c1", []string{"liaison"}, []string{"guardian"})
	seedCenter(t, s, "c2", nil, nil)

	details, err := s.Centers(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("admin: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("admin sees %d centers, want 2", len(details))
	}
	var c1 CenterDetail
	for _, d := range details {
		if d.Center.ID == "c1" {
			c1 = d
		}
	}
	if len(c1.Liaisons) != 1 || c1.Liaisons[0].ID != "liaison" {
		t.Fatalf("liaisons not joined: %+v", c1.Liaisons)
	}
	if len(c1.Guardians) != 1 || c1.Guardians[0].ID != "guardian" {
		t.Fatalf("guardians not joined: %+v", c1.Guardians)
	}

	// The liaison sees only their own center.
	visible, err := s.Centers(context.Background(), volunteerActor("liaison"))
	if err != nil {
		t.Fatalf("liaison: %v", err)
	}
	if len(visible) != 1 || visible[0].Center.ID != "c1" {
		t.Fatalf("liaison visibility wrong: %+v", visible)
	}

	if _, err := s.Center(context.Background(), volunteerActor("liaison"), "c2"); !domain.IsNotFound(err) {
		t.Fatalf("foreign center: expected not-found, got %v", err)
	}
}

func TestParticipantsByCenter(t *testing.T) {
	s := newTestService(t)
	seedUser(t, s, "liaison", "Asha")
	seedBand(t, s, "junior", 6, 9, 5, 5)
	seedCenter(t, s, "c1", []string{"liaison"}, nil)
	seedCenter(t, s, "c2", nil, nil)
	seedParticipant(t, s, adminActor(), "p1", "c1", 7, domain.GenderFemale)
	seedParticipant(t, s, adminActor(), "p2", "c2", 8, domain.GenderMale)

	rows, err := s.ParticipantsByCenter(context.Background(), volunteerActor("liaison"), "c1")
	if err != nil {
		t.Fatalf("liaison: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "p1" {
		t.Fatalf("wrong participants: %+v", rows)
	}

	// An unrelated center yields the center row but no visible participants.
	rows, err = s.ParticipantsByCenter(context.Background(), volunteerActor("liaison"), "c2")
	if err != nil {
		t.Fatalf("foreign center: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("foreign participants leaked: %+v", rows)
	}

	if _, err := s.ParticipantsByCenter(context.Background(), adminActor(), "ghost"); !domain.IsNotFound(err) {
		t.Fatalf("unknown center: expected not-found, got %v", err)
	}
}

func TestEventsWithSubEvents(t *testing.T) {
	s := eventFixture(t)
	seedEvent(t, s, "e1", "cat", []TimingArgs{timingFor("junior", fixedNow.AddDate(0, 0, 1))})
	if _, _, err := s.UpdateEvent(context.Background(), adminActor(), UpdateEventArgs{
		ID: "e1", Coordinators: &[]string{"coord"}, Volunteers: &[]string{"vol"},
	}); err != nil {
		t.Fatalf("staff: %v", err)
	}

	details, err := s.EventsWithSubEvents(context.Background(), volunteerActor("vol"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("events: %d", len(details))
	}
	d := details[0]
	if len(d.SubEvents) != 1 {
		t.Fatalf("sub-events not joined: %+v", d.SubEvents)
	}
	if len(d.Coordinators) != 1 || d.Coordinators[0].ID != "coord" {
		t.Fatalf("coordinators not joined: %+v", d.Coordinators)
	}
	if len(d.Volunteers) != 1 || d.Volunteers[0].ID != "vol" {
		t.Fatalf("volunteers not joined: %+v", d.Volunteers)
	}
}

func TestInventoryWithTransactionsGate(t *testing.T) {
	s := newTestService(t)
	if _, _, err := s.CreateInventory(context.Background(), adminActor(), CreateInventoryArgs{
		ID: "inv1", Name: "Chairs", Quantity: 5,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.InventoryWithTransactions(context.Background(), volunteerActor("v")); !domain.IsUnauthorized(err) {
		t.Fatalf("volunteer: expected unauthorized, got %v", err)
	}
	details, err := s.InventoryWithTransactions(context.Background(), teamLeadActor("lead", domain.TeamLogistics))
	if err != nil {
		t.Fatalf("logistics lead: %v", err)
	}
	if len(details) != 1 || len(details[0].Transactions) != 1 {
		t.Fatalf("ledger not joined: %+v", details)
	}
	if details[0].Transactions[0].Type != domain.LedgerInitialInventory {
		t.Fatalf("unexpected entry: %+v", details[0].Transactions[0])
	}
}
