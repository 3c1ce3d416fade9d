package core

import (
	"context"
	"testing"
	"time"

	"eventcore/pkg/domain"
)

// registrationFixture seeds an event with one sub-event, a center with a
// liaison, and two participants in the center.
func registrationFixture(t *testing.T) (*Service, string) {
	t.Helper()
	s := eventFixture(t)
	seedEvent(t, s, "e1", "cat", []TimingArgs{timingFor("junior", fixedNow.Add(24 * time.Hour))})
	seedUser(t, s, "liaison", "Dee")
	seedCenter(t, s, "c1", []string{"liaison"}, nil)
	seedParticipant(t, s, adminActor(), "p1", "c1", 7, domain.GenderFemale)
	seedParticipant(t, s, adminActor(), "p2", "c1", 8, domain.GenderMale)
	return s, listSubEvents(t, s, "e1")[0].ID
}

func registrationsFor(t *testing.T, s *Service, subEventID string) []domain.SubEventParticipant {
	t.Helper()
	var rows []domain.SubEventParticipant
	if err := s.Store().View(context.Background(), func(view TransactionView) error {
		for _, row := range view.ListSubEventParticipants() {
			if row.SubEventID == subEventID {
				rows = append(rows, row)
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	return rows
}

func TestCreateSubEventParticipantsBatch(t *testing.T) {
	s, subID := registrationFixture(t)

	if _, err := s.CreateSubEventParticipants(context.Background(), volunteerActor("liaison"), CreateSubEventParticipantsArgs{
		SubEventID: subID, ParticipantIDs: []string{"p1", "p2", "p1"},
	}); err != nil {
		t.Fatalf("batch create: %v", err)
	}
	if rows := registrationsFor(t, s, subID); len(rows) != 2 {
		t.Fatalf("registrations: got %d want 2 (duplicate IDs must collapse)", len(rows))
	}

	// Re-execution skips pairs that already exist.
	if _, err := s.CreateSubEventParticipants(context.Background(), volunteerActor("liaison"), CreateSubEventParticipantsArgs{
		SubEventID: subID, ParticipantIDs: []string{"p1", "p2"},
	}); err != nil {
		t.Fatalf("re-execution: %v", err)
	}
	if rows := registrationsFor(t, s, subID); len(rows) != 2 {
		t.Fatalf("re-execution duplicated registrations: %d", len(rows))
	}
}

func TestCreateSubEventParticipantsValidation(t *testing.T) {
	s, subID := registrationFixture(t)

	if _, err := s.CreateSubEventParticipants(context.Background(), adminActor(), CreateSubEventParticipantsArgs{
		SubEventID: subID,
	}); !domain.IsValidation(err) {
		t.Fatalf("empty batch: expected validation error, got %v", err)
	}
	if _, err := s.CreateSubEventParticipants(context.Background(), adminActor(), CreateSubEventParticipantsArgs{
		SubEventID: "absent", ParticipantIDs: []string{"p1"},
	}); !domain.IsNotFound(err) {
		t.Fatalf("unknown sub-event: expected not-found, got %v", err)
	}
	if _, err := s.CreateSubEventParticipants(context.Background(), adminActor(), CreateSubEventParticipantsArgs{
		SubEventID: subID, ParticipantIDs: []string{"ghost"},
	}); !domain.IsNotFound(err) {
		t.Fatalf("unknown participant: expected not-found, got %v", err)
	}
	seedUser(t, s, "bystander", "Eve")
	if _, err := s.CreateSubEventParticipants(context.Background(), volunteerActor("bystander"), CreateSubEventParticipantsArgs{
		SubEventID: subID, ParticipantIDs: []string{"p1"},
	}); !domain.IsUnauthorized(err) {
		t.Fatalf("unrelated caller: expected unauthorized, got %v", err)
	}
}

func TestGroupRegistrationLifecycle(t *testing.T) {
	s, subID := registrationFixture(t)

	if _, err := s.CreateSubEventParticipants(context.Background(), volunteerActor("liaison"), CreateSubEventParticipantsArgs{
		SubEventID: subID, ParticipantIDs: []string{"p1", "p2"}, GroupID: "group-alpha",
	}); err != nil {
		t.Fatalf("group create: %v", err)
	}
	for _, row := range registrationsFor(t, s, subID) {
		if row.GroupID == nil || *row.GroupID != "group-alpha" {
			t.Fatalf("registration missing group ID: %+v", row)
		}
	}

	if _, err := s.DeleteSubEventParticipantGroup(context.Background(), volunteerActor("liaison"), DeleteSubEventParticipantGroupArgs{GroupID: "group-alpha"}); err != nil {
		t.Fatalf("group delete: %v", err)
	}
	if rows := registrationsFor(t, s, subID); len(rows) != 0 {
		t.Fatalf("group members left behind: %d", len(rows))
	}
	if _, err := s.DeleteSubEventParticipantGroup(context.Background(), adminActor(), DeleteSubEventParticipantGroupArgs{GroupID: "group-alpha"}); !domain.IsNotFound(err) {
		t.Fatalf("empty group: expected not-found, got %v", err)
	}
}

func TestToggleAttendedRequiresCoordinator(t *testing.T) {
	s, subID := registrationFixture(t)
	if _, err := s.CreateSubEventParticipants(context.Background(), adminActor(), CreateSubEventParticipantsArgs{
		SubEventID: subID, ParticipantIDs: []string{"p1"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	regID := registrationsFor(t, s, subID)[0].ID

	// The liaison is not a coordinator of the event.
	if _, _, err := s.ToggleAttended(context.Background(), volunteerActor("liaison"), ToggleAttendedArgs{ID: regID}); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if _, _, err := s.UpdateEvent(context.Background(), adminActor(), UpdateEventArgs{ID: "e1", Coordinators: &[]string{"coord"}}); err != nil {
		t.Fatalf("assign coordinator: %v", err)
	}
	updated, _, err := s.ToggleAttended(context.Background(), volunteerActor("coord"), ToggleAttendedArgs{ID: regID})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !updated.Attended {
		t.Fatal("attendance flag not flipped")
	}
	updated, _, err = s.ToggleAttended(context.Background(), volunteerActor("coord"), ToggleAttendedArgs{ID: regID})
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if updated.Attended {
		t.Fatal("second toggle must flip the flag back")
	}
}

func TestUpdateAwardsPatchesOnlyProvidedFlags(t *testing.T) {
	s, subID := registrationFixture(t)
	if _, err := s.CreateSubEventParticipants(context.Background(), adminActor(), CreateSubEventParticipantsArgs{
		SubEventID: subID, ParticipantIDs: []string{"p1"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	regID := registrationsFor(t, s, subID)[0].ID

	yes := true
	updated, _, err := s.UpdateAwards(context.Background(), adminActor(), UpdateAwardsArgs{ID: regID, IsWinner: &yes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsWinner || updated.IsRunner || updated.PrizeAwarded {
		t.Fatalf("only the winner flag may change: %+v", updated)
	}

	updated, _, err = s.UpdateAwards(context.Background(), adminActor(), UpdateAwardsArgs{ID: regID, PrizeAwarded: &yes})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if !updated.IsWinner || !updated.PrizeAwarded {
		t.Fatalf("patch must preserve earlier flags: %+v", updated)
	}
}

func TestUpdateSubmissionPhoto(t *testing.T) {
	s, subID := registrationFixture(t)
	if _, err := s.CreateSubEventParticipants(context.Background(), adminActor(), CreateSubEventParticipantsArgs{
		SubEventID: subID, ParticipantIDs: []string{"p1"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	regID := registrationsFor(t, s, subID)[0].ID

	path := "photos/submissions/xyz.jpg"
	updated, _, err := s.UpdateSubmissionPhoto(context.Background(), volunteerActor("liaison"), UpdateSubmissionPhotoArgs{ID: regID, Path: &path})
	if err != nil {
		t.Fatalf("liaison update: %v", err)
	}
	if updated.SubmissionPhoto == nil || *updated.SubmissionPhoto != path {
		t.Fatalf("photo not stored: %v", updated.SubmissionPhoto)
	}

	seedUser(t, s, "bystander", "Eve")
	if _, _, err := s.UpdateSubmissionPhoto(context.Background(), volunteerActor("bystander"), UpdateSubmissionPhotoArgs{ID: regID, Path: &path}); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
