package core

import (
	"context"
	"testing"
	"time"

	"eventcore/pkg/domain"
)

func TestUpdateScoresheetPhoto(t *testing.T) {
	s := eventFixture(t)
	seedEvent(t, s, "e1", "cat", []TimingArgs{timingFor("junior", fixedNow.Add(24 * time.Hour))})
	subID := listSubEvents(t, s, "e1")[0].ID

	if _, _, err := s.UpdateEvent(context.Background(), adminActor(), UpdateEventArgs{
		ID: "e1", Coordinators: &[]string{"coord"},
	}); err != nil {
		t.Fatalf("assign coordinator: %v", err)
	}

	path := "photos/scoresheets/abc.jpg"
	updated, _, err := s.UpdateScoresheetPhoto(context.Background(), volunteerActor("coord"), UpdateScoresheetPhotoArgs{ID: subID, Path: &path})
	if err != nil {
		t.Fatalf("coordinator update: %v", err)
	}
	if updated.ScoresheetPhoto == nil || *updated.ScoresheetPhoto != path {
		t.Fatalf("photo not stored: %v", updated.ScoresheetPhoto)
	}

	// Clearing uses a nil path.
	updated, _, err = s.UpdateScoresheetPhoto(context.Background(), volunteerActor("coord"), UpdateScoresheetPhotoArgs{ID: subID})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if updated.ScoresheetPhoto != nil {
		t.Fatal("photo reference not cleared")
	}
}

func TestUpdateScoresheetPhotoRequiresCoordinator(t *testing.T) {
	s := eventFixture(t)
	seedEvent(t, s, "e1", "cat", []TimingArgs{timingFor("junior", fixedNow.Add(24 * time.Hour))})
	subID := listSubEvents(t, s, "e1")[0].ID
	seedUser(t, s, "bystander", "Eve")

	path := "photos/scoresheets/abc.jpg"
	if _, _, err := s.UpdateScoresheetPhoto(context.Background(), volunteerActor("bystander"), UpdateScoresheetPhotoArgs{ID: subID, Path: &path}); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, _, err := s.UpdateScoresheetPhoto(context.Background(), nil, UpdateScoresheetPhotoArgs{ID: subID, Path: &path}); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for anonymous caller, got %v", err)
	}
}

func TestUpdateScoresheetPhotoEnforcesPrefix(t *testing.T) {
	s := newTestService(t, WithPhotoPrefix("photos/"))
	seedEventCategory(t, s, "cat")
	seedBand(t, s, "junior", 6, 9, 5, 5)
	seedEvent(t, s, "e1", "cat", []TimingArgs{timingFor("junior", fixedNow.Add(24 * time.Hour))})
	subID := listSubEvents(t, s, "e1")[0].ID

	bad := "../escape.jpg"
	if _, _, err := s.UpdateScoresheetPhoto(context.Background(), adminActor(), UpdateScoresheetPhotoArgs{ID: subID, Path: &bad}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	good := "photos/scoresheets/abc.jpg"
	if _, _, err := s.UpdateScoresheetPhoto(context.Background(), adminActor(), UpdateScoresheetPhotoArgs{ID: subID, Path: &good}); err != nil {
		t.Fatalf("prefixed path rejected: %v", err)
	}
}

func TestDeleteSubEventRequiresAdmin(t *testing.T) {
	s := eventFixture(t)
	seedEvent(t, s, "e1", "cat", []TimingArgs{timingFor("junior", fixedNow.Add(24 * time.Hour))})
	subID := listSubEvents(t, s, "e1")[0].ID

	if _, err := s.DeleteSubEvent(context.Background(), volunteerActor("coord"), DeleteSubEventArgs{ID: subID}); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := s.DeleteSubEvent(context.Background(), adminActor(), DeleteSubEventArgs{ID: "absent"}); !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDeleteSubEventRemovesRegistrations(t *testing.T) {
	s := eventFixture(t)
	start := fixedNow.Add(24 * time.Hour)
	seedEvent(t, s, "e1", "cat", []TimingArgs{
		timingFor("junior", start),
		timingFor("senior", start.Add(3 * time.Hour)),
	})
	seedUser(t, s, "liaison", "Dee")
	seedCenter(t, s, "c1", []string{"liaison"}, nil)
	seedParticipant(t, s, adminActor(), "p1", "c1", 7, domain.GenderFemale)
	subs := listSubEvents(t, s, "e1")
	if _, err := s.CreateSubEventParticipants(context.Background(), adminActor(), CreateSubEventParticipantsArgs{
		SubEventID: subs[0].ID, ParticipantIDs: []string{"p1"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := s.DeleteSubEvent(context.Background(), adminActor(), DeleteSubEventArgs{ID: subs[0].ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Store().View(context.Background(), func(view TransactionView) error {
		if len(view.ListSubEventParticipants()) != 0 {
			t.Error("registrations survived sub-event delete")
		}
		if _, ok := view.FindEvent("e1"); !ok {
			t.Error("event must survive while a sibling sub-event remains")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}
