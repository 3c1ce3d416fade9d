package core

import (
	"context"
	"testing"
	"time"

	"eventcore/pkg/domain"
)

// fixedNow anchors every service test to a deterministic clock.
var fixedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func adminActor() *Actor {
	return &domain.Actor{SubjectID: "root", Role: domain.RoleAdmin}
}

func volunteerActor(id string) *Actor {
	return &domain.Actor{SubjectID: id, Role: domain.RoleVolunteer}
}

func teamLeadActor(id string, team domain.Team) *Actor {
	return &domain.Actor{SubjectID: id, Role: domain.RoleVolunteer, LeadingTeam: &team}
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(ClockFunc(func() time.Time { return fixedNow }))}, opts...)
	return NewInMemoryService(nil, opts...)
}

func seedUser(t *testing.T, s *Service, id, name string) domain.User {
	t.Helper()
	user, _, err := s.CreateUser(context.Background(), adminActor(), CreateUserArgs{
		ID: id, FirstName: name, Role: domain.RoleVolunteer, PhoneNumber: "555-0100",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return user
}

func seedCenter(t *testing.T, s *Service, id string, liaisons, guardians []string) domain.Center {
	t.Helper()
	center, _, err := s.CreateCenter(context.Background(), adminActor(), CreateCenterArgs{
		ID: id, Name: "Center " + id, Liaisons: liaisons, Guardians: guardians,
	})
	if err != nil {
		t.Fatalf("seed center %s: %v", id, err)
	}
	return center
}

func seedBand(t *testing.T, s *Service, id string, minAge, maxAge, maxBoys, maxGirls int) domain.ParticipantCategory {
	t.Helper()
	band, _, err := s.CreateParticipantCategory(context.Background(), adminActor(), CreateParticipantCategoryArgs{
		ID: id, Name: "Band " + id, MinAge: minAge, MaxAge: maxAge,
		MaxBoys: maxBoys, MaxGirls: maxGirls,
		TotalEventsAllowed: 5, MaxEventsPerCategory: 2,
	})
	if err != nil {
		t.Fatalf("seed band %s: %v", id, err)
	}
	return band
}

func seedEventCategory(t *testing.T, s *Service, id string) domain.EventCategory {
	t.Helper()
	cat, _, err := s.CreateEventCategory(context.Background(), adminActor(), CreateEventCategoryArgs{
		ID: id, Name: "Category " + id,
	})
	if err != nil {
		t.Fatalf("seed event category %s: %v", id, err)
	}
	return cat
}

func seedEvent(t *testing.T, s *Service, id, categoryID string, timings []TimingArgs) domain.Event {
	t.Helper()
	event, _, err := s.CreateEvent(context.Background(), adminActor(), CreateEventArgs{
		ID: id, Name: "Event " + id, EventCategoryID: categoryID,
		AllowedGender: domain.AllowedGenderBoth, MaxParticipants: 50,
		Timings: timings,
	})
	if err != nil {
		t.Fatalf("seed event %s: %v", id, err)
	}
	return event
}

// dobForAge yields a birth date making the participant the given whole-year
// age at fixedNow.
func dobForAge(age int) time.Time {
	return fixedNow.AddDate(-age, -1, 0)
}

func seedParticipant(t *testing.T, s *Service, actor *Actor, id, centerID string, age int, gender domain.Gender) domain.Participant {
	t.Helper()
	participant, _, err := s.CreateParticipant(context.Background(), actor, CreateParticipantArgs{
		ID: id, Name: "Participant " + id, DOB: dobForAge(age), Gender: gender, CenterID: centerID,
	})
	if err != nil {
		t.Fatalf("seed participant %s: %v", id, err)
	}
	return participant
}

func timingFor(bandID string, start time.Time) TimingArgs {
	end := start.Add(2 * time.Hour)
	return TimingArgs{ParticipantCategoryID: bandID, StartTime: &start, EndTime: &end}
}

func listSubEvents(t *testing.T, s *Service, eventID string) []domain.SubEvent {
	t.Helper()
	var out []domain.SubEvent
	if err := s.Store().View(context.Background(), func(view TransactionView) error {
		for _, sub := range view.ListSubEvents() {
			if sub.EventID == eventID {
				out = append(out, sub)
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	return out
}
