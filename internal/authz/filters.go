package authz

import "eventcore/pkg/domain"

// Row filters for the read path. Each filter closes over the same predicate
// its Require* counterpart asserts, so a row a mutator would refuse to write
// is also a row the query layer refuses to return.

// CenterFilter returns the centers the actor may read.
func CenterFilter(view View, actor *Actor) func(domain.Center) bool {
	return func(c domain.Center) bool {
		return isAdmin(actor) || centerRelated(view, actor, c.ID)
	}
}

// ParticipantFilter returns the participants the actor may read.
func ParticipantFilter(view View, actor *Actor) func(domain.Participant) bool {
	return func(p domain.Participant) bool {
		return isAdmin(actor) || centerRelated(view, actor, p.CenterID)
	}
}

// UserFilter restricts the user directory. Admins read every row; any other
// actor reads only their own row.
func UserFilter(actor *Actor) func(domain.User) bool {
	return func(u domain.User) bool {
		if isAdmin(actor) {
			return true
		}
		return actor != nil && actor.SubjectID == u.ID
	}
}

// EventFilter returns the events the actor may read. Events are visible to
// every logged-in actor.
func EventFilter(actor *Actor) func(domain.Event) bool {
	return func(domain.Event) bool {
		return loggedIn(actor)
	}
}

// InventoryFilter returns the inventory rows the actor may read.
func InventoryFilter(actor *Actor) func(domain.Inventory) bool {
	return func(domain.Inventory) bool {
		return isAdmin(actor) || leadsTeam(actor, domain.TeamLogistics)
	}
}

// SubEventParticipantFilter returns the registration rows the actor may read.
func SubEventParticipantFilter(view View, actor *Actor) func(domain.SubEventParticipant) bool {
	return func(row domain.SubEventParticipant) bool {
		return isAdmin(actor) || participantRelated(view, actor, row.ParticipantID)
	}
}
