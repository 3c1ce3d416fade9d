// Package authz evaluates role and relationship based permissions. Each rule
// is defined once as a boolean predicate over the transaction snapshot and
// wrapped twice: as a Require* guard that fails closed with an Unauthorized
// error, and as a row filter applied by the read path. Write-time assertion
// and read-time filtering therefore can never diverge.
package authz

import (
	"fmt"

	"eventcore/pkg/domain"
)

type (
	// Actor aliases domain.Actor for predicate signatures.
	Actor = domain.Actor
	// View aliases domain.TransactionView, the snapshot predicates walk.
	View = domain.TransactionView
)

// loggedIn reports whether an actor is present. A nil actor always fails.
func loggedIn(actor *Actor) bool {
	return actor != nil
}

func isAdmin(actor *Actor) bool {
	return actor != nil && actor.IsAdmin()
}

func leadsTeam(actor *Actor, team domain.Team) bool {
	return actor != nil && actor.Leads(team)
}

// centerRelated reports whether the actor is a liaison or guardian of the
// center. Membership is tested against the snapshot, so speculative membership
// changes inside the same transaction are visible to the check.
func centerRelated(view View, actor *Actor, centerID string) bool {
	if actor == nil {
		return false
	}
	for _, row := range view.ListCenterLiaisons() {
		if row.CenterID == centerID && row.UserID == actor.SubjectID {
			return true
		}
	}
	for _, row := range view.ListCenterGuardians() {
		if row.CenterID == centerID && row.UserID == actor.SubjectID {
			return true
		}
	}
	return false
}

// centerLiaisonOnly reports whether the actor is a liaison of the center.
// Guardians do not qualify; venue-operations toggles are liaison business.
func centerLiaisonOnly(view View, actor *Actor, centerID string) bool {
	if actor == nil {
		return false
	}
	for _, row := range view.ListCenterLiaisons() {
		if row.CenterID == centerID && row.UserID == actor.SubjectID {
			return true
		}
	}
	return false
}

// participantRelated walks Participant → Center and tests center membership.
func participantRelated(view View, actor *Actor, participantID string) bool {
	if actor == nil {
		return false
	}
	participant, ok := view.FindParticipant(participantID)
	if !ok {
		return false
	}
	return centerRelated(view, actor, participant.CenterID)
}

// subEventParticipantRelated walks SubEventParticipant → Participant → Center.
// The anchor is either a membership row ID or a group ID; group operations
// authorize against any one member of the group.
func subEventParticipantRelated(view View, actor *Actor, anchorID string) bool {
	if actor == nil {
		return false
	}
	if row, ok := view.FindSubEventParticipant(anchorID); ok {
		return participantRelated(view, actor, row.ParticipantID)
	}
	for _, row := range view.ListSubEventParticipants() {
		if row.GroupID != nil && *row.GroupID == anchorID {
			if participantRelated(view, actor, row.ParticipantID) {
				return true
			}
		}
	}
	return false
}

// coordinatorOfSubEvent walks SubEvent → Event → Coordinators. The anchor is
// either a sub-event ID, a membership row ID, or a group ID.
func coordinatorOfSubEvent(view View, actor *Actor, anchorID string) bool {
	if actor == nil {
		return false
	}
	subEventIDs := resolveSubEventAnchor(view, anchorID)
	for _, subEventID := range subEventIDs {
		subEvent, ok := view.FindSubEvent(subEventID)
		if !ok {
			continue
		}
		for _, row := range view.ListEventCoordinators() {
			if row.EventID == subEvent.EventID && row.UserID == actor.SubjectID {
				return true
			}
		}
	}
	return false
}

func resolveSubEventAnchor(view View, anchorID string) []string {
	if _, ok := view.FindSubEvent(anchorID); ok {
		return []string{anchorID}
	}
	if row, ok := view.FindSubEventParticipant(anchorID); ok {
		return []string{row.SubEventID}
	}
	var ids []string
	seen := map[string]bool{}
	for _, row := range view.ListSubEventParticipants() {
		if row.GroupID != nil && *row.GroupID == anchorID && !seen[row.SubEventID] {
			seen[row.SubEventID] = true
			ids = append(ids, row.SubEventID)
		}
	}
	return ids
}

// RequireLoggedIn fails unless an actor is present.
func RequireLoggedIn(actor *Actor) error {
	if !loggedIn(actor) {
		return domain.UnauthorizedError{Reason: "authentication required"}
	}
	return nil
}

// RequireAdmin fails unless the actor holds the admin role.
func RequireAdmin(actor *Actor) error {
	if err := RequireLoggedIn(actor); err != nil {
		return err
	}
	if !isAdmin(actor) {
		return domain.UnauthorizedError{Reason: "admin role required"}
	}
	return nil
}

// RequireAdminOrTeamLead fails unless the actor is admin or leads the team.
func RequireAdminOrTeamLead(actor *Actor, team domain.Team) error {
	if err := RequireLoggedIn(actor); err != nil {
		return err
	}
	if isAdmin(actor) || leadsTeam(actor, team) {
		return nil
	}
	return domain.UnauthorizedError{Reason: fmt.Sprintf("admin role or %s team lead required", team)}
}

// RequireAdminOrCenterRelated fails unless the actor is admin or a liaison or
// guardian of the center.
func RequireAdminOrCenterRelated(view View, actor *Actor, centerID string) error {
	if err := RequireLoggedIn(actor); err != nil {
		return err
	}
	if isAdmin(actor) || centerRelated(view, actor, centerID) {
		return nil
	}
	return domain.UnauthorizedError{Reason: "actor is not related to center"}
}

// RequireAdminOrCenterLiaison fails unless the actor is admin or a liaison of
// the center. Guardians are excluded.
func RequireAdminOrCenterLiaison(view View, actor *Actor, centerID string) error {
	if err := RequireLoggedIn(actor); err != nil {
		return err
	}
	if isAdmin(actor) || centerLiaisonOnly(view, actor, centerID) {
		return nil
	}
	return domain.UnauthorizedError{Reason: "actor is not a liaison of center"}
}

// RequireAdminOrParticipantRelated fails unless the actor is admin or related
// to the participant's center.
func RequireAdminOrParticipantRelated(view View, actor *Actor, participantID string) error {
	if err := RequireLoggedIn(actor); err != nil {
		return err
	}
	if isAdmin(actor) || participantRelated(view, actor, participantID) {
		return nil
	}
	return domain.UnauthorizedError{Reason: "actor is not related to participant"}
}

// RequireAdminOrSubEventParticipantRelated fails unless the actor is admin or
// related, through the participant's center, to the membership row or group
// named by anchorID.
func RequireAdminOrSubEventParticipantRelated(view View, actor *Actor, anchorID string) error {
	if err := RequireLoggedIn(actor); err != nil {
		return err
	}
	if isAdmin(actor) || subEventParticipantRelated(view, actor, anchorID) {
		return nil
	}
	return domain.UnauthorizedError{Reason: "actor is not related to sub-event registration"}
}

// RequireEventCoordinatorOfSubEvent fails unless the actor is admin or a
// coordinator of the event owning the sub-event named by anchorID.
func RequireEventCoordinatorOfSubEvent(view View, actor *Actor, anchorID string) error {
	if err := RequireLoggedIn(actor); err != nil {
		return err
	}
	if isAdmin(actor) || coordinatorOfSubEvent(view, actor, anchorID) {
		return nil
	}
	return domain.UnauthorizedError{Reason: "actor does not coordinate this sub-event"}
}
