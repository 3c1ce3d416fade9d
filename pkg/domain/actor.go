package domain

// Actor is the authenticated subject attempting a mutation or read. A nil
// *Actor denotes an anonymous caller and fails every permission predicate.
type Actor struct {
	SubjectID   string `json:"subject_id"`
	Role        Role   `json:"role,omitempty"`
	LeadingTeam *Team  `json:"leading_team,omitempty"`
}

// IsAdmin reports whether the actor carries the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Leads reports whether the actor leads the given team.
func (a *Actor) Leads(team Team) bool {
	return a != nil && a.LeadingTeam != nil && *a.LeadingTeam == team
}

// Location distinguishes the speculative client pass from the authoritative
// server pass of a mutator execution.
type Location string

// Execution locations. The same mutator body runs once per location; only
// external side effects (identity provider) are gated on LocationServer.
const (
	LocationClient Location = "client"
	LocationServer Location = "server"
)
