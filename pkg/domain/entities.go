// Package domain defines the persistent entities, actor/role model, error
// taxonomy, and rule evaluation primitives used by eventcore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityUser identifies a user record.
	EntityUser EntityType = "user"
	// EntityEventCategory identifies an event category record.
	EntityEventCategory EntityType = "event_category"
	// EntityEvent identifies an event record.
	EntityEvent EntityType = "event"
	// EntitySubEvent identifies a scheduled sub-event record.
	EntitySubEvent EntityType = "sub_event"
	// EntityCenter identifies a center record.
	EntityCenter EntityType = "center"
	// EntityCenterLiaison identifies a center liaison membership row.
	EntityCenterLiaison EntityType = "center_liaison"
	// EntityCenterGuardian identifies a center guardian membership row.
	EntityCenterGuardian EntityType = "center_guardian"
	// EntityEventCoordinator identifies an event coordinator membership row.
	EntityEventCoordinator EntityType = "event_coordinator"
	// EntityEventVolunteer identifies an event volunteer membership row.
	EntityEventVolunteer EntityType = "event_volunteer"
	// EntityParticipantCategory identifies a participant age-band category record.
	EntityParticipantCategory EntityType = "participant_category"
	// EntityParticipant identifies a participant record.
	EntityParticipant EntityType = "participant"
	// EntitySubEventParticipant identifies a participant's sub-event membership row.
	EntitySubEventParticipant EntityType = "sub_event_participant"
	// EntityInventory identifies an inventory item record.
	EntityInventory EntityType = "inventory"
	// EntityInventoryTransaction identifies an immutable inventory ledger entry.
	EntityInventoryTransaction EntityType = "inventory_transaction"
	// EntityInventoryEvent identifies an inventory↔event association row.
	EntityInventoryEvent EntityType = "inventory_event"
	// EntityInventoryTransactionEvent identifies a ledger↔event association row.
	EntityInventoryTransactionEvent EntityType = "inventory_transaction_event"
)

// Role enumerates the static roles carried by users.
type Role string

// Canonical user roles. Relationship-based grants (liaison, guardian,
// coordinator) are expressed through membership rows, not roles.
const (
	RoleAdmin     Role = "admin"
	RoleVolunteer Role = "volunteer"
	RoleGuardian  Role = "guardian"
)

// Team enumerates operational teams a volunteer may lead.
type Team string

// Teams referenced by team-lead permission gates.
const (
	TeamLogistics Team = "logistics"
	TeamFood      Team = "food"
	TeamEvents    Team = "events"
	TeamTransport Team = "transport"
)

// Gender is the registered gender of a participant.
type Gender string

// Participant genders used for capacity accounting.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// AllowedGender restricts which participants may register for an event.
type AllowedGender string

// Event gender restrictions.
const (
	AllowedGenderMale   AllowedGender = "male"
	AllowedGenderFemale AllowedGender = "female"
	AllowedGenderBoth   AllowedGender = "both"
)

// LedgerType classifies an inventory ledger entry.
type LedgerType string

// Ledger entry types and their quantity effect: purchase and event_return add,
// event_dispatch subtracts, adjustment and initial_inventory replace outright.
const (
	LedgerInitialInventory LedgerType = "initial_inventory"
	LedgerPurchase         LedgerType = "purchase"
	LedgerAdjustment       LedgerType = "adjustment"
	LedgerEventReturn      LedgerType = "event_return"
	LedgerEventDispatch    LedgerType = "event_dispatch"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records. IDs are generated by the
// caller (NewID) before insertion; timestamps are stamped by the transaction
// clock, never by storage defaults.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents a managed person: administrators, team-leading volunteers,
// and guardians. Relationship grants live in membership rows.
type User struct {
	Base
	FirstName   string  `json:"first_name"`
	LastName    *string `json:"last_name,omitempty"`
	Role        Role    `json:"role"`
	Leading     *Team   `json:"leading,omitempty"`
	PhoneNumber string  `json:"phone_number"`
	Email       *string `json:"email,omitempty"`
	CanLogin    bool    `json:"can_login"`
	// AccountID references the external identity-provider account when CanLogin.
	AccountID *string `json:"account_id,omitempty"`
}

// EventCategory groups events under an optional coordinator.
type EventCategory struct {
	Base
	Name          string  `json:"name"`
	CoordinatorID *string `json:"coordinator_id,omitempty"`
}

// Event is a competition or activity, optionally group-based. MinGroupSize and
// MaxGroupSize are meaningful only when IsGroupEvent.
type Event struct {
	Base
	Name            string        `json:"name"`
	EventCategoryID string        `json:"event_category_id"`
	AllowedGender   AllowedGender `json:"allowed_gender"`
	IsGroupEvent    bool          `json:"is_group_event"`
	MinGroupSize    *int          `json:"min_group_size,omitempty"`
	MaxGroupSize    *int          `json:"max_group_size,omitempty"`
	MaxParticipants int           `json:"max_participants"`
}

// SubEvent is a scheduled slot of an Event for one participant category.
type SubEvent struct {
	Base
	EventID               string    `json:"event_id"`
	ParticipantCategoryID string    `json:"participant_category_id"`
	StartTime             time.Time `json:"start_time"`
	EndTime               time.Time `json:"end_time"`
	ScoresheetPhoto       *string   `json:"scoresheet_photo,omitempty"`
}

// Center is a venue community that registers participants. Liaison and guardian
// memberships are kept in join rows unique on (user, center).
type Center struct {
	Base
	Name               string `json:"name"`
	IsLocked           bool   `json:"is_locked"`
	EnableEventMapping bool   `json:"enable_event_mapping"`
}

// CenterLiaison links a liaison user to a center.
type CenterLiaison struct {
	Base
	UserID   string `json:"user_id"`
	CenterID string `json:"center_id"`
}

// CenterGuardian links a guardian user to a center.
type CenterGuardian struct {
	Base
	UserID   string `json:"user_id"`
	CenterID string `json:"center_id"`
}

// EventCoordinator links a coordinating user to an event.
type EventCoordinator struct {
	Base
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
}

// EventVolunteer links a volunteer user to an event.
type EventVolunteer struct {
	Base
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
}

// ParticipantCategory is an inclusive age band with per-center gender capacity
// and per-participant registration limits.
type ParticipantCategory struct {
	Base
	Name                 string `json:"name"`
	MinAge               int    `json:"min_age"`
	MaxAge               int    `json:"max_age"`
	MaxBoys              int    `json:"max_boys"`
	MaxGirls             int    `json:"max_girls"`
	TotalEventsAllowed   int    `json:"total_events_allowed"`
	MaxEventsPerCategory int    `json:"max_events_per_category"`
}

// Participant is a registered attendee. Age is computed once at creation from
// DOB and never recomputed; the category is assigned from the age band, never
// chosen by the caller.
type Participant struct {
	Base
	Name                  string    `json:"name"`
	DOB                   time.Time `json:"dob"`
	Age                   int       `json:"age"`
	Gender                Gender    `json:"gender"`
	CenterID              string    `json:"center_id"`
	ParticipantCategoryID string    `json:"participant_category_id"`
	PickedUp              bool      `json:"picked_up"`
	LeftVenue             bool      `json:"left_venue"`
	DroppedOff            bool      `json:"dropped_off"`
	HadBreakfast          bool      `json:"had_breakfast"`
	HadLunch              bool      `json:"had_lunch"`
}

// SubEventParticipant joins a participant to a sub-event. A non-nil GroupID
// marks rows registered together as a unit for a group event.
type SubEventParticipant struct {
	Base
	ParticipantID   string  `json:"participant_id"`
	SubEventID      string  `json:"sub_event_id"`
	GroupID         *string `json:"group_id,omitempty"`
	Attended        bool    `json:"attended"`
	IsWinner        bool    `json:"is_winner"`
	IsRunner        bool    `json:"is_runner"`
	PrizeAwarded    bool    `json:"prize_awarded"`
	SubmissionPhoto *string `json:"submission_photo,omitempty"`
}

// Inventory is a stocked item. Quantity is a materialized fold over ledger
// entries and is mutated only through inventory transactions.
type Inventory struct {
	Base
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	PhotoPath *string `json:"photo_path,omitempty"`
}

// InventoryEvent links an inventory item to an event it serves.
type InventoryEvent struct {
	Base
	InventoryID string `json:"inventory_id"`
	EventID     string `json:"event_id"`
}

// InventoryTransaction is an immutable ledger entry recording a quantity effect.
type InventoryTransaction struct {
	Base
	InventoryID  string     `json:"inventory_id"`
	Type         LedgerType `json:"type"`
	Quantity     int        `json:"quantity"`
	Notes        *string    `json:"notes,omitempty"`
	TransactorID *string    `json:"transactor_id,omitempty"`
}

// InventoryTransactionEvent links a ledger entry to an event.
type InventoryTransactionEvent struct {
	Base
	TransactionID string `json:"transaction_id"`
	EventID       string `json:"event_id"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported operations captured in the audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}

// AgeAt computes a whole-year age for a date of birth at the given instant.
func AgeAt(dob, at time.Time) int {
	years := at.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Contains reports whether the category age band includes the given age.
func (c ParticipantCategory) Contains(age int) bool {
	return age >= c.MinAge && age <= c.MaxAge
}

// CapacityFor returns the per-center capacity for a gender.
func (c ParticipantCategory) CapacityFor(gender Gender) int {
	if gender == GenderFemale {
		return c.MaxGirls
	}
	return c.MaxBoys
}

// Admits reports whether the event's gender restriction admits a participant gender.
func (g AllowedGender) Admits(gender Gender) bool {
	switch g {
	case AllowedGenderBoth:
		return true
	case AllowedGenderMale:
		return gender == GenderMale
	case AllowedGenderFemale:
		return gender == GenderFemale
	default:
		return false
	}
}
