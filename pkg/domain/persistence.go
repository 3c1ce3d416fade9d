package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Every write stamps UpdatedAt (and
// CreatedAt on insert) from the transaction clock so both execution locations
// agree on the stamping authority.
type Transaction interface {
	Snapshot() TransactionView

	CreateUser(User) (User, error)
	UpdateUser(id string, mutator func(*User) error) (User, error)
	DeleteUser(id string) error

	CreateEventCategory(EventCategory) (EventCategory, error)
	UpdateEventCategory(id string, mutator func(*EventCategory) error) (EventCategory, error)
	DeleteEventCategory(id string) error

	CreateEvent(Event) (Event, error)
	UpdateEvent(id string, mutator func(*Event) error) (Event, error)
	DeleteEvent(id string) error

	CreateSubEvent(SubEvent) (SubEvent, error)
	UpdateSubEvent(id string, mutator func(*SubEvent) error) (SubEvent, error)
	DeleteSubEvent(id string) error

	CreateCenter(Center) (Center, error)
	UpdateCenter(id string, mutator func(*Center) error) (Center, error)
	DeleteCenter(id string) error

	CreateCenterLiaison(CenterLiaison) (CenterLiaison, error)
	DeleteCenterLiaison(id string) error
	CreateCenterGuardian(CenterGuardian) (CenterGuardian, error)
	DeleteCenterGuardian(id string) error

	CreateEventCoordinator(EventCoordinator) (EventCoordinator, error)
	DeleteEventCoordinator(id string) error
	CreateEventVolunteer(EventVolunteer) (EventVolunteer, error)
	DeleteEventVolunteer(id string) error

	CreateParticipantCategory(ParticipantCategory) (ParticipantCategory, error)
	UpdateParticipantCategory(id string, mutator func(*ParticipantCategory) error) (ParticipantCategory, error)
	DeleteParticipantCategory(id string) error

	CreateParticipant(Participant) (Participant, error)
	UpdateParticipant(id string, mutator func(*Participant) error) (Participant, error)
	DeleteParticipant(id string) error

	CreateSubEventParticipant(SubEventParticipant) (SubEventParticipant, error)
	UpdateSubEventParticipant(id string, mutator func(*SubEventParticipant) error) (SubEventParticipant, error)
	DeleteSubEventParticipant(id string) error

	CreateInventory(Inventory) (Inventory, error)
	UpdateInventory(id string, mutator func(*Inventory) error) (Inventory, error)
	DeleteInventory(id string) error

	CreateInventoryTransaction(InventoryTransaction) (InventoryTransaction, error)
	DeleteInventoryTransaction(id string) error

	CreateInventoryEvent(InventoryEvent) (InventoryEvent, error)
	DeleteInventoryEvent(id string) error
	CreateInventoryTransactionEvent(InventoryTransactionEvent) (InventoryTransactionEvent, error)
	DeleteInventoryTransactionEvent(id string) error
}

// TransactionView provides read-only access to snapshot data for mutators,
// permission predicates, rules, and synced queries. All reads within one
// mutator invocation observe the same snapshot.
type TransactionView interface {
	FindUser(id string) (User, bool)
	ListUsers() []User

	FindEventCategory(id string) (EventCategory, bool)
	ListEventCategories() []EventCategory

	FindEvent(id string) (Event, bool)
	ListEvents() []Event

	FindSubEvent(id string) (SubEvent, bool)
	ListSubEvents() []SubEvent

	FindCenter(id string) (Center, bool)
	ListCenters() []Center

	ListCenterLiaisons() []CenterLiaison
	ListCenterGuardians() []CenterGuardian
	ListEventCoordinators() []EventCoordinator
	ListEventVolunteers() []EventVolunteer

	FindParticipantCategory(id string) (ParticipantCategory, bool)
	ListParticipantCategories() []ParticipantCategory

	FindParticipant(id string) (Participant, bool)
	ListParticipants() []Participant

	FindSubEventParticipant(id string) (SubEventParticipant, bool)
	ListSubEventParticipants() []SubEventParticipant

	FindInventory(id string) (Inventory, bool)
	ListInventories() []Inventory

	FindInventoryTransaction(id string) (InventoryTransaction, bool)
	ListInventoryTransactions() []InventoryTransaction

	ListInventoryEvents() []InventoryEvent
	ListInventoryTransactionEvents() []InventoryTransactionEvent
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error

	GetUser(id string) (User, bool)
	ListUsers() []User
	GetCenter(id string) (Center, bool)
	ListCenters() []Center
	GetEvent(id string) (Event, bool)
	ListEvents() []Event
	GetSubEvent(id string) (SubEvent, bool)
	GetParticipant(id string) (Participant, bool)
	ListParticipants() []Participant
	GetInventory(id string) (Inventory, bool)
	ListInventoryTransactions() []InventoryTransaction
}
