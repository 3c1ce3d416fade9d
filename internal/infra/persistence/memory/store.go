// Package memory provides the in-memory implementation of the core
// persistence store. It is the canonical transactional engine: the client
// replica uses it directly, and the durable sqlite/postgres stores wrap it.
package memory

import (
	"context"
	"sync"
	"time"

	"eventcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interfaces.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// User aliases domain.User for in-memory persistence operations.
	User = domain.User
	// EventCategory aliases domain.EventCategory.
	EventCategory = domain.EventCategory
	// Event aliases domain.Event.
	Event = domain.Event
	// SubEvent aliases domain.SubEvent.
	SubEvent = domain.SubEvent
	// Center aliases domain.Center.
	Center = domain.Center
	// CenterLiaison aliases domain.CenterLiaison.
	CenterLiaison = domain.CenterLiaison
	// CenterGuardian aliases domain.CenterGuardian.
	CenterGuardian = domain.CenterGuardian
	// EventCoordinator aliases domain.EventCoordinator.
	EventCoordinator = domain.EventCoordinator
	// EventVolunteer aliases domain.EventVolunteer.
	EventVolunteer = domain.EventVolunteer
	// ParticipantCategory aliases domain.ParticipantCategory.
	ParticipantCategory = domain.ParticipantCategory
	// Participant aliases domain.Participant.
	Participant = domain.Participant
	// SubEventParticipant aliases domain.SubEventParticipant.
	SubEventParticipant = domain.SubEventParticipant
	// Inventory aliases domain.Inventory.
	Inventory = domain.Inventory
	// InventoryEvent aliases domain.InventoryEvent.
	InventoryEvent = domain.InventoryEvent
	// InventoryTransaction aliases domain.InventoryTransaction.
	InventoryTransaction = domain.InventoryTransaction
	// InventoryTransactionEvent aliases domain.InventoryTransactionEvent.
	InventoryTransactionEvent = domain.InventoryTransactionEvent
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

type memoryState struct {
	users                 map[string]User
	eventCategories       map[string]EventCategory
	events                map[string]Event
	subEvents             map[string]SubEvent
	centers               map[string]Center
	centerLiaisons        map[string]CenterLiaison
	centerGuardians       map[string]CenterGuardian
	eventCoordinators     map[string]EventCoordinator
	eventVolunteers       map[string]EventVolunteer
	participantCategories map[string]ParticipantCategory
	participants          map[string]Participant
	subEventParticipants  map[string]SubEventParticipant
	inventories           map[string]Inventory
	inventoryTransactions map[string]InventoryTransaction
	inventoryEvents       map[string]InventoryEvent
	inventoryTxEvents     map[string]InventoryTransactionEvent
}

// Snapshot captures a point-in-time clone of the store state. Buckets are
// serialized individually by the durable stores.
type Snapshot struct {
	Users                 map[string]User                      `json:"users"`
	EventCategories       map[string]EventCategory             `json:"event_categories"`
	Events                map[string]Event                     `json:"events"`
	SubEvents             map[string]SubEvent                  `json:"sub_events"`
	Centers               map[string]Center                    `json:"centers"`
	CenterLiaisons        map[string]CenterLiaison             `json:"center_liaisons"`
	CenterGuardians       map[string]CenterGuardian            `json:"center_guardians"`
	EventCoordinators     map[string]EventCoordinator          `json:"event_coordinators"`
	EventVolunteers       map[string]EventVolunteer            `json:"event_volunteers"`
	ParticipantCategories map[string]ParticipantCategory       `json:"participant_categories"`
	Participants          map[string]Participant               `json:"participants"`
	SubEventParticipants  map[string]SubEventParticipant       `json:"sub_event_participants"`
	Inventories           map[string]Inventory                 `json:"inventories"`
	InventoryTransactions map[string]InventoryTransaction      `json:"inventory_transactions"`
	InventoryEvents       map[string]InventoryEvent            `json:"inventory_events"`
	InventoryTxEvents     map[string]InventoryTransactionEvent `json:"inventory_transaction_events"`
}

func newMemoryState() memoryState {
	return memoryState{
		users:                 make(map[string]User),
		eventCategories:       make(map[string]EventCategory),
		events:                make(map[string]Event),
		subEvents:             make(map[string]SubEvent),
		centers:               make(map[string]Center),
		centerLiaisons:        make(map[string]CenterLiaison),
		centerGuardians:       make(map[string]CenterGuardian),
		eventCoordinators:     make(map[string]EventCoordinator),
		eventVolunteers:       make(map[string]EventVolunteer),
		participantCategories: make(map[string]ParticipantCategory),
		participants:          make(map[string]Participant),
		subEventParticipants:  make(map[string]SubEventParticipant),
		inventories:           make(map[string]Inventory),
		inventoryTransactions: make(map[string]InventoryTransaction),
		inventoryEvents:       make(map[string]InventoryEvent),
		inventoryTxEvents:     make(map[string]InventoryTransactionEvent),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.users {
		cloned.users[k] = v
	}
	for k, v := range s.eventCategories {
		cloned.eventCategories[k] = v
	}
	for k, v := range s.events {
		cloned.events[k] = v
	}
	for k, v := range s.subEvents {
		cloned.subEvents[k] = v
	}
	for k, v := range s.centers {
		cloned.centers[k] = v
	}
	for k, v := range s.centerLiaisons {
		cloned.centerLiaisons[k] = v
	}
	for k, v := range s.centerGuardians {
		cloned.centerGuardians[k] = v
	}
	for k, v := range s.eventCoordinators {
		cloned.eventCoordinators[k] = v
	}
	for k, v := range s.eventVolunteers {
		cloned.eventVolunteers[k] = v
	}
	for k, v := range s.participantCategories {
		cloned.participantCategories[k] = v
	}
	for k, v := range s.participants {
		cloned.participants[k] = v
	}
	for k, v := range s.subEventParticipants {
		cloned.subEventParticipants[k] = v
	}
	for k, v := range s.inventories {
		cloned.inventories[k] = v
	}
	for k, v := range s.inventoryTransactions {
		cloned.inventoryTransactions[k] = v
	}
	for k, v := range s.inventoryEvents {
		cloned.inventoryEvents[k] = v
	}
	for k, v := range s.inventoryTxEvents {
		cloned.inventoryTxEvents[k] = v
	}
	return cloned
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Users:                 make(map[string]User, len(state.users)),
		EventCategories:       make(map[string]EventCategory, len(state.eventCategories)),
		Events:                make(map[string]Event, len(state.events)),
		SubEvents:             make(map[string]SubEvent, len(state.subEvents)),
		Centers:               make(map[string]Center, len(state.centers)),
		CenterLiaisons:        make(map[string]CenterLiaison, len(state.centerLiaisons)),
		CenterGuardians:       make(map[string]CenterGuardian, len(state.centerGuardians)),
		EventCoordinators:     make(map[string]EventCoordinator, len(state.eventCoordinators)),
		EventVolunteers:       make(map[string]EventVolunteer, len(state.eventVolunteers)),
		ParticipantCategories: make(map[string]ParticipantCategory, len(state.participantCategories)),
		Participants:          make(map[string]Participant, len(state.participants)),
		SubEventParticipants:  make(map[string]SubEventParticipant, len(state.subEventParticipants)),
		Inventories:           make(map[string]Inventory, len(state.inventories)),
		InventoryTransactions: make(map[string]InventoryTransaction, len(state.inventoryTransactions)),
		InventoryEvents:       make(map[string]InventoryEvent, len(state.inventoryEvents)),
		InventoryTxEvents:     make(map[string]InventoryTransactionEvent, len(state.inventoryTxEvents)),
	}
	for k, v := range state.users {
		s.Users[k] = v
	}
	for k, v := range state.eventCategories {
		s.EventCategories[k] = v
	}
	for k, v := range state.events {
		s.Events[k] = v
	}
	for k, v := range state.subEvents {
		s.SubEvents[k] = v
	}
	for k, v := range state.centers {
		s.Centers[k] = v
	}
	for k, v := range state.centerLiaisons {
		s.CenterLiaisons[k] = v
	}
	for k, v := range state.centerGuardians {
		s.CenterGuardians[k] = v
	}
	for k, v := range state.eventCoordinators {
		s.EventCoordinators[k] = v
	}
	for k, v := range state.eventVolunteers {
		s.EventVolunteers[k] = v
	}
	for k, v := range state.participantCategories {
		s.ParticipantCategories[k] = v
	}
	for k, v := range state.participants {
		s.Participants[k] = v
	}
	for k, v := range state.subEventParticipants {
		s.SubEventParticipants[k] = v
	}
	for k, v := range state.inventories {
		s.Inventories[k] = v
	}
	for k, v := range state.inventoryTransactions {
		s.InventoryTransactions[k] = v
	}
	for k, v := range state.inventoryEvents {
		s.InventoryEvents[k] = v
	}
	for k, v := range state.inventoryTxEvents {
		s.InventoryTxEvents[k] = v
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Users {
		state.users[k] = v
	}
	for k, v := range s.EventCategories {
		state.eventCategories[k] = v
	}
	for k, v := range s.Events {
		state.events[k] = v
	}
	for k, v := range s.SubEvents {
		state.subEvents[k] = v
	}
	for k, v := range s.Centers {
		state.centers[k] = v
	}
	for k, v := range s.CenterLiaisons {
		state.centerLiaisons[k] = v
	}
	for k, v := range s.CenterGuardians {
		state.centerGuardians[k] = v
	}
	for k, v := range s.EventCoordinators {
		state.eventCoordinators[k] = v
	}
	for k, v := range s.EventVolunteers {
		state.eventVolunteers[k] = v
	}
	for k, v := range s.ParticipantCategories {
		state.participantCategories[k] = v
	}
	for k, v := range s.Participants {
		state.participants[k] = v
	}
	for k, v := range s.SubEventParticipants {
		state.subEventParticipants[k] = v
	}
	for k, v := range s.Inventories {
		state.inventories[k] = v
	}
	for k, v := range s.InventoryTransactions {
		state.inventoryTransactions[k] = v
	}
	for k, v := range s.InventoryEvents {
		state.inventoryEvents[k] = v
	}
	for k, v := range s.InventoryTxEvents {
		state.inventoryTxEvents[k] = v
	}
	return state
}

// migrateSnapshot repairs referential integrity on load: membership and join
// rows pointing at rows that no longer exist are dropped so a partially
// pruned snapshot cannot resurrect dangling relationships.
func migrateSnapshot(snapshot Snapshot) Snapshot {
	if snapshot.Users == nil {
		snapshot.Users = map[string]User{}
	}
	if snapshot.EventCategories == nil {
		snapshot.EventCategories = map[string]EventCategory{}
	}
	if snapshot.Events == nil {
		snapshot.Events = map[string]Event{}
	}
	if snapshot.SubEvents == nil {
		snapshot.SubEvents = map[string]SubEvent{}
	}
	if snapshot.Centers == nil {
		snapshot.Centers = map[string]Center{}
	}
	if snapshot.CenterLiaisons == nil {
		snapshot.CenterLiaisons = map[string]CenterLiaison{}
	}
	if snapshot.CenterGuardians == nil {
		snapshot.CenterGuardians = map[string]CenterGuardian{}
	}
	if snapshot.EventCoordinators == nil {
		snapshot.EventCoordinators = map[string]EventCoordinator{}
	}
	if snapshot.EventVolunteers == nil {
		snapshot.EventVolunteers = map[string]EventVolunteer{}
	}
	if snapshot.ParticipantCategories == nil {
		snapshot.ParticipantCategories = map[string]ParticipantCategory{}
	}
	if snapshot.Participants == nil {
		snapshot.Participants = map[string]Participant{}
	}
	if snapshot.SubEventParticipants == nil {
		snapshot.SubEventParticipants = map[string]SubEventParticipant{}
	}
	if snapshot.Inventories == nil {
		snapshot.Inventories = map[string]Inventory{}
	}
	if snapshot.InventoryTransactions == nil {
		snapshot.InventoryTransactions = map[string]InventoryTransaction{}
	}
	if snapshot.InventoryEvents == nil {
		snapshot.InventoryEvents = map[string]InventoryEvent{}
	}
	if snapshot.InventoryTxEvents == nil {
		snapshot.InventoryTxEvents = map[string]InventoryTransactionEvent{}
	}

	userExists := func(id string) bool {
		_, ok := snapshot.Users[id]
		return ok
	}
	centerExists := func(id string) bool {
		_, ok := snapshot.Centers[id]
		return ok
	}
	eventExists := func(id string) bool {
		_, ok := snapshot.Events[id]
		return ok
	}
	participantExists := func(id string) bool {
		_, ok := snapshot.Participants[id]
		return ok
	}
	subEventExists := func(id string) bool {
		_, ok := snapshot.SubEvents[id]
		return ok
	}
	inventoryExists := func(id string) bool {
		_, ok := snapshot.Inventories[id]
		return ok
	}
	ledgerExists := func(id string) bool {
		_, ok := snapshot.InventoryTransactions[id]
		return ok
	}

	for id, row := range snapshot.CenterLiaisons {
		if !userExists(row.UserID) || !centerExists(row.CenterID) {
			delete(snapshot.CenterLiaisons, id)
		}
	}
	for id, row := range snapshot.CenterGuardians {
		if !userExists(row.UserID) || !centerExists(row.CenterID) {
			delete(snapshot.CenterGuardians, id)
		}
	}
	for id, row := range snapshot.EventCoordinators {
		if !userExists(row.UserID) || !eventExists(row.EventID) {
			delete(snapshot.EventCoordinators, id)
		}
	}
	for id, row := range snapshot.EventVolunteers {
		if !userExists(row.UserID) || !eventExists(row.EventID) {
			delete(snapshot.EventVolunteers, id)
		}
	}
	for id, row := range snapshot.SubEvents {
		if !eventExists(row.EventID) {
			delete(snapshot.SubEvents, id)
		}
	}
	for id, row := range snapshot.SubEventParticipants {
		if !participantExists(row.ParticipantID) || !subEventExists(row.SubEventID) {
			delete(snapshot.SubEventParticipants, id)
		}
	}
	for id, row := range snapshot.InventoryEvents {
		if !inventoryExists(row.InventoryID) || !eventExists(row.EventID) {
			delete(snapshot.InventoryEvents, id)
		}
	}
	for id, row := range snapshot.InventoryTransactions {
		if !inventoryExists(row.InventoryID) {
			delete(snapshot.InventoryTransactions, id)
		}
	}
	for id, row := range snapshot.InventoryTxEvents {
		if !ledgerExists(row.TransactionID) || !eventExists(row.EventID) {
			delete(snapshot.InventoryTxEvents, id)
		}
	}
	return snapshot
}

// Store provides an in-memory transactional store for the event domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(migrateSnapshot(snapshot))
}

// RulesEngine exposes the currently configured engine.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// SetNowFunc overrides the transaction clock, for deterministic tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn != nil {
		s.nowFn = fn
	}
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	store   *Store
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// RunInTransaction executes fn within a transactional copy of the store state.
// All writes commit atomically; any error from fn or a blocking rule violation
// discards the copy without touching committed state.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot exposes the transaction's working state to predicates and rules.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}
