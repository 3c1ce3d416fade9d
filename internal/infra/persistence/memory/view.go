package memory

import "sort"

// List methods return rows ordered by CreatedAt, tie-broken by ID. Ledger
// folds and age-band selection depend on creation order, so the view is the
// single place that establishes it.

// FindUser retrieves a user by ID from the snapshot.
func (v transactionView) FindUser(id string) (User, bool) {
	u, ok := v.state.users[id]
	return u, ok
}

// ListUsers returns all users in the snapshot.
func (v transactionView) ListUsers() []User {
	out := make([]User, 0, len(v.state.users))
	for _, u := range v.state.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindEventCategory retrieves an event category by ID.
func (v transactionView) FindEventCategory(id string) (EventCategory, bool) {
	c, ok := v.state.eventCategories[id]
	return c, ok
}

// ListEventCategories returns all event categories.
func (v transactionView) ListEventCategories() []EventCategory {
	out := make([]EventCategory, 0, len(v.state.eventCategories))
	for _, c := range v.state.eventCategories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindEvent retrieves an event by ID.
func (v transactionView) FindEvent(id string) (Event, bool) {
	e, ok := v.state.events[id]
	return e, ok
}

// ListEvents returns all events.
func (v transactionView) ListEvents() []Event {
	out := make([]Event, 0, len(v.state.events))
	for _, e := range v.state.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindSubEvent retrieves a sub-event by ID.
func (v transactionView) FindSubEvent(id string) (SubEvent, bool) {
	se, ok := v.state.subEvents[id]
	return se, ok
}

// ListSubEvents returns all sub-events.
func (v transactionView) ListSubEvents() []SubEvent {
	out := make([]SubEvent, 0, len(v.state.subEvents))
	for _, se := range v.state.subEvents {
		out = append(out, se)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindCenter retrieves a center by ID.
func (v transactionView) FindCenter(id string) (Center, bool) {
	c, ok := v.state.centers[id]
	return c, ok
}

// ListCenters returns all centers.
func (v transactionView) ListCenters() []Center {
	out := make([]Center, 0, len(v.state.centers))
	for _, c := range v.state.centers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListCenterLiaisons returns all liaison membership rows.
func (v transactionView) ListCenterLiaisons() []CenterLiaison {
	out := make([]CenterLiaison, 0, len(v.state.centerLiaisons))
	for _, row := range v.state.centerLiaisons {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListCenterGuardians returns all guardian membership rows.
func (v transactionView) ListCenterGuardians() []CenterGuardian {
	out := make([]CenterGuardian, 0, len(v.state.centerGuardians))
	for _, row := range v.state.centerGuardians {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListEventCoordinators returns all coordinator membership rows.
func (v transactionView) ListEventCoordinators() []EventCoordinator {
	out := make([]EventCoordinator, 0, len(v.state.eventCoordinators))
	for _, row := range v.state.eventCoordinators {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListEventVolunteers returns all volunteer membership rows.
func (v transactionView) ListEventVolunteers() []EventVolunteer {
	out := make([]EventVolunteer, 0, len(v.state.eventVolunteers))
	for _, row := range v.state.eventVolunteers {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindParticipantCategory retrieves a participant category by ID.
func (v transactionView) FindParticipantCategory(id string) (ParticipantCategory, bool) {
	c, ok := v.state.participantCategories[id]
	return c, ok
}

// ListParticipantCategories returns all participant categories in creation
// order. Age-band matching takes the first category whose band contains the
// participant, so this ordering is load-bearing.
func (v transactionView) ListParticipantCategories() []ParticipantCategory {
	out := make([]ParticipantCategory, 0, len(v.state.participantCategories))
	for _, c := range v.state.participantCategories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindParticipant retrieves a participant by ID.
func (v transactionView) FindParticipant(id string) (Participant, bool) {
	p, ok := v.state.participants[id]
	return p, ok
}

// ListParticipants returns all participants.
func (v transactionView) ListParticipants() []Participant {
	out := make([]Participant, 0, len(v.state.participants))
	for _, p := range v.state.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindSubEventParticipant retrieves a sub-event membership row by ID.
func (v transactionView) FindSubEventParticipant(id string) (SubEventParticipant, bool) {
	row, ok := v.state.subEventParticipants[id]
	return row, ok
}

// ListSubEventParticipants returns all sub-event membership rows.
func (v transactionView) ListSubEventParticipants() []SubEventParticipant {
	out := make([]SubEventParticipant, 0, len(v.state.subEventParticipants))
	for _, row := range v.state.subEventParticipants {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindInventory retrieves an inventory item by ID.
func (v transactionView) FindInventory(id string) (Inventory, bool) {
	inv, ok := v.state.inventories[id]
	return inv, ok
}

// ListInventories returns all inventory items.
func (v transactionView) ListInventories() []Inventory {
	out := make([]Inventory, 0, len(v.state.inventories))
	for _, inv := range v.state.inventories {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindInventoryTransaction retrieves a ledger entry by ID.
func (v transactionView) FindInventoryTransaction(id string) (InventoryTransaction, bool) {
	entry, ok := v.state.inventoryTransactions[id]
	return entry, ok
}

// ListInventoryTransactions returns all ledger entries in creation order.
func (v transactionView) ListInventoryTransactions() []InventoryTransaction {
	out := make([]InventoryTransaction, 0, len(v.state.inventoryTransactions))
	for _, entry := range v.state.inventoryTransactions {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListInventoryEvents returns all inventory↔event association rows.
func (v transactionView) ListInventoryEvents() []InventoryEvent {
	out := make([]InventoryEvent, 0, len(v.state.inventoryEvents))
	for _, row := range v.state.inventoryEvents {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ListInventoryTransactionEvents returns all ledger↔event association rows.
func (v transactionView) ListInventoryTransactionEvents() []InventoryTransactionEvent {
	out := make([]InventoryTransactionEvent, 0, len(v.state.inventoryTxEvents))
	for _, row := range v.state.inventoryTxEvents {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Committed-state accessors. These read the last committed state without
// opening a transaction.

// GetUser returns a committed user by ID.
func (s *Store) GetUser(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.state.users[id]
	return u, ok
}

// ListUsers returns all committed users.
func (s *Store) ListUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListUsers()
}

// GetCenter returns a committed center by ID.
func (s *Store) GetCenter(id string) (Center, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.centers[id]
	return c, ok
}

// ListCenters returns all committed centers.
func (s *Store) ListCenters() []Center {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListCenters()
}

// GetEvent returns a committed event by ID.
func (s *Store) GetEvent(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.state.events[id]
	return e, ok
}

// ListEvents returns all committed events.
func (s *Store) ListEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListEvents()
}

// GetSubEvent returns a committed sub-event by ID.
func (s *Store) GetSubEvent(id string) (SubEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	se, ok := s.state.subEvents[id]
	return se, ok
}

// GetParticipant returns a committed participant by ID.
func (s *Store) GetParticipant(id string) (Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.participants[id]
	return p, ok
}

// ListParticipants returns all committed participants.
func (s *Store) ListParticipants() []Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListParticipants()
}

// GetInventory returns a committed inventory item by ID.
func (s *Store) GetInventory(id string) (Inventory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.state.inventories[id]
	return inv, ok
}

// ListInventoryTransactions returns all committed ledger entries.
func (s *Store) ListInventoryTransactions() []InventoryTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListInventoryTransactions()
}
