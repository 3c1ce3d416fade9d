package memory

import "eventcore/pkg/domain"

// Creates are put-by-ID: inserting a row whose ID already exists replaces it
// while preserving the original CreatedAt. Mutations execute once
// speculatively and once authoritatively with caller-generated IDs, so a
// re-executed insert must converge instead of failing.

// CreateUser stores a user row within the transaction.
func (tx *transaction) CreateUser(u User) (User, error) {
	if u.ID == "" {
		return User{}, domain.ValidationError{Reason: "user id is required"}
	}
	if existing, ok := tx.state.users[u.ID]; ok {
		u.CreatedAt = existing.CreatedAt
	} else {
		u.CreatedAt = tx.now
	}
	u.UpdatedAt = tx.now
	tx.state.users[u.ID] = u
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionCreate, After: u})
	return u, nil
}

// UpdateUser mutates a user using the provided mutator function.
func (tx *transaction) UpdateUser(id string, mutator func(*User) error) (User, error) {
	current, ok := tx.state.users[id]
	if !ok {
		return User{}, domain.NotFoundError{Entity: domain.EntityUser, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return User{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.users[id] = current
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteUser removes a user from the transaction state.
func (tx *transaction) DeleteUser(id string) error {
	current, ok := tx.state.users[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityUser, ID: id}
	}
	delete(tx.state.users, id)
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateEventCategory stores an event category row.
func (tx *transaction) CreateEventCategory(c EventCategory) (EventCategory, error) {
	if c.ID == "" {
		return EventCategory{}, domain.ValidationError{Reason: "event category id is required"}
	}
	if existing, ok := tx.state.eventCategories[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	} else {
		c.CreatedAt = tx.now
	}
	c.UpdatedAt = tx.now
	tx.state.eventCategories[c.ID] = c
	tx.recordChange(Change{Entity: domain.EntityEventCategory, Action: domain.ActionCreate, After: c})
	return c, nil
}

// UpdateEventCategory mutates an event category.
func (tx *transaction) UpdateEventCategory(id string, mutator func(*EventCategory) error) (EventCategory, error) {
	current, ok := tx.state.eventCategories[id]
	if !ok {
		return EventCategory{}, domain.NotFoundError{Entity: domain.EntityEventCategory, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return EventCategory{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.eventCategories[id] = current
	tx.recordChange(Change{Entity: domain.EntityEventCategory, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteEventCategory removes an event category.
func (tx *transaction) DeleteEventCategory(id string) error {
	current, ok := tx.state.eventCategories[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityEventCategory, ID: id}
	}
	delete(tx.state.eventCategories, id)
	tx.recordChange(Change{Entity: domain.EntityEventCategory, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateEvent stores an event row.
func (tx *transaction) CreateEvent(e Event) (Event, error) {
	if e.ID == "" {
		return Event{}, domain.ValidationError{Reason: "event id is required"}
	}
	if existing, ok := tx.state.events[e.ID]; ok {
		e.CreatedAt = existing.CreatedAt
	} else {
		e.CreatedAt = tx.now
	}
	e.UpdatedAt = tx.now
	tx.state.events[e.ID] = e
	tx.recordChange(Change{Entity: domain.EntityEvent, Action: domain.ActionCreate, After: e})
	return e, nil
}

// UpdateEvent mutates an event.
func (tx *transaction) UpdateEvent(id string, mutator func(*Event) error) (Event, error) {
	current, ok := tx.state.events[id]
	if !ok {
		return Event{}, domain.NotFoundError{Entity: domain.EntityEvent, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Event{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.events[id] = current
	tx.recordChange(Change{Entity: domain.EntityEvent, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteEvent removes an event row. Dependent rows (sub-events, memberships)
// are removed by the mutator layer in the same transaction; cascades are
// mutator-driven, not storage-driven.
func (tx *transaction) DeleteEvent(id string) error {
	current, ok := tx.state.events[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityEvent, ID: id}
	}
	delete(tx.state.events, id)
	tx.recordChange(Change{Entity: domain.EntityEvent, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateSubEvent stores a sub-event row.
func (tx *transaction) CreateSubEvent(se SubEvent) (SubEvent, error) {
	if se.ID == "" {
		return SubEvent{}, domain.ValidationError{Reason: "sub-event id is required"}
	}
	if existing, ok := tx.state.subEvents[se.ID]; ok {
		se.CreatedAt = existing.CreatedAt
	} else {
		se.CreatedAt = tx.now
	}
	se.UpdatedAt = tx.now
	tx.state.subEvents[se.ID] = se
	tx.recordChange(Change{Entity: domain.EntitySubEvent, Action: domain.ActionCreate, After: se})
	return se, nil
}

// UpdateSubEvent mutates a sub-event.
func (tx *transaction) UpdateSubEvent(id string, mutator func(*SubEvent) error) (SubEvent, error) {
	current, ok := tx.state.subEvents[id]
	if !ok {
		return SubEvent{}, domain.NotFoundError{Entity: domain.EntitySubEvent, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return SubEvent{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.subEvents[id] = current
	tx.recordChange(Change{Entity: domain.EntitySubEvent, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteSubEvent removes a sub-event.
func (tx *transaction) DeleteSubEvent(id string) error {
	current, ok := tx.state.subEvents[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySubEvent, ID: id}
	}
	delete(tx.state.subEvents, id)
	tx.recordChange(Change{Entity: domain.EntitySubEvent, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateCenter stores a center row.
func (tx *transaction) CreateCenter(c Center) (Center, error) {
	if c.ID == "" {
		return Center{}, domain.ValidationError{Reason: "center id is required"}
	}
	if existing, ok := tx.state.centers[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	} else {
		c.CreatedAt = tx.now
	}
	c.UpdatedAt = tx.now
	tx.state.centers[c.ID] = c
	tx.recordChange(Change{Entity: domain.EntityCenter, Action: domain.ActionCreate, After: c})
	return c, nil
}

// UpdateCenter mutates a center.
func (tx *transaction) UpdateCenter(id string, mutator func(*Center) error) (Center, error) {
	current, ok := tx.state.centers[id]
	if !ok {
		return Center{}, domain.NotFoundError{Entity: domain.EntityCenter, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Center{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.centers[id] = current
	tx.recordChange(Change{Entity: domain.EntityCenter, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteCenter removes a center row.
func (tx *transaction) DeleteCenter(id string) error {
	current, ok := tx.state.centers[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityCenter, ID: id}
	}
	delete(tx.state.centers, id)
	tx.recordChange(Change{Entity: domain.EntityCenter, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateCenterLiaison stores a liaison membership row.
func (tx *transaction) CreateCenterLiaison(row CenterLiaison) (CenterLiaison, error) {
	if row.ID == "" {
		return CenterLiaison{}, domain.ValidationError{Reason: "center liaison id is required"}
	}
	if existing, ok := tx.state.centerLiaisons[row.ID]; ok {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = tx.now
	}
	row.UpdatedAt = tx.now
	tx.state.centerLiaisons[row.ID] = row
	tx.recordChange(Change{Entity: domain.EntityCenterLiaison, Action: domain.ActionCreate, After: row})
	return row, nil
}

// DeleteCenterLiaison removes a liaison membership row.
func (tx *transaction) DeleteCenterLiaison(id string) error {
	current, ok := tx.state.centerLiaisons[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityCenterLiaison, ID: id}
	}
	delete(tx.state.centerLiaisons, id)
	tx.recordChange(Change{Entity: domain.EntityCenterLiaison, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateCenterGuardian stores a guardian membership row.
func (tx *transaction) CreateCenterGuardian(row CenterGuardian) (CenterGuardian, error) {
	if row.ID == "" {
		return CenterGuardian{}, domain.ValidationError{Reason: "center guardian id is required"}
	}
	if existing, ok := tx.state.centerGuardians[row.ID]; ok {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = tx.now
	}
	row.UpdatedAt = tx.now
	tx.state.centerGuardians[row.ID] = row
	tx.recordChange(Change{Entity: domain.EntityCenterGuardian, Action: domain.ActionCreate, After: row})
	return row, nil
}

// DeleteCenterGuardian removes a guardian membership row.
func (tx *transaction) DeleteCenterGuardian(id string) error {
	current, ok := tx.state.centerGuardians[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityCenterGuardian, ID: id}
	}
	delete(tx.state.centerGuardians, id)
	tx.recordChange(Change{Entity: domain.EntityCenterGuardian, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateEventCoordinator stores a coordinator membership row.
func (tx *transaction) CreateEventCoordinator(row EventCoordinator) (EventCoordinator, error) {
	if row.ID == "" {
		return EventCoordinator{}, domain.ValidationError{Reason: "event coordinator id is required"}
	}
	if existing, ok := tx.state.eventCoordinators[row.ID]; ok {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = tx.now
	}
	row.UpdatedAt = tx.now
	tx.state.eventCoordinators[row.ID] = row
	tx.recordChange(Change{Entity: domain.EntityEventCoordinator, Action: domain.ActionCreate, After: row})
	return row, nil
}

// DeleteEventCoordinator removes a coordinator membership row.
func (tx *transaction) DeleteEventCoordinator(id string) error {
	current, ok := tx.state.eventCoordinators[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityEventCoordinator, ID: id}
	}
	delete(tx.state.eventCoordinators, id)
	tx.recordChange(Change{Entity: domain.EntityEventCoordinator, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateEventVolunteer stores a volunteer membership row.
func (tx *transaction) CreateEventVolunteer(row EventVolunteer) (EventVolunteer, error) {
	if row.ID == "" {
		return EventVolunteer{}, domain.ValidationError{Reason: "event volunteer id is required"}
	}
	if existing, ok := tx.state.eventVolunteers[row.ID]; ok {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = tx.now
	}
	row.UpdatedAt = tx.now
	tx.state.eventVolunteers[row.ID] = row
	tx.recordChange(Change{Entity: domain.EntityEventVolunteer, Action: domain.ActionCreate, After: row})
	return row, nil
}

// DeleteEventVolunteer removes a volunteer membership row.
func (tx *transaction) DeleteEventVolunteer(id string) error {
	current, ok := tx.state.eventVolunteers[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityEventVolunteer, ID: id}
	}
	delete(tx.state.eventVolunteers, id)
	tx.recordChange(Change{Entity: domain.EntityEventVolunteer, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateParticipantCategory stores a participant category row.
func (tx *transaction) CreateParticipantCategory(c ParticipantCategory) (ParticipantCategory, error) {
	if c.ID == "" {
		return ParticipantCategory{}, domain.ValidationError{Reason: "participant category id is required"}
	}
	if existing, ok := tx.state.participantCategories[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	} else {
		c.CreatedAt = tx.now
	}
	c.UpdatedAt = tx.now
	tx.state.participantCategories[c.ID] = c
	tx.recordChange(Change{Entity: domain.EntityParticipantCategory, Action: domain.ActionCreate, After: c})
	return c, nil
}

// UpdateParticipantCategory mutates a participant category.
func (tx *transaction) UpdateParticipantCategory(id string, mutator func(*ParticipantCategory) error) (ParticipantCategory, error) {
	current, ok := tx.state.participantCategories[id]
	if !ok {
		return ParticipantCategory{}, domain.NotFoundError{Entity: domain.EntityParticipantCategory, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return ParticipantCategory{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.participantCategories[id] = current
	tx.recordChange(Change{Entity: domain.EntityParticipantCategory, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteParticipantCategory removes a participant category.
func (tx *transaction) DeleteParticipantCategory(id string) error {
	current, ok := tx.state.participantCategories[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityParticipantCategory, ID: id}
	}
	delete(tx.state.participantCategories, id)
	tx.recordChange(Change{Entity: domain.EntityParticipantCategory, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateParticipant stores a participant row.
func (tx *transaction) CreateParticipant(p Participant) (Participant, error) {
	if p.ID == "" {
		return Participant{}, domain.ValidationError{Reason: "participant id is required"}
	}
	if existing, ok := tx.state.participants[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = tx.now
	}
	p.UpdatedAt = tx.now
	tx.state.participants[p.ID] = p
	tx.recordChange(Change{Entity: domain.EntityParticipant, Action: domain.ActionCreate, After: p})
	return p, nil
}

// UpdateParticipant mutates a participant.
func (tx *transaction) UpdateParticipant(id string, mutator func(*Participant) error) (Participant, error) {
	current, ok := tx.state.participants[id]
	if !ok {
		return Participant{}, domain.NotFoundError{Entity: domain.EntityParticipant, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Participant{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.participants[id] = current
	tx.recordChange(Change{Entity: domain.EntityParticipant, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteParticipant removes a participant.
func (tx *transaction) DeleteParticipant(id string) error {
	current, ok := tx.state.participants[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityParticipant, ID: id}
	}
	delete(tx.state.participants, id)
	tx.recordChange(Change{Entity: domain.EntityParticipant, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateSubEventParticipant stores a sub-event membership row.
func (tx *transaction) CreateSubEventParticipant(row SubEventParticipant) (SubEventParticipant, error) {
	if row.ID == "" {
		return SubEventParticipant{}, domain.ValidationError{Reason: "sub-event participant id is required"}
	}
	if existing, ok := tx.state.subEventParticipants[row.ID]; ok {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = tx.now
	}
	row.UpdatedAt = tx.now
	tx.state.subEventParticipants[row.ID] = row
	tx.recordChange(Change{Entity: domain.EntitySubEventParticipant, Action: domain.ActionCreate, After: row})
	return row, nil
}

// UpdateSubEventParticipant mutates a sub-event membership row.
func (tx *transaction) UpdateSubEventParticipant(id string, mutator func(*SubEventParticipant) error) (SubEventParticipant, error) {
	current, ok := tx.state.subEventParticipants[id]
	if !ok {
		return SubEventParticipant{}, domain.NotFoundError{Entity: domain.EntitySubEventParticipant, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return SubEventParticipant{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.subEventParticipants[id] = current
	tx.recordChange(Change{Entity: domain.EntitySubEventParticipant, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteSubEventParticipant removes a sub-event membership row.
func (tx *transaction) DeleteSubEventParticipant(id string) error {
	current, ok := tx.state.subEventParticipants[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntitySubEventParticipant, ID: id}
	}
	delete(tx.state.subEventParticipants, id)
	tx.recordChange(Change{Entity: domain.EntitySubEventParticipant, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateInventory stores an inventory row.
func (tx *transaction) CreateInventory(inv Inventory) (Inventory, error) {
	if inv.ID == "" {
		return Inventory{}, domain.ValidationError{Reason: "inventory id is required"}
	}
	if existing, ok := tx.state.inventories[inv.ID]; ok {
		inv.CreatedAt = existing.CreatedAt
	} else {
		inv.CreatedAt = tx.now
	}
	inv.UpdatedAt = tx.now
	tx.state.inventories[inv.ID] = inv
	tx.recordChange(Change{Entity: domain.EntityInventory, Action: domain.ActionCreate, After: inv})
	return inv, nil
}

// UpdateInventory mutates an inventory row.
func (tx *transaction) UpdateInventory(id string, mutator func(*Inventory) error) (Inventory, error) {
	current, ok := tx.state.inventories[id]
	if !ok {
		return Inventory{}, domain.NotFoundError{Entity: domain.EntityInventory, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Inventory{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.inventories[id] = current
	tx.recordChange(Change{Entity: domain.EntityInventory, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteInventory removes an inventory row.
func (tx *transaction) DeleteInventory(id string) error {
	current, ok := tx.state.inventories[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityInventory, ID: id}
	}
	delete(tx.state.inventories, id)
	tx.recordChange(Change{Entity: domain.EntityInventory, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateInventoryTransaction stores an immutable ledger entry. Ledger rows are
// append-only; there is no update operation.
func (tx *transaction) CreateInventoryTransaction(entry InventoryTransaction) (InventoryTransaction, error) {
	if entry.ID == "" {
		return InventoryTransaction{}, domain.ValidationError{Reason: "inventory transaction id is required"}
	}
	if existing, ok := tx.state.inventoryTransactions[entry.ID]; ok {
		entry.CreatedAt = existing.CreatedAt
	} else {
		entry.CreatedAt = tx.now
	}
	entry.UpdatedAt = tx.now
	tx.state.inventoryTransactions[entry.ID] = entry
	tx.recordChange(Change{Entity: domain.EntityInventoryTransaction, Action: domain.ActionCreate, After: entry})
	return entry, nil
}

// DeleteInventoryTransaction removes a ledger entry.
func (tx *transaction) DeleteInventoryTransaction(id string) error {
	current, ok := tx.state.inventoryTransactions[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityInventoryTransaction, ID: id}
	}
	delete(tx.state.inventoryTransactions, id)
	tx.recordChange(Change{Entity: domain.EntityInventoryTransaction, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateInventoryEvent stores an inventory↔event association row.
func (tx *transaction) CreateInventoryEvent(row InventoryEvent) (InventoryEvent, error) {
	if row.ID == "" {
		return InventoryEvent{}, domain.ValidationError{Reason: "inventory event id is required"}
	}
	if existing, ok := tx.state.inventoryEvents[row.ID]; ok {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = tx.now
	}
	row.UpdatedAt = tx.now
	tx.state.inventoryEvents[row.ID] = row
	tx.recordChange(Change{Entity: domain.EntityInventoryEvent, Action: domain.ActionCreate, After: row})
	return row, nil
}

// DeleteInventoryEvent removes an inventory↔event association row.
func (tx *transaction) DeleteInventoryEvent(id string) error {
	current, ok := tx.state.inventoryEvents[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityInventoryEvent, ID: id}
	}
	delete(tx.state.inventoryEvents, id)
	tx.recordChange(Change{Entity: domain.EntityInventoryEvent, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateInventoryTransactionEvent stores a ledger↔event association row.
func (tx *transaction) CreateInventoryTransactionEvent(row InventoryTransactionEvent) (InventoryTransactionEvent, error) {
	if row.ID == "" {
		return InventoryTransactionEvent{}, domain.ValidationError{Reason: "inventory transaction event id is required"}
	}
	if existing, ok := tx.state.inventoryTxEvents[row.ID]; ok {
		row.CreatedAt = existing.CreatedAt
	} else {
		row.CreatedAt = tx.now
	}
	row.UpdatedAt = tx.now
	tx.state.inventoryTxEvents[row.ID] = row
	tx.recordChange(Change{Entity: domain.EntityInventoryTransactionEvent, Action: domain.ActionCreate, After: row})
	return row, nil
}

// DeleteInventoryTransactionEvent removes a ledger↔event association row.
func (tx *transaction) DeleteInventoryTransactionEvent(id string) error {
	current, ok := tx.state.inventoryTxEvents[id]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityInventoryTransactionEvent, ID: id}
	}
	delete(tx.state.inventoryTxEvents, id)
	tx.recordChange(Change{Entity: domain.EntityInventoryTransactionEvent, Action: domain.ActionDelete, Before: current})
	return nil
}
