package postgres

import "eventcore/internal/infra/persistence/memory"

// bucketTargets maps bucket names to snapshot fields for hydration.
func bucketTargets(snapshot *memory.Snapshot) map[string]any {
	return map[string]any{
		"users":                        &snapshot.Users,
		"event_categories":             &snapshot.EventCategories,
		"events":                       &snapshot.Events,
		"sub_events":                   &snapshot.SubEvents,
		"centers":                      &snapshot.Centers,
		"center_liaisons":              &snapshot.CenterLiaisons,
		"center_guardians":             &snapshot.CenterGuardians,
		"event_coordinators":           &snapshot.EventCoordinators,
		"event_volunteers":             &snapshot.EventVolunteers,
		"participant_categories":       &snapshot.ParticipantCategories,
		"participants":                 &snapshot.Participants,
		"sub_event_participants":       &snapshot.SubEventParticipants,
		"inventories":                  &snapshot.Inventories,
		"inventory_transactions":       &snapshot.InventoryTransactions,
		"inventory_events":             &snapshot.InventoryEvents,
		"inventory_transaction_events": &snapshot.InventoryTxEvents,
	}
}

// bucketPayloads maps bucket names to snapshot values for persistence.
func bucketPayloads(snapshot memory.Snapshot) map[string]any {
	return map[string]any{
		"users":                        snapshot.Users,
		"event_categories":             snapshot.EventCategories,
		"events":                       snapshot.Events,
		"sub_events":                   snapshot.SubEvents,
		"centers":                      snapshot.Centers,
		"center_liaisons":              snapshot.CenterLiaisons,
		"center_guardians":             snapshot.CenterGuardians,
		"event_coordinators":           snapshot.EventCoordinators,
		"event_volunteers":             snapshot.EventVolunteers,
		"participant_categories":       snapshot.ParticipantCategories,
		"participants":                 snapshot.Participants,
		"sub_event_participants":       snapshot.SubEventParticipants,
		"inventories":                  snapshot.Inventories,
		"inventory_transactions":       snapshot.InventoryTransactions,
		"inventory_events":             snapshot.InventoryEvents,
		"inventory_transaction_events": snapshot.InventoryTxEvents,
	}
}
