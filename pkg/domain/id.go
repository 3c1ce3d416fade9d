package domain

import "github.com/google/uuid"

// NewID returns a collision-resistant random identifier. Entity IDs are
// generated by the caller before insertion so the speculative and
// authoritative executions of a mutation agree on row identity; storage never
// assigns IDs.
func NewID() string {
	return uuid.NewString()
}
