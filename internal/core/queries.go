package core

import (
	"context"

	"github.com/google/uuid"

	"eventcore/internal/authz"
	"eventcore/pkg/domain"
)

// CenterDetail is the center read model: the center row joined with its
// liaison and guardian users.
type CenterDetail struct {
	Center    domain.Center `json:"center"`
	Liaisons  []domain.User `json:"liaisons"`
	Guardians []domain.User `json:"guardians"`
}

// EventDetail is the event read model: the event row joined with its
// sub-events, coordinators, and volunteers.
type EventDetail struct {
	Event        domain.Event      `json:"event"`
	SubEvents    []domain.SubEvent `json:"sub_events"`
	Coordinators []domain.User     `json:"coordinators"`
	Volunteers   []domain.User     `json:"volunteers"`
}

// InventoryDetail is the inventory read model: the item joined with its
// ledger entries and linked events.
type InventoryDetail struct {
	Inventory    domain.Inventory              `json:"inventory"`
	Transactions []domain.InventoryTransaction `json:"transactions"`
	EventIDs     []string                      `json:"event_ids"`
}

// AllUsers returns the users visible to the actor: every user for admins,
// only the actor's own row otherwise.
func (s *Service) AllUsers(ctx context.Context, actor *Actor) ([]domain.User, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return nil, err
	}
	var out []domain.User
	err := s.store.View(ctx, func(view TransactionView) error {
		keep := authz.UserFilter(actor)
		for _, user := range view.ListUsers() {
			if keep(user) {
				out = append(out, user)
			}
		}
		return nil
	})
	return out, err
}

// UserByID returns one user by identifier. Non-admins may only read their
// own row.
func (s *Service) UserByID(ctx context.Context, actor *Actor, id string) (domain.User, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return domain.User{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.User{}, domain.ValidationError{Reason: "user id must be a valid uuid"}
	}
	var out domain.User
	err := s.store.View(ctx, func(view TransactionView) error {
		user, ok := view.FindUser(id)
		if !ok || !authz.UserFilter(actor)(user) {
			return domain.NotFoundError{Entity: domain.EntityUser, ID: id}
		}
		out = user
		return nil
	})
	return out, err
}

// Centers returns the centers visible to the actor, each joined with its
// liaison and guardian users.
func (s *Service) Centers(ctx context.Context, actor *Actor) ([]CenterDetail, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return nil, err
	}
	var out []CenterDetail
	err := s.store.View(ctx, func(view TransactionView) error {
		keep := authz.CenterFilter(view, actor)
		for _, center := range view.ListCenters() {
			if !keep(center) {
				continue
			}
			out = append(out, buildCenterDetail(view, center))
		}
		return nil
	})
	return out, err
}

// Center returns one center with its membership, subject to the same
// visibility rule as Centers.
func (s *Service) Center(ctx context.Context, actor *Actor, id string) (CenterDetail, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return CenterDetail{}, err
	}
	var out CenterDetail
	err := s.store.View(ctx, func(view TransactionView) error {
		center, ok := view.FindCenter(id)
		if !ok || !authz.CenterFilter(view, actor)(center) {
			return domain.NotFoundError{Entity: domain.EntityCenter, ID: id}
		}
		out = buildCenterDetail(view, center)
		return nil
	})
	return out, err
}

func buildCenterDetail(view TransactionView, center domain.Center) CenterDetail {
	detail := CenterDetail{Center: center}
	for _, row := range view.ListCenterLiaisons() {
		if row.CenterID != center.ID {
			continue
		}
		if user, ok := view.FindUser(row.UserID); ok {
			detail.Liaisons = append(detail.Liaisons, user)
		}
	}
	for _, row := range view.ListCenterGuardians() {
		if row.CenterID != center.ID {
			continue
		}
		if user, ok := view.FindUser(row.UserID); ok {
			detail.Guardians = append(detail.Guardians, user)
		}
	}
	return detail
}

// ParticipantsByCenter returns the participants of one center, subject to
// participant visibility.
func (s *Service) ParticipantsByCenter(ctx context.Context, actor *Actor, centerID string) ([]domain.Participant, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return nil, err
	}
	var out []domain.Participant
	err := s.store.View(ctx, func(view TransactionView) error {
		if _, ok := view.FindCenter(centerID); !ok {
			return domain.NotFoundError{Entity: domain.EntityCenter, ID: centerID}
		}
		keep := authz.ParticipantFilter(view, actor)
		for _, participant := range view.ListParticipants() {
			if participant.CenterID == centerID && keep(participant) {
				out = append(out, participant)
			}
		}
		return nil
	})
	return out, err
}

// EventsWithSubEvents returns every event joined with its sub-events and
// staffing. Events are visible to any logged-in user.
func (s *Service) EventsWithSubEvents(ctx context.Context, actor *Actor) ([]EventDetail, error) {
	if err := authz.RequireLoggedIn(actor); err != nil {
		return nil, err
	}
	var out []EventDetail
	err := s.store.View(ctx, func(view TransactionView) error {
		keep := authz.EventFilter(actor)
		for _, event := range view.ListEvents() {
			if !keep(event) {
				continue
			}
			detail := EventDetail{Event: event}
			for _, sub := range view.ListSubEvents() {
				if sub.EventID == event.ID {
					detail.SubEvents = append(detail.SubEvents, sub)
				}
			}
			for _, row := range view.ListEventCoordinators() {
				if row.EventID != event.ID {
					continue
				}
				if user, ok := view.FindUser(row.UserID); ok {
					detail.Coordinators = append(detail.Coordinators, user)
				}
			}
			for _, row := range view.ListEventVolunteers() {
				if row.EventID != event.ID {
					continue
				}
				if user, ok := view.FindUser(row.UserID); ok {
					detail.Volunteers = append(detail.Volunteers, user)
				}
			}
			out = append(out, detail)
		}
		return nil
	})
	return out, err
}

// InventoryWithTransactions returns inventory items joined with their ledger
// entries and event links. Restricted to admins and logistics leads.
func (s *Service) InventoryWithTransactions(ctx context.Context, actor *Actor) ([]InventoryDetail, error) {
	if err := authz.RequireAdminOrTeamLead(actor, domain.TeamLogistics); err != nil {
		return nil, err
	}
	var out []InventoryDetail
	err := s.store.View(ctx, func(view TransactionView) error {
		keep := authz.InventoryFilter(actor)
		for _, item := range view.ListInventories() {
			if !keep(item) {
				continue
			}
			detail := InventoryDetail{Inventory: item}
			for _, entry := range view.ListInventoryTransactions() {
				if entry.InventoryID == item.ID {
					detail.Transactions = append(detail.Transactions, entry)
				}
			}
			for _, link := range view.ListInventoryEvents() {
				if link.InventoryID == item.ID {
					detail.EventIDs = append(detail.EventIDs, link.EventID)
				}
			}
			out = append(out, detail)
		}
		return nil
	})
	return out, err
}
