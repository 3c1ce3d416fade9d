package core

import (
	"context"

	"eventcore/internal/authz"
	"eventcore/internal/identity"
	"eventcore/pkg/domain"
)

// CreateUserArgs carries the payload for users.create.
type CreateUserArgs struct {
	ID          string       `json:"id"`
	FirstName   string       `json:"first_name"`
	LastName    *string      `json:"last_name,omitempty"`
	Role        domain.Role  `json:"role"`
	Leading     *domain.Team `json:"leading,omitempty"`
	PhoneNumber string       `json:"phone_number"`
	Email       *string      `json:"email,omitempty"`
	CanLogin    bool         `json:"can_login"`
}

func (args CreateUserArgs) profile() identity.Profile {
	p := identity.Profile{
		FirstName:   args.FirstName,
		PhoneNumber: args.PhoneNumber,
	}
	if args.LastName != nil {
		p.LastName = *args.LastName
	}
	if args.Email != nil {
		p.Email = *args.Email
	}
	return p
}

// CreateUser inserts a user. Admin only. On the server location, a login
// account is provisioned with the identity provider before the store write;
// when the write fails, the account is deleted again (best-effort
// compensation, not two-phase commit).
func (s *Service) CreateUser(ctx context.Context, actor *Actor, args CreateUserArgs) (domain.User, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.User{}, Result{}, err
	}
	if args.ID == "" {
		return domain.User{}, Result{}, domain.ValidationError{Reason: "user id is required"}
	}
	if args.FirstName == "" {
		return domain.User{}, Result{}, domain.ValidationError{Reason: "user first name is required"}
	}
	switch args.Role {
	case domain.RoleAdmin, domain.RoleVolunteer, domain.RoleGuardian:
	default:
		return domain.User{}, Result{}, domain.ValidationError{Reason: "unknown user role"}
	}

	var accountID *string
	if s.location == domain.LocationServer && s.provider != nil && args.CanLogin {
		id, err := s.provider.CreateAccount(ctx, args.profile())
		if err != nil {
			return domain.User{}, Result{}, domain.UpstreamError{System: "identity", Err: err}
		}
		accountID = &id
	}

	var created domain.User
	res, err := s.run(ctx, "users.create", actor, &args.ID, func(tx Transaction) error {
		var err error
		created, err = tx.CreateUser(domain.User{
			Base:        domain.Base{ID: args.ID},
			FirstName:   args.FirstName,
			LastName:    args.LastName,
			Role:        args.Role,
			Leading:     args.Leading,
			PhoneNumber: args.PhoneNumber,
			Email:       args.Email,
			CanLogin:    args.CanLogin,
			AccountID:   accountID,
		})
		return err
	})
	if err != nil && accountID != nil {
		// No orphaned provider account when the store write fails.
		if delErr := s.provider.DeleteAccount(ctx, *accountID); delErr != nil {
			s.logger.Error("identity account compensation failed",
				"operation", "users.create", "account_id", *accountID, "error", delErr)
		}
		return domain.User{}, res, err
	}
	return created, res, err
}

// UpdateUserArgs carries the payload for users.update.
type UpdateUserArgs struct {
	ID          string       `json:"id"`
	FirstName   *string      `json:"first_name,omitempty"`
	LastName    *string      `json:"last_name,omitempty"`
	Role        *domain.Role `json:"role,omitempty"`
	Leading     *domain.Team `json:"leading,omitempty"`
	ClearLead   bool         `json:"clear_lead,omitempty"`
	PhoneNumber *string      `json:"phone_number,omitempty"`
	Email       *string      `json:"email,omitempty"`
	CanLogin    *bool        `json:"can_login,omitempty"`
}

// UpdateUser patches user fields. Admin only. On the server location, a
// changed profile is mirrored to the identity provider after the store
// commit; a provider failure surfaces as an UpstreamError while the committed
// row stands.
func (s *Service) UpdateUser(ctx context.Context, actor *Actor, args UpdateUserArgs) (domain.User, Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return domain.User{}, Result{}, err
	}
	var updated domain.User
	res, err := s.run(ctx, "users.update", actor, &args.ID, func(tx Transaction) error {
		var err error
		updated, err = tx.UpdateUser(args.ID, func(u *domain.User) error {
			if args.FirstName != nil {
				u.FirstName = *args.FirstName
			}
			if args.LastName != nil {
				u.LastName = args.LastName
			}
			if args.Role != nil {
				switch *args.Role {
				case domain.RoleAdmin, domain.RoleVolunteer, domain.RoleGuardian:
				default:
					return domain.ValidationError{Reason: "unknown user role"}
				}
				u.Role = *args.Role
			}
			if args.ClearLead {
				u.Leading = nil
			} else if args.Leading != nil {
				u.Leading = args.Leading
			}
			if args.PhoneNumber != nil {
				u.PhoneNumber = *args.PhoneNumber
			}
			if args.Email != nil {
				u.Email = args.Email
			}
			if args.CanLogin != nil {
				u.CanLogin = *args.CanLogin
			}
			return nil
		})
		return err
	})
	if err != nil {
		return domain.User{}, res, err
	}
	if s.location == domain.LocationServer && s.provider != nil && updated.AccountID != nil {
		profile := identity.Profile{
			FirstName:   updated.FirstName,
			PhoneNumber: updated.PhoneNumber,
		}
		if updated.LastName != nil {
			profile.LastName = *updated.LastName
		}
		if updated.Email != nil {
			profile.Email = *updated.Email
		}
		if provErr := s.provider.UpdateAccount(ctx, *updated.AccountID, profile); provErr != nil {
			return updated, res, domain.UpstreamError{System: "identity", Err: provErr}
		}
	}
	return updated, res, err
}

// DeleteUserArgs carries the payload for users.delete.
type DeleteUserArgs struct {
	ID string `json:"id"`
}

// DeleteUser removes a user and their membership rows. Admin only. On the
// server location, the provider account is deleted after the store commit; a
// provider failure surfaces as an UpstreamError for the caller to retry.
func (s *Service) DeleteUser(ctx context.Context, actor *Actor, args DeleteUserArgs) (Result, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return Result{}, err
	}
	var accountID *string
	res, err := s.run(ctx, "users.delete", actor, &args.ID, func(tx Transaction) error {
		view := tx.Snapshot()
		user, ok := view.FindUser(args.ID)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityUser, ID: args.ID}
		}
		accountID = user.AccountID
		for _, row := range view.ListCenterLiaisons() {
			if row.UserID == args.ID {
				if err := tx.DeleteCenterLiaison(row.ID); err != nil {
					return err
				}
			}
		}
		for _, row := range view.ListCenterGuardians() {
			if row.UserID == args.ID {
				if err := tx.DeleteCenterGuardian(row.ID); err != nil {
					return err
				}
			}
		}
		for _, row := range view.ListEventCoordinators() {
			if row.UserID == args.ID {
				if err := tx.DeleteEventCoordinator(row.ID); err != nil {
					return err
				}
			}
		}
		for _, row := range view.ListEventVolunteers() {
			if row.UserID == args.ID {
				if err := tx.DeleteEventVolunteer(row.ID); err != nil {
					return err
				}
			}
		}
		return tx.DeleteUser(args.ID)
	})
	if err != nil {
		return res, err
	}
	if s.location == domain.LocationServer && s.provider != nil && accountID != nil {
		if provErr := s.provider.DeleteAccount(ctx, *accountID); provErr != nil {
			return res, domain.UpstreamError{System: "identity", Err: provErr}
		}
	}
	return res, nil
}
