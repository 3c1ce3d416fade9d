// Package identity defines the external identity-provider collaborator used
// by user mutators. Account management itself is out of scope; the package
// carries the interface plus an in-memory implementation for tests.
package identity

import (
	"context"
	"fmt"
	"sync"
)

// Profile carries the subset of user fields mirrored to the provider.
type Profile struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
}

// Provider manages login accounts in an external identity system. User
// mutators call it around the store write on the authoritative pass only,
// with best-effort compensation rather than two-phase commit.
type Provider interface {
	CreateAccount(ctx context.Context, profile Profile) (accountID string, err error)
	UpdateAccount(ctx context.Context, accountID string, profile Profile) error
	DeleteAccount(ctx context.Context, accountID string) error
}

// MemoryProvider is an in-process Provider for tests and ephemeral setups.
type MemoryProvider struct {
	mu       sync.Mutex
	seq      int
	accounts map[string]Profile

	// FailCreate, FailUpdate, and FailDelete force the next matching call to
	// fail, for compensation tests.
	FailCreate bool
	FailUpdate bool
	FailDelete bool
}

// NewMemoryProvider constructs an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{accounts: make(map[string]Profile)}
}

// CreateAccount registers a profile and returns a generated account ID.
func (p *MemoryProvider) CreateAccount(_ context.Context, profile Profile) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailCreate {
		return "", fmt.Errorf("identity: create account rejected")
	}
	p.seq++
	id := fmt.Sprintf("acct-%d", p.seq)
	p.accounts[id] = profile
	return id, nil
}

// UpdateAccount replaces the stored profile for an account.
func (p *MemoryProvider) UpdateAccount(_ context.Context, accountID string, profile Profile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailUpdate {
		return fmt.Errorf("identity: update account rejected")
	}
	if _, ok := p.accounts[accountID]; !ok {
		return fmt.Errorf("identity: account %s not found", accountID)
	}
	p.accounts[accountID] = profile
	return nil
}

// DeleteAccount removes an account.
func (p *MemoryProvider) DeleteAccount(_ context.Context, accountID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailDelete {
		return fmt.Errorf("identity: delete account rejected")
	}
	if _, ok := p.accounts[accountID]; !ok {
		return fmt.Errorf("identity: account %s not found", accountID)
	}
	delete(p.accounts, accountID)
	return nil
}

// Account returns the stored profile for an account ID.
func (p *MemoryProvider) Account(accountID string) (Profile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	profile, ok := p.accounts[accountID]
	return profile, ok
}

// Len reports the number of live accounts.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.accounts)
}
