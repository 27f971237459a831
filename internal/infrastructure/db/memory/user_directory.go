package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// UserDirectory keeps accounts keyed by email.
type UserDirectory struct {
	mu      sync.RWMutex
	byEmail map[string]domain.Account
}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{byEmail: make(map[string]domain.Account)}
}

func (d *UserDirectory) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acc, ok := d.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &acc, nil
}

// Create assigns a random ID and stores the account.
func (d *UserDirectory) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[account.Email]; exists {
		return nil, domain.ErrUserExists
	}
	acc := *account
	acc.ID = uuid.NewString()
	d.byEmail[acc.Email] = acc
	return &acc, nil
}

var _ ports.UserDirectory = (*UserDirectory)(nil)
