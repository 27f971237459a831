package ports

import (
	"context"

	"github.com/schoolhub/school-console/internal/core/domain"
)

// UserDirectory persists accounts of the local identity service.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

type IdentityService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}
