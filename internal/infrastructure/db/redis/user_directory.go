package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// UserDirectory stores local accounts as JSON documents.
// Key format: <prefix>account:<lowercased email>
type UserDirectory struct {
	client redis.Cmdable
	prefix string
}

// NewUserDirectory wraps client. An empty prefix uses DefaultPrefix.
func NewUserDirectory(client redis.Cmdable, prefix string) *UserDirectory {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &UserDirectory{client: client, prefix: prefix}
}

type accountRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (d *UserDirectory) key(email string) string {
	return d.prefix + "account:" + strings.ToLower(strings.TrimSpace(email))
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	raw, err := d.client.Get(ctx, d.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get account: %w", err)
	}
	return decodeAccount(raw)
}

// Create stores the account under its email with SETNX, so a second account
// for the same email fails with domain.ErrUserExists.
func (d *UserDirectory) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	acc := *account
	acc.ID = uuid.NewString()

	raw, err := encodeAccount(acc)
	if err != nil {
		return nil, err
	}
	created, err := d.client.SetNX(ctx, d.key(acc.Email), raw, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("redis create account: %w", err)
	}
	if !created {
		return nil, domain.ErrUserExists
	}
	return &acc, nil
}

func encodeAccount(a domain.Account) ([]byte, error) {
	raw, err := json.Marshal(accountRecord{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("encode account: %w", err)
	}
	return raw, nil
}

func decodeAccount(raw []byte) (*domain.Account, error) {
	var rec accountRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	role, _ := domain.ParseRole(rec.Role)
	return &domain.Account{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         role,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}, nil
}

var _ ports.UserDirectory = (*UserDirectory)(nil)
