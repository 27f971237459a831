package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

const uniqueViolation = "23505"

type UserDirectory struct {
	pool *pgxpool.Pool
}

func NewUserDirectory(pool *pgxpool.Pool) *UserDirectory {
	return &UserDirectory{pool: pool}
}

func (d *UserDirectory) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	const query = `
		INSERT INTO console_accounts (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, name, email, password_hash, role, created_at, updated_at`

	row := d.pool.QueryRow(ctx, query,
		uuid.NewString(), account.Name, account.Email, account.PasswordHash,
		string(account.Role), account.CreatedAt, account.UpdatedAt)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM console_accounts WHERE email = $1`

	acc, err := scanAccount(d.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return acc, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		acc  domain.Account
		role string
	)
	if err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &role, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}
	acc.Role = domain.Role(role)
	acc.CreatedAt = acc.CreatedAt.UTC()
	acc.UpdatedAt = acc.UpdatedAt.UTC()
	return &acc, nil
}

var _ ports.UserDirectory = (*UserDirectory)(nil)
