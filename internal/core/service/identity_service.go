package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// IdentityService is a local stand-in for the school's authentication
// endpoint: accounts live in a UserDirectory, passwords are bcrypt hashes and
// tokens are signed by the same codec the session decodes with.
type IdentityService struct {
	directory ports.UserDirectory
	signer    ports.TokenSigner
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewIdentityService(directory ports.UserDirectory, signer ports.TokenSigner, tokenTTL time.Duration, log zerolog.Logger) *IdentityService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &IdentityService{
		directory: directory,
		signer:    signer,
		tokenTTL:  tokenTTL,
		log:       log.With().Str("component", "identity").Logger(),
	}
}

func (s *IdentityService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.directory.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role.String()).Msg("account registered")
	return created, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, err := s.signer.Encode(domain.Claims{
		Subject:   account.ID,
		Role:      account.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
		Name:      account.Name,
		Email:     account.Email,
	})
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, account, nil
}

// Authenticate lets the identity service stand in as the session's
// AuthGateway. Unknown users are reported as invalid credentials.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (string, error) {
	token, _, err := s.Login(ctx, email, password)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	return token, err
}

// EnsureAccount registers an account unless the email is already taken.
func (s *IdentityService) EnsureAccount(ctx context.Context, name, email, password string, role domain.Role) error {
	_, err := s.Register(ctx, name, email, password, role)
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	_ ports.IdentityService = (*IdentityService)(nil)
	_ ports.AuthGateway     = (*IdentityService)(nil)
)
