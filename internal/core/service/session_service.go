package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// Keys under which the session is persisted.
const (
	TokenKey       = "token"
	CurrentUserKey = "currentUser"
)

type lifecycle int

const (
	stateInit lifecycle = iota
	stateLive
	stateDisposed
)

// SessionManager holds at most one authenticated identity for the process.
//
// Transitions (restore, login, logout) are serialised by opMu, so listeners
// observe them in the order they happened. Listeners run synchronously while
// opMu is held and must not call Login, Logout or Restore.
//
// A session whose token carries an expiry stops being reported once that
// instant passes, even though the persisted state is only cleared by the next
// Restore, Login or Logout.
type SessionManager struct {
	gateway ports.AuthGateway
	codec   ports.TokenCodec
	store   ports.PersistenceStore
	log     zerolog.Logger
	now     func() time.Time

	opMu sync.Mutex

	mu        sync.RWMutex
	state     lifecycle
	user      *domain.CurrentUser
	token     string
	expiresAt time.Time
	listeners []*subscription
}

type subscription struct {
	fn ports.SessionListener
}

// NewSessionManager returns a manager in the init state. Call Restore to pick
// up a session persisted by a previous process.
func NewSessionManager(gateway ports.AuthGateway, codec ports.TokenCodec, store ports.PersistenceStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		gateway: gateway,
		codec:   codec,
		store:   store,
		log:     log.With().Str("component", "session").Logger(),
		now:     time.Now,
	}
}

// Restore loads a previously persisted session. Missing, unreadable or
// undecodable state leaves the manager unauthenticated; it never fails.
func (m *SessionManager) Restore(ctx context.Context) bool {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.disposed() {
		return false
	}
	m.setState(stateLive)

	raw, ok, err := m.store.Get(ctx, TokenKey)
	if err != nil {
		m.log.Warn().Err(err).Msg("reading persisted token failed, starting unauthenticated")
		return false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return false
	}

	claims, err := m.codec.Decode(raw)
	if err != nil {
		m.log.Warn().Err(err).Msg("discarding persisted token")
		m.clearStore(ctx)
		return false
	}

	user := userFromClaims(claims, "")
	if snap, ok := m.loadSnapshot(ctx); ok && snap.ID == user.ID {
		if snap.DisplayName != "" {
			user.DisplayName = snap.DisplayName
		}
		if snap.Email != "" {
			user.Email = snap.Email
		}
	}
	m.warnUnknownRole(user)

	m.set(&user, raw, claims.ExpiresAt)
	m.notify(&user)
	m.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("session restored")
	return true
}

// Login authenticates against the gateway and installs the new identity. On
// any failure the manager is left unauthenticated. A token whose role is not
// one of the known roles still logs in; such a user holds no role.
func (m *SessionManager) Login(ctx context.Context, email, password string) (domain.CurrentUser, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if m.disposed() {
		return domain.CurrentUser{}, domain.ErrSessionClosed
	}
	m.setState(stateLive)

	raw, err := m.gateway.Authenticate(ctx, email, password)
	if err != nil {
		m.reset(ctx)
		return domain.CurrentUser{}, fmt.Errorf("login: %w", err)
	}

	claims, err := m.codec.Decode(raw)
	if err != nil {
		m.reset(ctx)
		if !errors.Is(err, domain.ErrMalformedToken) {
			err = fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
		}
		return domain.CurrentUser{}, fmt.Errorf("login: %w", err)
	}

	user := userFromClaims(claims, email)
	m.warnUnknownRole(user)

	if err := m.persist(ctx, raw, user); err != nil {
		m.reset(ctx)
		return domain.CurrentUser{}, fmt.Errorf("login: persist session: %w", err)
	}

	m.set(&user, raw, claims.ExpiresAt)
	m.notify(&user)
	m.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("logged in")
	return user, nil
}

// Logout forgets the identity in memory and in the store. It is idempotent.
func (m *SessionManager) Logout(ctx context.Context) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.clearStore(ctx)
	m.set(nil, "", time.Time{})
	if !m.disposed() {
		m.notify(nil)
	}
	m.log.Info().Msg("logged out")
}

// CurrentUser returns a copy of the authenticated identity.
func (m *SessionManager) CurrentUser() (domain.CurrentUser, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.liveLocked() {
		return domain.CurrentUser{}, false
	}
	return *m.user, true
}

// Token returns the bearer token of the current session.
func (m *SessionManager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.liveLocked() {
		return "", false
	}
	return m.token, true
}

// liveLocked reports whether an unexpired identity is held. Callers hold mu.
func (m *SessionManager) liveLocked() bool {
	if m.user == nil {
		return false
	}
	return m.expiresAt.IsZero() || m.now().Before(m.expiresAt)
}

func (m *SessionManager) IsAuthenticated() bool {
	_, ok := m.CurrentUser()
	return ok
}

func (m *SessionManager) HasRole(role domain.Role) bool {
	u, ok := m.CurrentUser()
	return ok && u.HasRole(role)
}

// Subscribe registers a listener for every later transition. The returned
// function removes it and is safe to call more than once.
func (m *SessionManager) Subscribe(listener ports.SessionListener) func() {
	sub := &subscription{fn: listener}

	m.mu.Lock()
	if m.state == stateDisposed {
		m.mu.Unlock()
		return func() {}
	}
	m.listeners = append(m.listeners, sub)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.listeners {
				if s == sub {
					m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Close disposes the manager. The persisted session is kept for the next
// process; listeners are dropped and Login fails with ErrSessionClosed.
func (m *SessionManager) Close() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	m.state = stateDisposed
	m.listeners = nil
	m.mu.Unlock()
}

func (m *SessionManager) disposed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == stateDisposed
}

func (m *SessionManager) setState(s lifecycle) {
	m.mu.Lock()
	if m.state != stateDisposed {
		m.state = s
	}
	m.mu.Unlock()
}

func (m *SessionManager) set(user *domain.CurrentUser, token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.token = token
	m.expiresAt = expiresAt
}

// reset drops the identity after a failed login. Listeners are only told when
// a session actually existed.
func (m *SessionManager) reset(ctx context.Context) {
	m.mu.RLock()
	had := m.user != nil
	m.mu.RUnlock()
	m.clearStore(ctx)
	m.set(nil, "", time.Time{})
	if had {
		m.notify(nil)
	}
}

func (m *SessionManager) notify(user *domain.CurrentUser) {
	m.mu.RLock()
	subs := make([]*subscription, len(m.listeners))
	copy(subs, m.listeners)
	m.mu.RUnlock()

	for _, s := range subs {
		if user == nil {
			s.fn(nil)
			continue
		}
		snapshot := *user
		s.fn(&snapshot)
	}
}

// persist writes the token and the user snapshot as one unit: if the second
// write fails the first is rolled back.
func (m *SessionManager) persist(ctx context.Context, token string, user domain.CurrentUser) error {
	snap, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	if err := m.store.Set(ctx, TokenKey, token); err != nil {
		return err
	}
	if err := m.store.Set(ctx, CurrentUserKey, string(snap)); err != nil {
		if rbErr := m.store.Remove(ctx, TokenKey); rbErr != nil {
			m.log.Error().Err(rbErr).Msg("rolling back persisted token failed")
		}
		return err
	}
	return nil
}

func (m *SessionManager) loadSnapshot(ctx context.Context) (domain.CurrentUser, bool) {
	raw, ok, err := m.store.Get(ctx, CurrentUserKey)
	if err != nil || !ok {
		return domain.CurrentUser{}, false
	}
	var u domain.CurrentUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		m.log.Debug().Err(err).Msg("ignoring unreadable user snapshot")
		return domain.CurrentUser{}, false
	}
	return u, true
}

func (m *SessionManager) clearStore(ctx context.Context) {
	for _, key := range []string{TokenKey, CurrentUserKey} {
		if err := m.store.Remove(ctx, key); err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("clearing persisted session failed")
		}
	}
}

func (m *SessionManager) warnUnknownRole(user domain.CurrentUser) {
	if !user.Role.Known() {
		m.log.Warn().
			Str("user_id", user.ID).
			Str("role", user.Role.String()).
			Msg("token carries an unrecognized role, routing to default area")
	}
}

// userFromClaims builds the identity from decoded claims. loginEmail fills
// the email when the token does not carry one.
func userFromClaims(c domain.Claims, loginEmail string) domain.CurrentUser {
	email := c.Email
	if email == "" && strings.Contains(c.Subject, "@") {
		email = c.Subject
	}
	if email == "" {
		email = loginEmail
	}
	name := c.Name
	if name == "" {
		name = email
	}
	return domain.CurrentUser{
		ID:          c.Subject,
		DisplayName: name,
		Email:       email,
		Role:        c.Role,
	}
}
