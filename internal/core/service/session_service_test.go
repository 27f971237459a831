package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubGateway struct {
	token string
	err   error
	calls int
}

func (g *stubGateway) Authenticate(_ context.Context, _, _ string) (string, error) {
	g.calls++
	return g.token, g.err
}

// stubCodec decodes tokens registered in claims; anything else is malformed.
type stubCodec struct {
	claims map[string]domain.Claims
}

func (c *stubCodec) Decode(raw string) (domain.Claims, error) {
	cl, ok := c.claims[raw]
	if !ok {
		return domain.Claims{}, fmt.Errorf("%w: unknown token", domain.ErrMalformedToken)
	}
	return cl, nil
}

type stubStore struct {
	data      map[string]string
	getErr    error
	failSetOn string
}

func newStubStore() *stubStore {
	return &stubStore{data: make(map[string]string)}
}

func (s *stubStore) Get(_ context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	if key == s.failSetOn {
		return errors.New("disk full")
	}
	s.data[key] = value
	return nil
}

func (s *stubStore) Remove(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

var _ ports.PersistenceStore = (*stubStore)(nil)

func tokenCodec() *stubCodec {
	return &stubCodec{claims: map[string]domain.Claims{
		"tok-admin":   {Subject: "u-1", Role: domain.RoleAdministrator, Name: "Ana", Email: "ana@school.test"},
		"tok-teacher": {Subject: "u-2", Role: domain.RoleTeacher, Name: "Bruno"},
		"tok-student": {Subject: "carla@school.test", Role: domain.RoleStudent},
		"tok-janitor": {Subject: "u-9", Role: domain.Role("JANITOR")},
	}}
}

func newManager(gw *stubGateway, store *stubStore) *SessionManager {
	return NewSessionManager(gw, tokenCodec(), store, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestSessionManager_ExpiredTokenEndsSession(t *testing.T) {
	issued := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	codec := tokenCodec()
	codec.claims["tok-short"] = domain.Claims{Subject: "u-5", Role: domain.RoleTeacher, ExpiresAt: issued.Add(time.Hour)}

	m := NewSessionManager(&stubGateway{token: "tok-short"}, codec, newStubStore(), zerolog.Nop())
	now := issued
	m.now = func() time.Time { return now }

	if _, err := m.Login(context.Background(), "u5@school.test", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !m.IsAuthenticated() || !m.HasRole(domain.RoleTeacher) {
		t.Fatalf("expected a live session before expiry")
	}

	now = issued.Add(time.Hour + time.Second)
	if m.IsAuthenticated() || m.HasRole(domain.RoleTeacher) {
		t.Fatalf("session must end once the token expires")
	}
	if _, ok := m.Token(); ok {
		t.Fatalf("an expired token must not be handed out")
	}
	if _, ok := m.CurrentUser(); ok {
		t.Fatalf("an expired session has no current user")
	}
}

func TestSessionManager_Login_KnownRoles(t *testing.T) {
	tests := []struct {
		token string
		role  domain.Role
		area  string
	}{
		{"tok-admin", domain.RoleAdministrator, domain.AreaAdmin},
		{"tok-teacher", domain.RoleTeacher, domain.AreaTeacher},
		{"tok-student", domain.RoleStudent, domain.AreaStudent},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			m := newManager(&stubGateway{token: tt.token}, newStubStore())

			user, err := m.Login(context.Background(), "someone@school.test", "pw")
			if err != nil {
				t.Fatalf("login failed: %v", err)
			}
			if user.Role != tt.role {
				t.Fatalf("expected role %s, got %s", tt.role, user.Role)
			}
			current, ok := m.CurrentUser()
			if !ok || current.Role != tt.role {
				t.Fatalf("current user mismatch: %+v (ok=%v)", current, ok)
			}
			if !m.HasRole(tt.role) {
				t.Fatalf("expected HasRole(%s)", tt.role)
			}
			if got := domain.LandingArea(current.Role); got != tt.area {
				t.Fatalf("expected area %s, got %s", tt.area, got)
			}
		})
	}
}

func TestSessionManager_Login_PersistsTokenAndSnapshot(t *testing.T) {
	store := newStubStore()
	m := newManager(&stubGateway{token: "tok-admin"}, store)

	if _, err := m.Login(context.Background(), "ana@school.test", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if store.data[TokenKey] != "tok-admin" {
		t.Fatalf("token not persisted: %q", store.data[TokenKey])
	}
	if store.data[CurrentUserKey] == "" {
		t.Fatalf("user snapshot not persisted")
	}
	tok, ok := m.Token()
	if !ok || tok != "tok-admin" {
		t.Fatalf("unexpected token accessor: %q %v", tok, ok)
	}
}

func TestSessionManager_Login_EmailFallbacks(t *testing.T) {
	m := newManager(&stubGateway{token: "tok-teacher"}, newStubStore())
	user, err := m.Login(context.Background(), "bruno@school.test", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "bruno@school.test" || user.DisplayName != "Bruno" {
		t.Fatalf("unexpected user: %+v", user)
	}

	m = newManager(&stubGateway{token: "tok-student"}, newStubStore())
	user, err = m.Login(context.Background(), "typed@school.test", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Email != "carla@school.test" || user.DisplayName != "carla@school.test" {
		t.Fatalf("expected subject to be used as email, got %+v", user)
	}
}

func TestSessionManager_Login_UnrecognizedRole(t *testing.T) {
	m := newManager(&stubGateway{token: "tok-janitor"}, newStubStore())

	user, err := m.Login(context.Background(), "x@school.test", "pw")
	if err != nil {
		t.Fatalf("unrecognized role must not fail login: %v", err)
	}
	for _, r := range []domain.Role{domain.RoleAdministrator, domain.RoleTeacher, domain.RoleStudent} {
		if m.HasRole(r) {
			t.Fatalf("HasRole(%s) should be false", r)
		}
	}
	if got := domain.LandingArea(user.Role); got != domain.AreaDefault {
		t.Fatalf("expected default area, got %s", got)
	}
}

func TestSessionManager_Login_Failures(t *testing.T) {
	tests := []struct {
		name string
		gw   *stubGateway
		want error
	}{
		{"invalid credentials", &stubGateway{err: fmt.Errorf("auth: %w", domain.ErrInvalidCredentials)}, domain.ErrInvalidCredentials},
		{"connection", &stubGateway{err: fmt.Errorf("auth: %w", domain.ErrConnection)}, domain.ErrConnection},
		{"malformed token", &stubGateway{token: "garbage"}, domain.ErrMalformedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStubStore()
			m := newManager(tt.gw, store)

			_, err := m.Login(context.Background(), "a@school.test", "pw")
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if m.IsAuthenticated() {
				t.Fatalf("expected unauthenticated after failure")
			}
			if len(store.data) != 0 {
				t.Fatalf("expected nothing persisted, got %v", store.data)
			}
		})
	}
}

func TestSessionManager_Login_FailureDropsPreviousSession(t *testing.T) {
	gw := &stubGateway{token: "tok-admin"}
	store := newStubStore()
	m := newManager(gw, store)
	if _, err := m.Login(context.Background(), "ana@school.test", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	gw.token = "garbage"
	if _, err := m.Login(context.Background(), "ana@school.test", "pw"); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatalf("stale session survived a failed login")
	}
	if _, ok := store.data[TokenKey]; ok {
		t.Fatalf("stale token survived a failed login")
	}
}

func TestSessionManager_Login_RollsBackPartialPersist(t *testing.T) {
	store := newStubStore()
	store.failSetOn = CurrentUserKey
	m := newManager(&stubGateway{token: "tok-admin"}, store)

	if _, err := m.Login(context.Background(), "ana@school.test", "pw"); err == nil {
		t.Fatalf("expected persistence error")
	}
	if m.IsAuthenticated() {
		t.Fatalf("expected unauthenticated")
	}
	if _, ok := store.data[TokenKey]; ok {
		t.Fatalf("token should have been rolled back")
	}
}

// ---------------------------------------------------------------------------
// Logout / Restore
// ---------------------------------------------------------------------------

func TestSessionManager_Logout_Idempotent(t *testing.T) {
	store := newStubStore()
	m := newManager(&stubGateway{token: "tok-admin"}, store)

	m.Logout(context.Background())
	if m.IsAuthenticated() {
		t.Fatalf("expected unauthenticated")
	}

	if _, err := m.Login(context.Background(), "ana@school.test", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	m.Logout(context.Background())
	m.Logout(context.Background())
	if m.IsAuthenticated() {
		t.Fatalf("expected unauthenticated after double logout")
	}
	if len(store.data) != 0 {
		t.Fatalf("expected store cleared, got %v", store.data)
	}
	if _, ok := m.Token(); ok {
		t.Fatalf("token should be gone")
	}
}

func TestSessionManager_Restore_SurvivesRestart(t *testing.T) {
	store := newStubStore()
	first := newManager(&stubGateway{token: "tok-teacher"}, store)
	before, err := first.Login(context.Background(), "bruno@school.test", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	first.Close()

	second := newManager(&stubGateway{}, store)
	if !second.Restore(context.Background()) {
		t.Fatalf("expected session to be restored")
	}
	after, ok := second.CurrentUser()
	if !ok {
		t.Fatalf("expected authenticated after restore")
	}
	if after != before {
		t.Fatalf("restored user differs: before=%+v after=%+v", before, after)
	}
}

func TestSessionManager_Restore_Empty(t *testing.T) {
	m := newManager(&stubGateway{}, newStubStore())
	if m.Restore(context.Background()) {
		t.Fatalf("nothing to restore")
	}
	if m.IsAuthenticated() {
		t.Fatalf("expected unauthenticated")
	}
}

func TestSessionManager_Restore_CorruptedToken(t *testing.T) {
	store := newStubStore()
	store.data[TokenKey] = "%%%not-a-token%%%"
	store.data[CurrentUserKey] = `{"id":"u-1"}`
	m := newManager(&stubGateway{}, store)

	if m.Restore(context.Background()) {
		t.Fatalf("corrupted token must not restore")
	}
	if m.IsAuthenticated() {
		t.Fatalf("expected unauthenticated")
	}
	if len(store.data) != 0 {
		t.Fatalf("corrupted state should be cleared, got %v", store.data)
	}
}

func TestSessionManager_Restore_StoreError(t *testing.T) {
	store := newStubStore()
	store.getErr = errors.New("storage unavailable")
	m := newManager(&stubGateway{}, store)

	if m.Restore(context.Background()) || m.IsAuthenticated() {
		t.Fatalf("store failure must leave the session empty")
	}
}

func TestSessionManager_Restore_IgnoresForeignSnapshot(t *testing.T) {
	store := newStubStore()
	store.data[TokenKey] = "tok-teacher"
	store.data[CurrentUserKey] = `{"id":"someone-else","display_name":"Mallory","email":"m@evil.test"}`
	m := newManager(&stubGateway{}, store)

	if !m.Restore(context.Background()) {
		t.Fatalf("expected restore")
	}
	u, _ := m.CurrentUser()
	if u.DisplayName != "Bruno" || u.Email == "m@evil.test" {
		t.Fatalf("snapshot of another user leaked: %+v", u)
	}
}

// ---------------------------------------------------------------------------
// Notifications and lifecycle
// ---------------------------------------------------------------------------

func TestSessionManager_Subscribe_OrderedDelivery(t *testing.T) {
	m := newManager(&stubGateway{token: "tok-admin"}, newStubStore())

	var events []string
	record := func(tag string) ports.SessionListener {
		return func(u *domain.CurrentUser) {
			if u == nil {
				events = append(events, tag+":out")
				return
			}
			events = append(events, tag+":"+u.ID)
		}
	}
	m.Subscribe(record("a"))
	m.Subscribe(record("b"))

	ctx := context.Background()
	if _, err := m.Login(ctx, "ana@school.test", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	m.Logout(ctx)

	want := []string{"a:u-1", "b:u-1", "a:out", "b:out"}
	if fmt.Sprint(events) != fmt.Sprint(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
}

func TestSessionManager_Subscribe_Unsubscribe(t *testing.T) {
	m := newManager(&stubGateway{token: "tok-admin"}, newStubStore())

	calls := 0
	unsubscribe := m.Subscribe(func(*domain.CurrentUser) { calls++ })
	unsubscribe()
	unsubscribe()

	if _, err := m.Login(context.Background(), "ana@school.test", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("listener called after unsubscribe: %d", calls)
	}
}

func TestSessionManager_Subscribe_SnapshotIsACopy(t *testing.T) {
	m := newManager(&stubGateway{token: "tok-admin"}, newStubStore())
	m.Subscribe(func(u *domain.CurrentUser) {
		if u != nil {
			u.Role = domain.RoleStudent
		}
	})
	if _, err := m.Login(context.Background(), "ana@school.test", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !m.HasRole(domain.RoleAdministrator) {
		t.Fatalf("listener was able to mutate the session")
	}
}

func TestSessionManager_Close(t *testing.T) {
	gw := &stubGateway{token: "tok-admin"}
	m := newManager(gw, newStubStore())
	m.Close()

	if _, err := m.Login(context.Background(), "ana@school.test", "pw"); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway should not be called after Close")
	}
	m.Logout(context.Background())
}
