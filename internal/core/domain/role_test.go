package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"ADMINISTRATOR", "TEACHER", " STUDENT "} {
		r, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", raw, err)
		}
		if !r.Known() {
			t.Fatalf("ParseRole(%q) returned unknown role %q", raw, r)
		}
	}

	r, err := ParseRole("PRINCIPAL")
	if !errors.Is(err, ErrUnrecognizedRole) {
		t.Fatalf("expected ErrUnrecognizedRole, got %v", err)
	}
	if r != "PRINCIPAL" {
		t.Fatalf("raw tag should be preserved, got %q", r)
	}
	if _, err := ParseRole("administrator"); !errors.Is(err, ErrUnrecognizedRole) {
		t.Fatalf("role tags are case-sensitive, got %v", err)
	}
}

func TestLandingArea(t *testing.T) {
	cases := map[Role]string{
		RoleAdministrator: AreaAdmin,
		RoleTeacher:       AreaTeacher,
		RoleStudent:       AreaStudent,
		Role("GUEST"):     AreaDefault,
		Role(""):          AreaDefault,
	}
	for role, want := range cases {
		if got := LandingArea(role); got != want {
			t.Fatalf("LandingArea(%q) = %s, want %s", role, got, want)
		}
	}
}

func TestCurrentUser_HasRole(t *testing.T) {
	u := CurrentUser{ID: "1", Role: RoleTeacher}
	if !u.HasRole(RoleTeacher) || u.HasRole(RoleAdministrator) {
		t.Fatalf("unexpected HasRole results for %+v", u)
	}

	odd := CurrentUser{ID: "2", Role: Role("JANITOR")}
	if odd.HasRole(Role("JANITOR")) {
		t.Fatalf("unknown roles must never match")
	}
}
