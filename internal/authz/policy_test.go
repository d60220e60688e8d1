package authz

import (
	"errors"
	"testing"

	"github.com/vedran77/jobly/internal/domain"
)

var (
	admin = &domain.Principal{Username: "u1", IsAdmin: true}
	user2 = &domain.Principal{Username: "u2"}
)

func TestCheckPublicAllowsEveryone(t *testing.T) {
	for _, p := range []*domain.Principal{nil, admin, user2} {
		if err := Check(p, Public, ""); err != nil {
			t.Fatalf("public denied for %+v: %v", p, err)
		}
	}
}

func TestCheckAdminOnly(t *testing.T) {
	if err := Check(admin, AdminOnly, ""); err != nil {
		t.Fatalf("admin denied: %v", err)
	}
	if err := Check(user2, AdminOnly, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := Check(nil, AdminOnly, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

// SelfOrAdmin allows iff the principal is an admin or names the target.
func TestCheckSelfOrAdminTruthTable(t *testing.T) {
	principals := []*domain.Principal{
		{Username: "u1", IsAdmin: true},
		{Username: "u1", IsAdmin: false},
		{Username: "u2", IsAdmin: true},
		{Username: "u2", IsAdmin: false},
		{Username: "", IsAdmin: false},
	}
	targets := []string{"u1", "u2", "u3", ""}

	for _, p := range principals {
		for _, target := range targets {
			want := p.IsAdmin || (p.Username != "" && p.Username == target)
			err := Check(p, SelfOrAdmin, target)
			if got := err == nil; got != want {
				t.Errorf("Check(%+v, SelfOrAdmin, %q) allowed=%v, want %v", *p, target, got, want)
			}
			if err != nil && !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("Check(%+v, SelfOrAdmin, %q) = %v, want ErrUnauthorized", *p, target, err)
			}
		}
	}
}

func TestCheckSelfOrAdminAnonymous(t *testing.T) {
	if err := RequireSelfOrAdmin(nil, "u2"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCheckUnknownClassDenies(t *testing.T) {
	if err := Check(user2, Class(42), "u2"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
