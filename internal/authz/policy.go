// Package authz decides whether a principal may perform a class of
// operation. Decisions are pure functions of their arguments.
package authz

import "github.com/vedran77/jobly/internal/domain"

// Class is the authorization requirement attached to an operation.
type Class int

const (
	Public Class = iota
	AdminOnly
	SelfOrAdmin
)

func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case AdminOnly:
		return "admin-only"
	case SelfOrAdmin:
		return "self-or-admin"
	default:
		return "unknown"
	}
}

// Check returns nil when p may perform an operation of class c on the
// resource owned by target. target is only consulted for SelfOrAdmin.
//
// A nil principal yields domain.ErrUnauthenticated for every non-public
// class; an authenticated but insufficient one yields
// domain.ErrUnauthorized.
func Check(p *domain.Principal, c Class, target string) error {
	if c == Public {
		return nil
	}
	if p == nil {
		return domain.ErrUnauthenticated
	}

	switch c {
	case AdminOnly:
		if p.IsAdmin {
			return nil
		}
	case SelfOrAdmin:
		if p.IsAdmin || (p.Username != "" && p.Username == target) {
			return nil
		}
	}
	return domain.ErrUnauthorized
}

func RequireAdmin(p *domain.Principal) error {
	return Check(p, AdminOnly, "")
}

func RequireSelfOrAdmin(p *domain.Principal, username string) error {
	return Check(p, SelfOrAdmin, username)
}
