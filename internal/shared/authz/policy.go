package authz

import (
	"context"
	"strings"

	"bookmarket-backend/internal/shared/apperror"
)

// Role is the stored access tier of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Capability names what a route requires, independent of transport.
type Capability int

const (
	// CapabilityManageCatalog covers librarian work: creating and editing
	// books, fulfilling orders on them.
	CapabilityManageCatalog Capability = iota
	// CapabilityAdmin covers role changes, user listing and destructive
	// catalog operations.
	CapabilityAdmin
)

var allowedRoles = map[Capability][]Role{
	CapabilityManageCatalog: {RoleLibrarian, RoleAdmin},
	CapabilityAdmin:         {RoleAdmin},
}

// RoleLookup resolves the stored role for a verified email. It returns
// apperror.NotFound-kind errors for unknown users.
type RoleLookup func(ctx context.Context, email string) (Role, error)

// Policy is the single authorization decision point: given a bound identity
// and a required capability, allow or deny. It knows nothing about HTTP.
type Policy struct {
	lookup RoleLookup
}

func NewPolicy(lookup RoleLookup) *Policy {
	return &Policy{lookup: lookup}
}

// Allow returns nil when the bound email's stored role grants the
// capability, apperror.Forbidden otherwise. A missing user record denies.
func (p *Policy) Allow(ctx context.Context, email string, cap Capability) error {
	role, err := p.lookup(ctx, email)
	if err != nil {
		return apperror.Forbidden("No account found for this identity")
	}

	for _, allowed := range allowedRoles[cap] {
		if role == allowed {
			return nil
		}
	}

	return apperror.Forbidden("Insufficient role for this operation")
}

// RequireSelf enforces the self-scope rule: a path or body email naming
// whose data is touched must equal the bound identity. Admin-gated routes
// skip this check entirely instead of passing an elevated role through it.
func RequireSelf(boundEmail, targetEmail string) error {
	if !strings.EqualFold(strings.TrimSpace(boundEmail), strings.TrimSpace(targetEmail)) {
		return apperror.Forbidden("You can only access your own data")
	}
	return nil
}
