package models

import "fmt"

// Role is the access level carried in a bearer token.
// The numeric values are the wire codes stored in the token's "role" claim.
type Role int

const (
	// RoleGuest is never issued; it stands for a caller without a valid token.
	RoleGuest    Role = 0
	RoleAdmin    Role = 1
	RoleCustomer Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleCustomer:
		return "customer"
	default:
		return "guest"
	}
}

// ParseRole converts a role claim into a Role. Only issuable roles are accepted.
func ParseRole(code int) (Role, error) {
	switch Role(code) {
	case RoleAdmin, RoleCustomer:
		return Role(code), nil
	default:
		return RoleGuest, fmt.Errorf("unknown role code %d", code)
	}
}

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
}

// HasRole reports whether the identity holds one of the given roles.
// An empty set accepts any authenticated identity.
func (i Identity) HasRole(roles ...Role) bool {
	if len(roles) == 0 {
		return i.Role != RoleGuest
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
