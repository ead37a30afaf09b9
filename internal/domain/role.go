package domain

import "fmt"

// Role is the closed set of user roles. Keeping it a distinct type rather
// than a free-form string makes invalid-role states unrepresentable.
type Role string

const (
	// RoleOperations may upload files only.
	RoleOperations Role = "operations"
	// RoleClient may list and download files only.
	RoleClient Role = "client"
)

// ParseRole converts a string (e.g. a JWT claim) into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOperations, RoleClient:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, ErrBadRequest)
}
