// Package identity models the acting user and the role that gates operations.
package identity

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("identity: authentication required")
	ErrForbidden          = errors.New("identity: admin role required")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the acting principal. ID is the user's email address.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (i Identity) IsZero() bool { return i.ID == "" }

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// RequireUser fails when no one is signed in.
func RequireUser(i Identity) error {
	if i.IsZero() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireAdmin fails unless the identity carries the admin role.
func RequireAdmin(i Identity) error {
	if err := RequireUser(i); err != nil {
		return err
	}
	if !i.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// FromEmail derives an identity the way the portal's mock login does:
// the address must belong to domain and any address containing "admin" is an administrator.
func FromEmail(email, domain string) (Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.HasSuffix(email, strings.ToLower(domain)) || len(email) == len(domain) {
		return Identity{}, ErrInvalidCredentials
	}
	role := RoleUser
	if strings.Contains(email, "admin") {
		role = RoleAdmin
	}
	return Identity{ID: email, Role: role}, nil
}
