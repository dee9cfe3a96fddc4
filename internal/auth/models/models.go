package models

import "github.com/google/uuid"

// Role names a user's capability level. Unknown requested roles fall back to
// RoleVerifier at registration time.
type Role string

const (
	RoleVerifier  Role = "verifier"
	RoleRegistrar Role = "registrar"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one a user may hold.
func (r Role) Valid() bool {
	switch r {
	case RoleVerifier, RoleRegistrar, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account. PasswordHash and SecretWordHash are bcrypt
// hashes; the plaintexts are never stored. Email and InstitutionDomain are
// only set for registrars.
type User struct {
	ID                uuid.UUID
	Username          string
	PasswordHash      string
	Role              Role
	SecretWordHash    string
	Email             string
	InstitutionDomain string
}
