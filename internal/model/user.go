package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the account kind chosen at registration.  It is immutable after
// the user row is created and decides which profile store a user may
// write to.  The set is closed: every switch over Role in this module
// lists RoleArtist, RoleOrganizer and RoleAdmin explicitly.
type Role string

const (
	RoleArtist    Role = "artist"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role in a stable order.
var Roles = []Role{RoleArtist, RoleOrganizer, RoleAdmin}

// ParseRole converts a raw role name (case-insensitive) into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleArtist:
		return RoleArtist, nil
	case RoleOrganizer:
		return RoleOrganizer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents an account record as stored in the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password, never serialized.
//  Phone        – optional contact phone.
//  Role         – account role, fixed at registration.
//  IsActive     – whether the account may call authenticated endpoints.
//  CreatedAt    – timestamp of creation.
//  LastLogin    – timestamp of the last successful authentication.
type User struct {
	ID           uint64     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        *string    `json:"phone"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Identity is the authenticated caller for the duration of one request.
type Identity struct {
	UserID   uint64
	Email    string
	Role     Role
	IsActive bool
}

// IdentityOf projects a user row onto the request identity.
func IdentityOf(u User) Identity {
	return Identity{UserID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive}
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
