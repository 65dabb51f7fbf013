package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the authorization class of a user
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleParent   Role = "PARENT"
	RoleAnalyste Role = "ANALYSTE"
)

// Roles lists every user role
var Roles = []Role{RoleAdmin, RoleStaff, RoleParent, RoleAnalyste}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleParent, RoleAnalyste:
		return true
	}
	return false
}

// IsInternal reports whether the role belongs to foundation personnel
func (r Role) IsInternal() bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleAnalyste
}

// User represents a user entity
type User struct {
	ID           uuid.UUID `json:"id"`
	Nom          string    `json:"nom"`
	Prenom       string    `json:"prenom"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	Telephone    *string   `json:"telephone"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName returns the name shown next to comments and in listings
func (u *User) DisplayName() string {
	switch {
	case u.Prenom == "":
		return u.Nom
	case u.Nom == "":
		return u.Prenom
	}
	return u.Prenom + " " + u.Nom
}

// UserFilter narrows a user listing
type UserFilter struct {
	SearchTerm string
	Role       *Role
}

// RoleCount is the number of users holding one role
type RoleCount struct {
	Role  Role `json:"role"`
	Count int  `json:"count"`
}
