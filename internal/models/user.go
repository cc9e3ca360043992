// Package models holds the persistent entity types shared by repositories
// and services.
package models

import "time"

// Role is the closed set of user roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account record. Email is stored lower-cased and is unique.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
