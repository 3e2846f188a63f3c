package domain

import "time"

// Role enumerates the two access levels within a tenant.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the domain model for people who sign in and submit tickets.
// Every user belongs to exactly one tenant, identified by CustomerID.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CustomerID   string
	Role         Role
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}
