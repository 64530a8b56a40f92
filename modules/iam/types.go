package iam

import (
	"time"

	"github.com/google/uuid"
)

// User is an account inside one tenant database. Accounts never span
// tenants; the same person in two communities is two users.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role is a named permission bundle within a tenant.
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Module is a feature area used as the unit of permission granting.
type Module struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ModuleAction is a named operation within a module. The pair renders as
// "Module_Action" in permission checks.
type ModuleAction struct {
	ID       uuid.UUID `json:"id"`
	ModuleID uuid.UUID `json:"module_id"`
	Action   string    `json:"action"`
}

// RoleAssignment links a user to a role.
type RoleAssignment struct {
	UserID    uuid.UUID `json:"user_id"`
	RoleID    uuid.UUID `json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}
