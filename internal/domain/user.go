package domain

import "time"

// Role enumerates account roles. Role is fixed at registration.
type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusPendingConfirmation UserStatus = "pendingConfirmation"
	UserStatusActive              UserStatus = "active"
	UserStatusSuspended           UserStatus = "suspended"
)

// User is the domain model for citizens, municipal employees and admins.
// Accounts are never hard-deleted.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            Role
	Phone           string
	ProfileImageURL *string
	Status          UserStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidRole reports whether the value is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleCitizen, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}
