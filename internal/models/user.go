package models

import "time"

// UserRole is the closed set of roles a site account can hold.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// User represents an account stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity is the caller resolved from the session. The zero value is anonymous.
type Identity struct {
	UserID   string
	Username string
	Role     UserRole
}

// Anonymous reports whether no user is signed in.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// IsAdmin reports whether the caller is a signed-in admin.
func (i Identity) IsAdmin() bool {
	return !i.Anonymous() && i.Role == RoleAdmin
}

// RoleAction is an admin request to change another account's role.
type RoleAction string

const (
	RoleActionPromote RoleAction = "promote"
	RoleActionDemote  RoleAction = "demote"
)

// TargetRole maps an action to the resulting role.
func (a RoleAction) TargetRole() (UserRole, bool) {
	switch a {
	case RoleActionPromote:
		return RoleAdmin, true
	case RoleActionDemote:
		return RoleStudent, true
	default:
		return "", false
	}
}
