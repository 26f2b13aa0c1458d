package domain

import "time"

// Role is the closed set of roles the permission table knows about. Anything
// else fails validation at the edge and never reaches the services.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleHRManager Role = "hr_manager"
	RoleEmployee  Role = "employee"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHRManager, RoleEmployee:
		return true
	}
	return false
}

// Level returns the role's position in the total order used for
// role-assignment gating: employee(1) < hr_manager(2) < admin(3).
// Unknown roles rank below everything.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleHRManager:
		return 2
	case RoleEmployee:
		return 1
	}
	return 0
}

type User struct {
	ID                  int64      `db:"id"`
	ExternalID          string     `db:"external_id"`
	Email               string     `db:"email"`
	FirstName           string     `db:"first_name"`
	LastName            string     `db:"last_name"`
	HashedPassword      string     `db:"hashed_password"`
	Role                Role       `db:"role"`
	Department          string     `db:"department"`
	EmailVerified       bool       `db:"email_verified"`
	IsActive            bool       `db:"is_active"`
	FailedLoginAttempts int        `db:"failed_login_attempts"`
	LockedUntil         *time.Time `db:"locked_until"`
	LastLoginAt         *time.Time `db:"last_login_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}

// Locked reports whether the account is inside a lockout window at now.
func (u User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
