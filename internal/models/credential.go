package models

import "time"

const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleTrainer    = "Trainer"
	RoleStudent    = "Student"

	StatusActive = "active"
)

// RoleCredential is a staff login. Students authenticate against their
// student record instead.
type RoleCredential struct {
	ID               string     `json:"id" db:"id"`
	Username         string     `json:"username" db:"username"`
	PasswordHash     string     `json:"-" db:"password"`
	OriginalPassword string     `json:"original_password,omitempty" db:"original_password"`
	Name             string     `json:"name" db:"name"`
	Email            string     `json:"email" db:"email"`
	Role             string     `json:"role" db:"role"`
	Status           string     `json:"status" db:"status"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

func IsStaffRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleTrainer:
		return true
	}
	return false
}
