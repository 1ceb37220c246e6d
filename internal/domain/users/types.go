package users

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateEmail    = errors.New("a user with that email already exists")
	QueryTimeoutDuration = time.Second * 5
)

// Roles a user can hold. Anything else stored in the column is rendered
// as RoleUser by display code.
const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
	RoleSupport = "support"
	RoleUser    = "user"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RolePartner, RoleSupport, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsBlocked bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
