package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole separates regular staff from administrators.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is a sales staff account. Authentication itself happens upstream;
// the backend only needs identity for ownership checks and audit stamping.
type User struct {
	ID           uuid.UUID
	OpenID       string
	Name         string
	Email        *string
	LoginMethod  *string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastSignedIn time.Time
}
