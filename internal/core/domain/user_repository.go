package domain

import (
	"context"
	"time"
)

// UserRow represents a user record returned from the store.
// It includes the password hash so the Logic layer can verify credentials.
type UserRow struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ToUser strips the password hash.
func (r *UserRow) ToUser() User {
	return User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on a driver directly.
type UserRepository interface {
	// GetByEmail returns the user with the given email, including the password hash.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id string) (*UserRow, error)

	// ExistsByEmail returns true when a user with the given email already exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new user. Returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *UserRow) error
}
