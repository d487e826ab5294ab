package repositories

import (
	"context"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
)

// UserReader defines read operations for cashier accounts.
type UserReader interface {
	// FindUserByID retrieves a user by its unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriter defines write operations for cashier accounts.
type UserWriter interface {
	// SaveUser inserts a new user.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
