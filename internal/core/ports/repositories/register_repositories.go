package repositories

import (
	"context"
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
)

// RegisterReader defines read operations for register configuration data.
type RegisterReader interface {
	// FindRegisterByID retrieves a register by its unique identifier.
	FindRegisterByID(ctx context.Context, registerID string) (*domain.Register, error)

	// FindRegisterByCode retrieves a register by its short unique code.
	FindRegisterByCode(ctx context.Context, code string) (*domain.Register, error)

	// ListRegisters retrieves all registers, optionally including deactivated ones.
	ListRegisters(ctx context.Context, includeInactive bool) ([]domain.Register, error)
}

// RegisterWriter defines write operations for register configuration data.
// Registers are never deleted, only deactivated.
type RegisterWriter interface {
	// SaveRegister inserts a new register.
	SaveRegister(ctx context.Context, register domain.Register) error

	// UpdateRegister updates the configurable fields of a register
	// (name, description, location, responsible user).
	UpdateRegister(ctx context.Context, register domain.Register) error

	// DeactivateRegister marks a register inactive.
	DeactivateRegister(ctx context.Context, registerID string, updatedBy string, updatedAt time.Time) error
}

// RegisterRepositoryFacade combines all register repository interfaces.
type RegisterRepositoryFacade interface {
	RegisterReader
	RegisterWriter
}
