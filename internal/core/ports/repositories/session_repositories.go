package repositories

import (
	"context"
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CloseSessionParams carries the operator-supplied closing data. The system
// amount, variance, and resulting status are computed by the repository under
// the session row lock so concurrent movements cannot slip between the read
// and the close.
type CloseSessionParams struct {
	SessionID string
	Breakdown domain.Denomination
	Notes     string
	ActorID   string
	Now       time.Time
}

// ReplenishSessionParams carries a replenishment: the counted breakdown being
// added to the till, and optionally the amount the replenishment was declared
// as (vault slip, transfer order). When DeclaredAmount is nil the counted
// total is taken as declared and the intermediate reconciliation records a
// zero variance.
type ReplenishSessionParams struct {
	SessionID      string
	Breakdown      domain.Denomination
	DeclaredAmount *decimal.Decimal
	Concept        string
	Notes          string
	ActorID        string
	Now            time.Time
}

// SessionReader defines read operations for session data.
type SessionReader interface {
	// FindSessionByID retrieves a session by its unique identifier.
	FindSessionByID(ctx context.Context, sessionID string) (*domain.CashSession, error)

	// FindOpenSessionByRegister retrieves the register's current open session,
	// or ErrNotFound when the register is closed.
	FindOpenSessionByRegister(ctx context.Context, registerID string) (*domain.CashSession, error)

	// ListSessionsByRegister retrieves a paginated session history for a
	// register, newest first, using token-based pagination.
	ListSessionsByRegister(ctx context.Context, registerID string, limit int, nextToken *string) ([]domain.CashSession, *string, error)
}

// SessionWriter defines the lifecycle transitions of a session. Every method
// executes as a single database transaction.
type SessionWriter interface {
	// OpenSession creates a session for the register, assigns the next
	// sequential session number, appends the opening movement, records the
	// opening reconciliation when a breakdown was counted, and marks the
	// register open. Fails with ErrConflict if the register already has an
	// open session.
	OpenSession(ctx context.Context, session domain.CashSession, openingCount *domain.Reconciliation) (*domain.CashSession, error)

	// CloseSession closes an open session: verifies the balance chain,
	// persists the closing reconciliation, appends the closing movement that
	// empties the till, stamps the closing fields, and marks the register
	// closed. Fails with ErrState if the session is not open.
	CloseSession(ctx context.Context, params CloseSessionParams) (*domain.CashSession, error)

	// ReplenishSession appends a replenishment_in movement for the counted
	// total and persists the intermediate reconciliation, atomically.
	ReplenishSession(ctx context.Context, params ReplenishSessionParams) (*domain.Movement, *domain.Reconciliation, error)
}

// SessionRepositoryFacade combines all session repository interfaces.
type SessionRepositoryFacade interface {
	SessionReader
	SessionWriter
}
