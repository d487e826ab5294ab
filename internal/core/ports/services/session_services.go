package services

import (
	"context"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
	"github.com/shopspring/decimal"
)

// SessionSvcFacade is the only authority allowed to transition a register's
// session state.
type SessionSvcFacade interface {
	// OpenSession opens a register with an opening float. Fails with
	// ErrConflict when the register already has an open session and with
	// ErrValidation when the opening amount is negative or disagrees with
	// the counted breakdown.
	OpenSession(ctx context.Context, registerID string, req dto.OpenSessionRequest, actorID string) (*domain.CashSession, error)

	// GetSessionByID retrieves one session.
	GetSessionByID(ctx context.Context, sessionID string) (*domain.CashSession, error)

	// GetCurrentSession retrieves the open session of a register, or
	// ErrNotFound when the register is closed.
	GetCurrentSession(ctx context.Context, registerID string) (*domain.CashSession, error)

	// CurrentBalance returns the system-computed balance of a session,
	// cross-checked against the last movement's closing balance. A mismatch
	// is surfaced as ErrIntegrity.
	CurrentBalance(ctx context.Context, sessionID string) (decimal.Decimal, error)

	// CloseSession closes an open session against a counted breakdown and
	// classifies the outcome as balanced or short-or-over.
	CloseSession(ctx context.Context, sessionID string, req dto.CloseSessionRequest, actorID string) (*domain.CashSession, error)

	// ReplenishSession records a mid-session cash injection with its
	// intermediate reconciliation.
	ReplenishSession(ctx context.Context, sessionID string, req dto.ReplenishSessionRequest, actorID string) (*domain.Movement, *domain.Reconciliation, error)

	// ListSessionsByRegister retrieves a register's paginated session history.
	ListSessionsByRegister(ctx context.Context, registerID string, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error)
}
