package services

import (
	"context"
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
	"github.com/shopspring/decimal"
)

// ReconciliationSvcFacade compares counted cash to expected cash and records
// the outcome.
type ReconciliationSvcFacade interface {
	// Count sums a denomination breakdown. Pure; rejects negative counts
	// with ErrValidation.
	Count(breakdown domain.Denomination) (decimal.Decimal, error)

	// Reconcile records an intermediate count against an open session. It
	// never changes session status; closing reconciliations are written by
	// the close operation only.
	Reconcile(ctx context.Context, sessionID string, req dto.ReconcileRequest, actorID string) (*domain.Reconciliation, error)

	// ListBySession retrieves a session's reconciliation records.
	ListBySession(ctx context.Context, sessionID string) ([]domain.Reconciliation, error)

	// ListByRegister retrieves a register's reconciliation records within a
	// date range.
	ListByRegister(ctx context.Context, registerID string, from, to *time.Time, limit int) ([]domain.Reconciliation, error)
}
