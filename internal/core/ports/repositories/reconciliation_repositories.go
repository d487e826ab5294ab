package repositories

import (
	"context"
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
)

// ReconciliationReader defines read operations over the reconciliation audit trail.
type ReconciliationReader interface {
	// FindReconciliationByID retrieves one reconciliation record.
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)

	// ListReconciliationsBySession retrieves a session's reconciliation
	// records ordered by occurrence time ascending.
	ListReconciliationsBySession(ctx context.Context, sessionID string) ([]domain.Reconciliation, error)

	// ListReconciliationsByRegister retrieves a register's reconciliation
	// records within a date range, newest first.
	ListReconciliationsByRegister(ctx context.Context, registerID string, from, to *time.Time, limit int) ([]domain.Reconciliation, error)
}

// ReconciliationWriter persists reconciliation records. Records are immutable
// after creation; there is no update and no delete.
type ReconciliationWriter interface {
	// SaveReconciliation inserts a reconciliation record.
	SaveReconciliation(ctx context.Context, record domain.Reconciliation) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
