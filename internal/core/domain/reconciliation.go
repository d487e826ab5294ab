package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationKind identifies the point at which a physical count was taken.
type ReconciliationKind string

const (
	// ReconciliationOpening is recorded when a register is opened with a
	// denomination breakdown of the opening float.
	ReconciliationOpening ReconciliationKind = "OPENING"
	// ReconciliationIntermediate is recorded at replenishments and ad-hoc
	// mid-session counts; it never changes session status.
	ReconciliationIntermediate ReconciliationKind = "INTERMEDIATE"
	// ReconciliationClosing is recorded by, and only by, the closing operation.
	ReconciliationClosing ReconciliationKind = "CLOSING"
)

// Reconciliation (arqueo) is a point-in-time comparison of physically counted
// cash against the system-expected balance. Records are immutable after
// creation; they form the audit trail.
type Reconciliation struct {
	ReconciliationID string `json:"reconciliationID"` // Primary key (UUID)
	SessionID        string `json:"sessionID"`        // FK -> CashSession
	RegisterID       string `json:"registerID"`       // FK -> Register

	Kind ReconciliationKind `json:"kind"`

	SystemAmount  decimal.Decimal `json:"systemAmount"`  // Expected
	CountedAmount decimal.Decimal `json:"countedAmount"` // Physically counted
	Variance      decimal.Decimal `json:"variance"`      // counted - system

	Breakdown Denomination `json:"breakdown"`

	Notes      string    `json:"notes"`
	ActorID    string    `json:"actorID"` // UserID reference
	OccurredAt time.Time `json:"occurredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsBalanced reports whether the variance is within tolerance.
func (r *Reconciliation) IsBalanced() bool {
	return r.Variance.Abs().LessThan(VarianceTolerance)
}
