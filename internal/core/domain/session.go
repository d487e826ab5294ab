package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus indicates the state of a cash session.
type SessionStatus string

const (
	SessionOpen SessionStatus = "OPEN"
	// SessionClosed is a degenerate closing outcome kept for rows imported
	// from the legacy system. New closings always carry a count and land on
	// SessionBalanced or SessionShortOrOver.
	SessionClosed      SessionStatus = "CLOSED"
	SessionBalanced    SessionStatus = "BALANCED"
	SessionShortOrOver SessionStatus = "SHORT_OR_OVER"
)

// VarianceTolerance is the absolute tolerance used when classifying a
// closing count: sub-cent variances are treated as balanced to absorb
// rounding from coin denominations.
var VarianceTolerance = decimal.NewFromFloat(0.01)

// CashSession represents one open-to-close operating period for a register.
// Sessions are append-only history; they are mutated by movements and by the
// closing operation but never physically deleted.
type CashSession struct {
	SessionID     string `json:"sessionID"`     // Primary key (UUID)
	RegisterID    string `json:"registerID"`    // FK -> Register
	SessionNumber int64  `json:"sessionNumber"` // Sequential per register

	// Opening
	OpeningAmount decimal.Decimal `json:"openingAmount"`
	OpeningAt     time.Time       `json:"openingAt"`
	OpeningNotes  string          `json:"openingNotes"`
	OpenedBy      string          `json:"openedBy"` // UserID reference

	// Running aggregates, maintained atomically with every movement.
	TotalIngress  decimal.Decimal `json:"totalIngress"`
	TotalEgress   decimal.Decimal `json:"totalEgress"`
	MovementCount int64           `json:"movementCount"`

	// Closing
	Status           SessionStatus    `json:"status"`
	SystemAmount     *decimal.Decimal `json:"systemAmount"`  // Expected balance at close
	CountedAmount    *decimal.Decimal `json:"countedAmount"` // Physically counted at close
	Variance         *decimal.Decimal `json:"variance"`      // counted - system
	ClosingBreakdown *Denomination    `json:"closingBreakdown"`
	ClosingNotes     string           `json:"closingNotes"`
	ClosingAt        *time.Time       `json:"closingAt"`
	ClosedBy         string           `json:"closedBy"` // UserID reference, empty while open

	AuditFields
}

// CurrentBalance returns the system-computed balance of the session:
// opening amount plus total ingress minus total egress. It must always equal
// the new_balance of the session's most recent movement; a mismatch is an
// integrity fault, not a value to repair.
func (s *CashSession) CurrentBalance() decimal.Decimal {
	return s.OpeningAmount.Add(s.TotalIngress).Sub(s.TotalEgress)
}

// IsOpen reports whether the session can still accept movements.
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionOpen
}

// ClassifyVariance maps a closing variance to the resulting session status.
func ClassifyVariance(variance decimal.Decimal) SessionStatus {
	if variance.Abs().LessThan(VarianceTolerance) {
		return SessionBalanced
	}
	return SessionShortOrOver
}
