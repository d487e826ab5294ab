package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus indicates the state of a cash session row.
type SessionStatus string

const (
	SessionOpen        SessionStatus = "OPEN"
	SessionClosed      SessionStatus = "CLOSED"
	SessionBalanced    SessionStatus = "BALANCED"
	SessionShortOrOver SessionStatus = "SHORT_OR_OVER"
)

// CashSession is the DB shape of one operating period of a register.
// The closing breakdown is stored as JSONB.
type CashSession struct {
	SessionID     string `db:"session_id"`
	RegisterID    string `db:"register_id"`
	SessionNumber int64  `db:"session_number"`

	OpeningAmount decimal.Decimal `db:"opening_amount"`
	OpeningAt     time.Time       `db:"opening_at"`
	OpeningNotes  string          `db:"opening_notes"`
	OpenedBy      string          `db:"opened_by"`

	TotalIngress  decimal.Decimal `db:"total_ingress"`
	TotalEgress   decimal.Decimal `db:"total_egress"`
	MovementCount int64           `db:"movement_count"`

	Status           SessionStatus    `db:"status"`
	SystemAmount     *decimal.Decimal `db:"system_amount"`
	CountedAmount    *decimal.Decimal `db:"counted_amount"`
	Variance         *decimal.Decimal `db:"variance"`
	ClosingBreakdown []byte           `db:"closing_breakdown"` // JSONB, nullable
	ClosingNotes     string           `db:"closing_notes"`
	ClosingAt        *time.Time       `db:"closing_at"`
	ClosedBy         string           `db:"closed_by"`

	AuditFields
}
