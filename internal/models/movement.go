package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement is the DB shape of one immutable ledger entry.
type Movement struct {
	MovementID string `db:"movement_id"`
	SessionID  string `db:"session_id"`
	RegisterID string `db:"register_id"`

	Kind    string `db:"kind"`
	Concept string `db:"concept"`

	Amount          decimal.Decimal `db:"amount"`
	PreviousBalance decimal.Decimal `db:"previous_balance"`
	NewBalance      decimal.Decimal `db:"new_balance"`

	Description   string `db:"description"`
	ReferenceCode string `db:"reference_code"`

	ActorID    string    `db:"actor_id"`
	OccurredAt time.Time `db:"occurred_at"`
	CreatedAt  time.Time `db:"created_at"`
}
