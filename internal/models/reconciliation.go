package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation is the DB shape of a physical count record (arqueo). The
// eleven denomination counts are individual columns, mirroring the legacy
// schema, so audit queries can aggregate by face value.
type Reconciliation struct {
	ReconciliationID string `db:"reconciliation_id"`
	SessionID        string `db:"session_id"`
	RegisterID       string `db:"register_id"`

	Kind string `db:"kind"`

	SystemAmount  decimal.Decimal `db:"system_amount"`
	CountedAmount decimal.Decimal `db:"counted_amount"`
	Variance      decimal.Decimal `db:"variance"`

	Bills200 int64 `db:"bills_200"`
	Bills100 int64 `db:"bills_100"`
	Bills50  int64 `db:"bills_50"`
	Bills20  int64 `db:"bills_20"`
	Bills10  int64 `db:"bills_10"`
	Coins5   int64 `db:"coins_5"`
	Coins2   int64 `db:"coins_2"`
	Coins1   int64 `db:"coins_1"`
	Coins050 int64 `db:"coins_050"`
	Coins020 int64 `db:"coins_020"`
	Coins010 int64 `db:"coins_010"`

	Notes      string    `db:"notes"`
	ActorID    string    `db:"actor_id"`
	OccurredAt time.Time `db:"occurred_at"`
	CreatedAt  time.Time `db:"created_at"`
}
