package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind identifies the cash-affecting event a movement records.
type MovementKind string

const (
	MovementOpening         MovementKind = "OPENING"
	MovementReplenishmentIn MovementKind = "REPLENISHMENT_IN"
	MovementTransferIn      MovementKind = "TRANSFER_IN"
	MovementTransferOut     MovementKind = "TRANSFER_OUT"
	MovementInterestPayment MovementKind = "INTEREST_PAYMENT"
	MovementLoanDisburse    MovementKind = "LOAN_DISBURSEMENT"
	MovementExpensePayment  MovementKind = "EXPENSE_PAYMENT"
	MovementOtherIncome     MovementKind = "OTHER_INCOME"
	MovementClosing         MovementKind = "CLOSING"
)

// MovementDirection is the sign a movement kind applies to the running balance.
type MovementDirection string

const (
	Ingress MovementDirection = "INGRESS"
	Egress  MovementDirection = "EGRESS"
)

// movementDirections is the closed set of valid kinds and their directions.
var movementDirections = map[MovementKind]MovementDirection{
	MovementOpening:         Ingress,
	MovementReplenishmentIn: Ingress,
	MovementTransferIn:      Ingress,
	MovementInterestPayment: Ingress,
	MovementOtherIncome:     Ingress,
	MovementTransferOut:     Egress,
	MovementLoanDisburse:    Egress,
	MovementExpensePayment:  Egress,
	MovementClosing:         Egress,
}

// lifecycleKinds are written only by their owning operation (open, close,
// transfer), never through the generic append path.
var lifecycleKinds = map[MovementKind]bool{
	MovementOpening:     true,
	MovementClosing:     true,
	MovementTransferIn:  true,
	MovementTransferOut: true,
}

// Direction returns the balance direction of the kind, or an error for an
// unknown kind.
func (k MovementKind) Direction() (MovementDirection, error) {
	dir, ok := movementDirections[k]
	if !ok {
		return "", fmt.Errorf("unknown movement kind %q", k)
	}
	return dir, nil
}

// IsLifecycle reports whether the kind is reserved to a lifecycle operation.
func (k MovementKind) IsLifecycle() bool {
	return lifecycleKinds[k]
}

// Movement is one immutable ledger entry against a session's running balance.
// Movements are never updated or deleted after creation.
type Movement struct {
	MovementID string `json:"movementID"` // Primary key (UUID)
	SessionID  string `json:"sessionID"`  // FK -> CashSession
	RegisterID string `json:"registerID"` // FK -> Register, denormalized for history views

	Kind    MovementKind `json:"kind"`
	Concept string       `json:"concept"` // Short label, e.g. "interest_payment"

	Amount          decimal.Decimal `json:"amount"`          // Non-negative; zero only for opening/closing an empty till
	PreviousBalance decimal.Decimal `json:"previousBalance"` // Balance before this movement
	NewBalance      decimal.Decimal `json:"newBalance"`      // Balance after this movement

	Description   string `json:"description"`   // Free text, nullable
	ReferenceCode string `json:"referenceCode"` // Correlates paired transfer legs, nullable

	ActorID    string    `json:"actorID"` // UserID reference
	OccurredAt time.Time `json:"occurredAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ApplyTo computes the balance after applying amount in the kind's direction
// to previous. Used by the repository when chaining balances under lock.
func (k MovementKind) ApplyTo(previous, amount decimal.Decimal) (decimal.Decimal, error) {
	dir, err := k.Direction()
	if err != nil {
		return decimal.Zero, err
	}
	if dir == Ingress {
		return previous.Add(amount), nil
	}
	return previous.Sub(amount), nil
}

// VerifyLink checks the chain invariant between a movement and its
// predecessor's closing balance.
func (m *Movement) VerifyLink(previousNewBalance decimal.Decimal) error {
	if !m.PreviousBalance.Equal(previousNewBalance) {
		return fmt.Errorf("movement %s: previous_balance %s does not match prior new_balance %s",
			m.MovementID, m.PreviousBalance.StringFixed(2), previousNewBalance.StringFixed(2))
	}
	expected, err := m.Kind.ApplyTo(m.PreviousBalance, m.Amount)
	if err != nil {
		return err
	}
	if !m.NewBalance.Equal(expected) {
		return fmt.Errorf("movement %s: new_balance %s does not equal previous_balance %s %s amount %s",
			m.MovementID, m.NewBalance.StringFixed(2), m.PreviousBalance.StringFixed(2),
			signWord(m.Kind), m.Amount.StringFixed(2))
	}
	return nil
}

func signWord(k MovementKind) string {
	dir, err := k.Direction()
	if err != nil || dir == Ingress {
		return "plus"
	}
	return "minus"
}
