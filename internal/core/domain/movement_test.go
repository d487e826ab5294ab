package domain_test

import (
	"testing"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMovementKind_Direction(t *testing.T) {
	tests := []struct {
		kind domain.MovementKind
		want domain.MovementDirection
	}{
		{domain.MovementOpening, domain.Ingress},
		{domain.MovementReplenishmentIn, domain.Ingress},
		{domain.MovementTransferIn, domain.Ingress},
		{domain.MovementInterestPayment, domain.Ingress},
		{domain.MovementOtherIncome, domain.Ingress},
		{domain.MovementTransferOut, domain.Egress},
		{domain.MovementLoanDisburse, domain.Egress},
		{domain.MovementExpensePayment, domain.Egress},
		{domain.MovementClosing, domain.Egress},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			dir, err := tt.kind.Direction()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, dir)
		})
	}

	_, err := domain.MovementKind("BOGUS").Direction()
	assert.Error(t, err)
}

func TestMovementKind_ApplyTo(t *testing.T) {
	prev := decimal.NewFromInt(500)

	got, err := domain.MovementInterestPayment.ApplyTo(prev, decimal.NewFromInt(80))
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(580)))

	got, err = domain.MovementLoanDisburse.ApplyTo(got, decimal.NewFromInt(300))
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(280)))
}

func TestMovement_VerifyLink(t *testing.T) {
	m := domain.Movement{
		MovementID:      "m2",
		Kind:            domain.MovementInterestPayment,
		Amount:          decimal.NewFromInt(80),
		PreviousBalance: decimal.NewFromInt(500),
		NewBalance:      decimal.NewFromInt(580),
	}

	assert.NoError(t, m.VerifyLink(decimal.NewFromInt(500)))

	// Broken chain: predecessor closed at a different balance.
	err := m.VerifyLink(decimal.NewFromInt(490))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "previous_balance")

	// Broken arithmetic inside the movement itself.
	m.NewBalance = decimal.NewFromInt(579)
	err = m.VerifyLink(decimal.NewFromInt(500))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "new_balance")
}

func TestClassifyVariance(t *testing.T) {
	assert.Equal(t, domain.SessionBalanced, domain.ClassifyVariance(decimal.Zero))
	assert.Equal(t, domain.SessionBalanced, domain.ClassifyVariance(decimal.NewFromFloat(0.004)))
	assert.Equal(t, domain.SessionBalanced, domain.ClassifyVariance(decimal.NewFromFloat(-0.009)))
	assert.Equal(t, domain.SessionShortOrOver, domain.ClassifyVariance(decimal.NewFromFloat(0.01)))
	assert.Equal(t, domain.SessionShortOrOver, domain.ClassifyVariance(decimal.NewFromInt(-5)))
}

func TestCashSession_CurrentBalance(t *testing.T) {
	s := domain.CashSession{
		OpeningAmount: decimal.NewFromInt(500),
		TotalIngress:  decimal.NewFromInt(80),
		TotalEgress:   decimal.NewFromInt(300),
	}
	assert.True(t, s.CurrentBalance().Equal(decimal.NewFromInt(280)))
}
