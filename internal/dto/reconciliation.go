package dto

import (
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconcileRequest defines the payload for an intermediate reconciliation
// (ad-hoc mid-session count). Closing reconciliations are created by the
// close operation only.
type ReconcileRequest struct {
	Breakdown DenominationBreakdown `json:"breakdown" binding:"required"`
	Notes     string                `json:"notes"`
}

// ReconciliationResponse defines the data returned for a reconciliation record.
type ReconciliationResponse struct {
	ReconciliationID string                `json:"reconciliationID"`
	SessionID        string                `json:"sessionID"`
	RegisterID       string                `json:"registerID"`
	Kind             string                `json:"kind"`
	SystemAmount     decimal.Decimal       `json:"systemAmount"`
	CountedAmount    decimal.Decimal       `json:"countedAmount"`
	Variance         decimal.Decimal       `json:"variance"`
	Balanced         bool                  `json:"balanced"`
	Breakdown        DenominationBreakdown `json:"breakdown"`
	Notes            string                `json:"notes,omitempty"`
	ActorID          string                `json:"actorID"`
	OccurredAt       time.Time             `json:"occurredAt"`
}

// ToReconciliationResponse converts a domain.Reconciliation to its response DTO.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ReconciliationID: r.ReconciliationID,
		SessionID:        r.SessionID,
		RegisterID:       r.RegisterID,
		Kind:             string(r.Kind),
		SystemAmount:     r.SystemAmount,
		CountedAmount:    r.CountedAmount,
		Variance:         r.Variance,
		Balanced:         r.IsBalanced(),
		Breakdown:        FromDomainDenomination(r.Breakdown),
		Notes:            r.Notes,
		ActorID:          r.ActorID,
		OccurredAt:       r.OccurredAt,
	}
}

// ToReconciliationResponses converts a slice of reconciliation records.
func ToReconciliationResponses(rs []domain.Reconciliation) []ReconciliationResponse {
	out := make([]ReconciliationResponse, len(rs))
	for i := range rs {
		out[i] = ToReconciliationResponse(&rs[i])
	}
	return out
}
