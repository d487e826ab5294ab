package mapping

import (
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/models"
)

// ToModelReconciliation converts a domain Reconciliation to its DB shape,
// flattening the denomination breakdown into the eleven count columns.
func ToModelReconciliation(d domain.Reconciliation) models.Reconciliation {
	return models.Reconciliation{
		ReconciliationID: d.ReconciliationID,
		SessionID:        d.SessionID,
		RegisterID:       d.RegisterID,
		Kind:             string(d.Kind),
		SystemAmount:     d.SystemAmount,
		CountedAmount:    d.CountedAmount,
		Variance:         d.Variance,
		Bills200:         d.Breakdown.Bills200,
		Bills100:         d.Breakdown.Bills100,
		Bills50:          d.Breakdown.Bills50,
		Bills20:          d.Breakdown.Bills20,
		Bills10:          d.Breakdown.Bills10,
		Coins5:           d.Breakdown.Coins5,
		Coins2:           d.Breakdown.Coins2,
		Coins1:           d.Breakdown.Coins1,
		Coins050:         d.Breakdown.Coins050,
		Coins020:         d.Breakdown.Coins020,
		Coins010:         d.Breakdown.Coins010,
		Notes:            d.Notes,
		ActorID:          d.ActorID,
		OccurredAt:       d.OccurredAt,
		CreatedAt:        d.CreatedAt,
	}
}

// ToDomainReconciliation converts a DB Reconciliation row to the domain shape.
func ToDomainReconciliation(m models.Reconciliation) domain.Reconciliation {
	return domain.Reconciliation{
		ReconciliationID: m.ReconciliationID,
		SessionID:        m.SessionID,
		RegisterID:       m.RegisterID,
		Kind:             domain.ReconciliationKind(m.Kind),
		SystemAmount:     m.SystemAmount,
		CountedAmount:    m.CountedAmount,
		Variance:         m.Variance,
		Breakdown: domain.Denomination{
			Bills200: m.Bills200,
			Bills100: m.Bills100,
			Bills50:  m.Bills50,
			Bills20:  m.Bills20,
			Bills10:  m.Bills10,
			Coins5:   m.Coins5,
			Coins2:   m.Coins2,
			Coins1:   m.Coins1,
			Coins050: m.Coins050,
			Coins020: m.Coins020,
			Coins010: m.Coins010,
		},
		Notes:      m.Notes,
		ActorID:    m.ActorID,
		OccurredAt: m.OccurredAt,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainReconciliationSlice converts a slice of DB Reconciliation rows.
func ToDomainReconciliationSlice(ms []models.Reconciliation) []domain.Reconciliation {
	out := make([]domain.Reconciliation, len(ms))
	for i, m := range ms {
		out[i] = ToDomainReconciliation(m)
	}
	return out
}
