package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/models"
)

// ToModelCashSession converts a domain CashSession to its DB shape. The
// closing breakdown is serialized to JSON for the JSONB column.
func ToModelCashSession(d domain.CashSession) (models.CashSession, error) {
	m := models.CashSession{
		SessionID:     d.SessionID,
		RegisterID:    d.RegisterID,
		SessionNumber: d.SessionNumber,
		OpeningAmount: d.OpeningAmount,
		OpeningAt:     d.OpeningAt,
		OpeningNotes:  d.OpeningNotes,
		OpenedBy:      d.OpenedBy,
		TotalIngress:  d.TotalIngress,
		TotalEgress:   d.TotalEgress,
		MovementCount: d.MovementCount,
		Status:        models.SessionStatus(d.Status),
		SystemAmount:  d.SystemAmount,
		CountedAmount: d.CountedAmount,
		Variance:      d.Variance,
		ClosingNotes:  d.ClosingNotes,
		ClosingAt:     d.ClosingAt,
		ClosedBy:      d.ClosedBy,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.ClosingBreakdown != nil {
		raw, err := json.Marshal(d.ClosingBreakdown)
		if err != nil {
			return models.CashSession{}, fmt.Errorf("failed to marshal closing breakdown for session %s: %w", d.SessionID, err)
		}
		m.ClosingBreakdown = raw
	}
	return m, nil
}

// ToDomainCashSession converts a DB CashSession row to the domain shape.
func ToDomainCashSession(m models.CashSession) (domain.CashSession, error) {
	d := domain.CashSession{
		SessionID:     m.SessionID,
		RegisterID:    m.RegisterID,
		SessionNumber: m.SessionNumber,
		OpeningAmount: m.OpeningAmount,
		OpeningAt:     m.OpeningAt,
		OpeningNotes:  m.OpeningNotes,
		OpenedBy:      m.OpenedBy,
		TotalIngress:  m.TotalIngress,
		TotalEgress:   m.TotalEgress,
		MovementCount: m.MovementCount,
		Status:        domain.SessionStatus(m.Status),
		SystemAmount:  m.SystemAmount,
		CountedAmount: m.CountedAmount,
		Variance:      m.Variance,
		ClosingNotes:  m.ClosingNotes,
		ClosingAt:     m.ClosingAt,
		ClosedBy:      m.ClosedBy,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if len(m.ClosingBreakdown) > 0 {
		var breakdown domain.Denomination
		if err := json.Unmarshal(m.ClosingBreakdown, &breakdown); err != nil {
			return domain.CashSession{}, fmt.Errorf("failed to unmarshal closing breakdown for session %s: %w", m.SessionID, err)
		}
		d.ClosingBreakdown = &breakdown
	}
	return d, nil
}
