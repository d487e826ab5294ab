package mapping

import (
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/models"
)

// ToModelMovement converts a domain Movement to its DB shape.
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:      d.MovementID,
		SessionID:       d.SessionID,
		RegisterID:      d.RegisterID,
		Kind:            string(d.Kind),
		Concept:         d.Concept,
		Amount:          d.Amount,
		PreviousBalance: d.PreviousBalance,
		NewBalance:      d.NewBalance,
		Description:     d.Description,
		ReferenceCode:   d.ReferenceCode,
		ActorID:         d.ActorID,
		OccurredAt:      d.OccurredAt,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainMovement converts a DB Movement row to the domain shape.
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:      m.MovementID,
		SessionID:       m.SessionID,
		RegisterID:      m.RegisterID,
		Kind:            domain.MovementKind(m.Kind),
		Concept:         m.Concept,
		Amount:          m.Amount,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		Description:     m.Description,
		ReferenceCode:   m.ReferenceCode,
		ActorID:         m.ActorID,
		OccurredAt:      m.OccurredAt,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainMovementSlice converts a slice of DB Movement rows.
func ToDomainMovementSlice(ms []models.Movement) []domain.Movement {
	out := make([]domain.Movement, len(ms))
	for i, m := range ms {
		out[i] = ToDomainMovement(m)
	}
	return out
}
