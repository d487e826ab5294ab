package dto

import (
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AppendMovementRequest defines the payload for recording a cash movement
// against an open session. Lifecycle kinds (opening, closing, transfers) are
// rejected here; they are written only by their owning operations.
type AppendMovementRequest struct {
	Kind          string          `json:"kind" binding:"required,movementkind"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Concept       string          `json:"concept" binding:"required,max=100"`
	Description   string          `json:"description"`
	ReferenceCode string          `json:"referenceCode"`
}

// MovementResponse defines the data returned for a ledger entry.
type MovementResponse struct {
	MovementID      string          `json:"movementID"`
	SessionID       string          `json:"sessionID"`
	RegisterID      string          `json:"registerID"`
	Kind            string          `json:"kind"`
	Concept         string          `json:"concept"`
	Amount          decimal.Decimal `json:"amount"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	Description     string          `json:"description,omitempty"`
	ReferenceCode   string          `json:"referenceCode,omitempty"`
	ActorID         string          `json:"actorID"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

// ToMovementResponse converts a domain.Movement to its response DTO.
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:      m.MovementID,
		SessionID:       m.SessionID,
		RegisterID:      m.RegisterID,
		Kind:            string(m.Kind),
		Concept:         m.Concept,
		Amount:          m.Amount,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		Description:     m.Description,
		ReferenceCode:   m.ReferenceCode,
		ActorID:         m.ActorID,
		OccurredAt:      m.OccurredAt,
	}
}

// ToMovementResponses converts a slice of movements.
func ToMovementResponses(ms []domain.Movement) []MovementResponse {
	out := make([]MovementResponse, len(ms))
	for i := range ms {
		out[i] = ToMovementResponse(&ms[i])
	}
	return out
}

// ListMovementsParams holds filter and pagination parameters for movement
// history listings.
type ListMovementsParams struct {
	Kind      string     `form:"kind"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
}

// ListMovementsResponse is a page of a session's ledger.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ChainVerificationResponse reports the outcome of a balance-chain audit.
type ChainVerificationResponse struct {
	SessionID     string          `json:"sessionID"`
	MovementCount int64           `json:"movementCount"`
	Balance       decimal.Decimal `json:"balance"`
	Intact        bool            `json:"intact"`
}
