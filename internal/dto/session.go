package dto

import (
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest defines the payload for opening a register.
type OpenSessionRequest struct {
	OpeningAmount decimal.Decimal        `json:"openingAmount" binding:"required"`
	Breakdown     *DenominationBreakdown `json:"breakdown"`
	Notes         string                 `json:"notes"`
}

// CloseSessionRequest defines the payload for closing a session. The counted
// denomination breakdown is mandatory: a session cannot be closed blind.
type CloseSessionRequest struct {
	Breakdown DenominationBreakdown `json:"breakdown" binding:"required"`
	Notes     string                `json:"notes"`
}

// ReplenishSessionRequest defines the payload for a mid-session cash
// replenishment. DeclaredAmount is the amount the replenishment was declared
// as on the vault slip; when present it is reconciled against the counted
// breakdown total.
type ReplenishSessionRequest struct {
	Breakdown      DenominationBreakdown `json:"breakdown" binding:"required"`
	DeclaredAmount *decimal.Decimal      `json:"declaredAmount"`
	Origin         string                `json:"origin"` // e.g. "vault", "bank"
	Notes          string                `json:"notes"`
}

// SessionResponse defines the data returned for a cash session.
type SessionResponse struct {
	SessionID     string `json:"sessionID"`
	RegisterID    string `json:"registerID"`
	SessionNumber int64  `json:"sessionNumber"`

	OpeningAmount decimal.Decimal `json:"openingAmount"`
	OpeningAt     time.Time       `json:"openingAt"`
	OpeningNotes  string          `json:"openingNotes,omitempty"`
	OpenedBy      string          `json:"openedBy"`

	TotalIngress  decimal.Decimal `json:"totalIngress"`
	TotalEgress   decimal.Decimal `json:"totalEgress"`
	MovementCount int64           `json:"movementCount"`
	Balance       decimal.Decimal `json:"balance"`

	Status           string                 `json:"status"`
	SystemAmount     *decimal.Decimal       `json:"systemAmount,omitempty"`
	CountedAmount    *decimal.Decimal       `json:"countedAmount,omitempty"`
	Variance         *decimal.Decimal       `json:"variance,omitempty"`
	ClosingBreakdown *DenominationBreakdown `json:"closingBreakdown,omitempty"`
	ClosingNotes     string                 `json:"closingNotes,omitempty"`
	ClosingAt        *time.Time             `json:"closingAt,omitempty"`
	ClosedBy         string                 `json:"closedBy,omitempty"`
}

// ToSessionResponse converts a domain.CashSession to its response DTO.
func ToSessionResponse(s *domain.CashSession) SessionResponse {
	resp := SessionResponse{
		SessionID:     s.SessionID,
		RegisterID:    s.RegisterID,
		SessionNumber: s.SessionNumber,
		OpeningAmount: s.OpeningAmount,
		OpeningAt:     s.OpeningAt,
		OpeningNotes:  s.OpeningNotes,
		OpenedBy:      s.OpenedBy,
		TotalIngress:  s.TotalIngress,
		TotalEgress:   s.TotalEgress,
		MovementCount: s.MovementCount,
		Balance:       s.CurrentBalance(),
		Status:        string(s.Status),
		SystemAmount:  s.SystemAmount,
		CountedAmount: s.CountedAmount,
		Variance:      s.Variance,
		ClosingNotes:  s.ClosingNotes,
		ClosingAt:     s.ClosingAt,
		ClosedBy:      s.ClosedBy,
	}
	if s.ClosingBreakdown != nil {
		b := FromDomainDenomination(*s.ClosingBreakdown)
		resp.ClosingBreakdown = &b
	}
	return resp
}

// ListSessionsParams holds parameters for listing a register's session history.
type ListSessionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListSessionsResponse is a page of session history.
type ListSessionsResponse struct {
	Sessions  []SessionResponse `json:"sessions"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// BalanceResponse reports the system-computed balance of an open session.
type BalanceResponse struct {
	SessionID     string          `json:"sessionID"`
	RegisterID    string          `json:"registerID"`
	Balance       decimal.Decimal `json:"balance"`
	OpeningAmount decimal.Decimal `json:"openingAmount"`
	TotalIngress  decimal.Decimal `json:"totalIngress"`
	TotalEgress   decimal.Decimal `json:"totalEgress"`
	MovementCount int64           `json:"movementCount"`
}
