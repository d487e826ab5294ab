package dto

import (
	"github.com/shopspring/decimal"
)

// TransferRequest defines the payload for moving cash between two registers'
// open sessions.
type TransferRequest struct {
	FromSessionID string          `json:"fromSessionID" binding:"required"`
	ToSessionID   string          `json:"toSessionID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Concept       string          `json:"concept"`
	Notes         string          `json:"notes"`
}

// TransferResponse returns the paired ledger entries of a completed transfer.
// Both movements share the reference code.
type TransferResponse struct {
	ReferenceCode string           `json:"referenceCode"`
	Outgoing      MovementResponse `json:"outgoing"`
	Incoming      MovementResponse `json:"incoming"`
}
