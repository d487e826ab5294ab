package domain

import "time"

// RegisterStatus indicates whether a register currently has an open session.
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "OPEN"
	RegisterClosed RegisterStatus = "CLOSED"
)

// Register represents a physical or logical till. Registers are created by
// configuration and are never deleted, only deactivated.
type Register struct {
	RegisterID        string         `json:"registerID"` // Primary key (UUID)
	Code              string         `json:"code"`       // Short unique code, e.g. CAJA-01
	Name              string         `json:"name"`
	Description       string         `json:"description"` // Nullable
	Location          string         `json:"location"`    // Nullable
	Status            RegisterStatus `json:"status"`
	ResponsibleUserID string         `json:"responsibleUserID"` // Nullable; cashier currently assigned
	LastOpenedAt      *time.Time     `json:"lastOpenedAt"`
	LastClosingAt     *time.Time     `json:"lastClosingAt"`
	IsActive          bool           `json:"isActive"`
	AuditFields
}
