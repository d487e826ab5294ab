package models

import "time"

// RegisterStatus indicates whether a register currently has an open session.
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "OPEN"
	RegisterClosed RegisterStatus = "CLOSED"
)

// Register is the DB shape of a till.
type Register struct {
	RegisterID        string         `db:"register_id"`
	Code              string         `db:"code"`
	Name              string         `db:"name"`
	Description       string         `db:"description"`
	Location          string         `db:"location"`
	Status            RegisterStatus `db:"status"`
	ResponsibleUserID string         `db:"responsible_user_id"`
	LastOpenedAt      *time.Time     `db:"last_opened_at"`
	LastClosingAt     *time.Time     `db:"last_closing_at"`
	IsActive          bool           `db:"is_active"`
	AuditFields
}
