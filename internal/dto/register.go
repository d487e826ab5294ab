package dto

import (
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
)

// CreateRegisterRequest defines the payload for creating a register.
type CreateRegisterRequest struct {
	Code        string `json:"code" binding:"required,max=20"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// UpdateRegisterRequest defines the payload for updating register
// configuration. Nil fields are left unchanged.
type UpdateRegisterRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Location          *string `json:"location"`
	ResponsibleUserID *string `json:"responsibleUserID"`
}

// RegisterResponse defines the data returned for a register.
type RegisterResponse struct {
	RegisterID        string     `json:"registerID"`
	Code              string     `json:"code"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	Location          string     `json:"location,omitempty"`
	Status            string     `json:"status"`
	ResponsibleUserID string     `json:"responsibleUserID,omitempty"`
	LastOpenedAt      *time.Time `json:"lastOpenedAt,omitempty"`
	LastClosingAt     *time.Time `json:"lastClosingAt,omitempty"`
	IsActive          bool       `json:"isActive"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// ToRegisterResponse converts a domain.Register to its response DTO.
func ToRegisterResponse(r *domain.Register) RegisterResponse {
	return RegisterResponse{
		RegisterID:        r.RegisterID,
		Code:              r.Code,
		Name:              r.Name,
		Description:       r.Description,
		Location:          r.Location,
		Status:            string(r.Status),
		ResponsibleUserID: r.ResponsibleUserID,
		LastOpenedAt:      r.LastOpenedAt,
		LastClosingAt:     r.LastClosingAt,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
	}
}

// ToRegisterResponses converts a slice of registers.
func ToRegisterResponses(rs []domain.Register) []RegisterResponse {
	out := make([]RegisterResponse, len(rs))
	for i := range rs {
		out[i] = ToRegisterResponse(&rs[i])
	}
	return out
}
