package services

import (
	"context"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
)

// RegisterSvcFacade manages till configuration. Registers are created by
// configuration and never deleted, only deactivated.
type RegisterSvcFacade interface {
	CreateRegister(ctx context.Context, req dto.CreateRegisterRequest, creatorUserID string) (*domain.Register, error)
	GetRegisterByID(ctx context.Context, registerID string) (*domain.Register, error)
	ListRegisters(ctx context.Context, includeInactive bool) ([]domain.Register, error)
	UpdateRegister(ctx context.Context, registerID string, req dto.UpdateRegisterRequest, updaterUserID string) (*domain.Register, error)
	DeactivateRegister(ctx context.Context, registerID string, updaterUserID string) error
}
