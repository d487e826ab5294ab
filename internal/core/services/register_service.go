package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
	"github.com/Mikisbell/JUNTAY-sub001/internal/middleware"
)

// registerService manages till configuration.
type registerService struct {
	registerRepo portsrepo.RegisterRepositoryFacade
}

// NewRegisterService creates a new RegisterService.
func NewRegisterService(registerRepo portsrepo.RegisterRepositoryFacade) portssvc.RegisterSvcFacade {
	return &registerService{registerRepo: registerRepo}
}

var _ portssvc.RegisterSvcFacade = (*registerService)(nil)

// CreateRegister creates a new till. Codes are normalized to upper case and
// must be unique.
func (s *registerService) CreateRegister(ctx context.Context, req dto.CreateRegisterRequest, creatorUserID string) (*domain.Register, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("%w: register code is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	register := domain.Register{
		RegisterID:  uuid.NewString(),
		Code:        code,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      domain.RegisterClosed,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.registerRepo.SaveRegister(ctx, register); err != nil {
		logger.Error("Failed to save register", slog.String("error", err.Error()), slog.String("code", code))
		return nil, fmt.Errorf("failed to save register: %w", err)
	}

	logger.Info("Register created", slog.String("register_id", register.RegisterID), slog.String("code", code))
	return &register, nil
}

// GetRegisterByID retrieves one register.
func (s *registerService) GetRegisterByID(ctx context.Context, registerID string) (*domain.Register, error) {
	register, err := s.registerRepo.FindRegisterByID(ctx, registerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find register %s: %w", registerID, err)
	}
	return register, nil
}

// ListRegisters retrieves all registers.
func (s *registerService) ListRegisters(ctx context.Context, includeInactive bool) ([]domain.Register, error) {
	registers, err := s.registerRepo.ListRegisters(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list registers: %w", err)
	}
	return registers, nil
}

// UpdateRegister updates the configurable fields of a register. The code and
// the open/closed status are not updatable here; status is owned by the
// session lifecycle.
func (s *registerService) UpdateRegister(ctx context.Context, registerID string, req dto.UpdateRegisterRequest, updaterUserID string) (*domain.Register, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	register, err := s.registerRepo.FindRegisterByID(ctx, registerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find register %s: %w", registerID, err)
	}

	updated := false
	if req.Name != nil {
		register.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		register.Description = *req.Description
		updated = true
	}
	if req.Location != nil {
		register.Location = *req.Location
		updated = true
	}
	if req.ResponsibleUserID != nil {
		register.ResponsibleUserID = *req.ResponsibleUserID
		updated = true
	}

	if !updated {
		return register, nil
	}

	register.LastUpdatedAt = time.Now().UTC()
	register.LastUpdatedBy = updaterUserID

	if err := s.registerRepo.UpdateRegister(ctx, *register); err != nil {
		logger.Error("Failed to update register", slog.String("error", err.Error()), slog.String("register_id", registerID))
		return nil, fmt.Errorf("failed to update register: %w", err)
	}

	logger.Info("Register updated", slog.String("register_id", registerID))
	return register, nil
}

// DeactivateRegister marks a register inactive. A register with an open
// session cannot be deactivated.
func (s *registerService) DeactivateRegister(ctx context.Context, registerID string, updaterUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	register, err := s.registerRepo.FindRegisterByID(ctx, registerID)
	if err != nil {
		return fmt.Errorf("failed to find register %s: %w", registerID, err)
	}
	if register.Status == domain.RegisterOpen {
		return fmt.Errorf("%w: register %s has an open session", apperrors.ErrState, registerID)
	}

	if err := s.registerRepo.DeactivateRegister(ctx, registerID, updaterUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate register", slog.String("error", err.Error()), slog.String("register_id", registerID))
		return fmt.Errorf("failed to deactivate register: %w", err)
	}

	logger.Info("Register deactivated", slog.String("register_id", registerID))
	return nil
}
