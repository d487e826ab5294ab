package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
	"github.com/Mikisbell/JUNTAY-sub001/internal/middleware"
)

// reconciliationService records physical counts against the expected balance.
type reconciliationService struct {
	sessionRepo        portsrepo.SessionReader
	reconciliationRepo portsrepo.ReconciliationRepositoryFacade
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(reconciliationRepo portsrepo.ReconciliationRepositoryFacade, sessionRepo portsrepo.SessionReader) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		sessionRepo:        sessionRepo,
		reconciliationRepo: reconciliationRepo,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// Count sums a denomination breakdown. Pure arithmetic, no persistence.
func (s *reconciliationService) Count(breakdown domain.Denomination) (decimal.Decimal, error) {
	if err := breakdown.Validate(); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return breakdown.Total(), nil
}

// Reconcile records an intermediate count against an open session. The
// expected amount is the session's current balance at the moment of the
// count; an out-of-tolerance variance is recorded, not rejected.
func (s *reconciliationService) Reconcile(ctx context.Context, sessionID string, req dto.ReconcileRequest, actorID string) (*domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	breakdown := req.Breakdown.ToDomain()
	counted, err := s.Count(breakdown)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("%w: session %s is %s", apperrors.ErrState, sessionID, session.Status)
	}

	now := time.Now().UTC()
	system := session.CurrentBalance()
	record := domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		SessionID:        sessionID,
		RegisterID:       session.RegisterID,
		Kind:             domain.ReconciliationIntermediate,
		SystemAmount:     system,
		CountedAmount:    counted,
		Variance:         counted.Sub(system),
		Breakdown:        breakdown,
		Notes:            req.Notes,
		ActorID:          actorID,
		OccurredAt:       now,
		CreatedAt:        now,
	}

	if err := s.reconciliationRepo.SaveReconciliation(ctx, record); err != nil {
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		return nil, fmt.Errorf("failed to save reconciliation for session %s: %w", sessionID, err)
	}

	if !record.IsBalanced() {
		logger.Warn("Intermediate count out of tolerance",
			slog.String("session_id", sessionID),
			slog.String("variance", record.Variance.StringFixed(2)))
	}
	logger.Info("Reconciliation recorded",
		slog.String("reconciliation_id", record.ReconciliationID),
		slog.String("session_id", sessionID),
		slog.String("counted", counted.StringFixed(2)))
	return &record, nil
}

// ListBySession retrieves a session's reconciliation records.
func (s *reconciliationService) ListBySession(ctx context.Context, sessionID string) ([]domain.Reconciliation, error) {
	records, err := s.reconciliationRepo.ListReconciliationsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations for session %s: %w", sessionID, err)
	}
	return records, nil
}

// ListByRegister retrieves a register's reconciliation records within a date range.
func (s *reconciliationService) ListByRegister(ctx context.Context, registerID string, from, to *time.Time, limit int) ([]domain.Reconciliation, error) {
	if limit <= 0 {
		limit = 50
	}
	records, err := s.reconciliationRepo.ListReconciliationsByRegister(ctx, registerID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reconciliations for register %s: %w", registerID, err)
	}
	return records, nil
}
