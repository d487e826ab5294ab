package services

import (
	"context"
	"errors"
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

var (
	// ErrOpeningAmountNegative rejects an opening float below zero.
	ErrOpeningAmountNegative = errors.New("opening amount must not be negative")
	// ErrOpeningCountMismatch rejects an opening whose counted breakdown
	// disagrees with the declared opening amount.
	ErrOpeningCountMismatch = errors.New("opening breakdown total does not match opening amount")
	// ErrRegisterInactive rejects operations against a deactivated register.
	ErrRegisterInactive = errors.New("register is inactive")
)

// sessionService owns the session lifecycle: open, balance, replenish, close.
type sessionService struct {
	registerRepo portsrepo.RegisterRepositoryFacade
	sessionRepo  portsrepo.SessionRepositoryFacade
	movementRepo portsrepo.MovementReader
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo portsrepo.SessionRepositoryFacade, registerRepo portsrepo.RegisterRepositoryFacade, movementRepo portsrepo.MovementReader) portssvc.SessionSvcFacade {
	return &sessionService{
		registerRepo: registerRepo,
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// OpenSession opens a register with an opening float. When a denomination
// breakdown accompanies the request its total must equal the opening amount,
// and an opening reconciliation is recorded alongside the session.
func (s *sessionService) OpenSession(ctx context.Context, registerID string, req dto.OpenSessionRequest, actorID string) (*domain.CashSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningAmount.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrOpeningAmountNegative, req.OpeningAmount.StringFixed(2))
	}

	register, err := s.registerRepo.FindRegisterByID(ctx, registerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find register %s: %w", registerID, err)
	}
	if !register.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrRegisterInactive, registerID)
	}

	now := time.Now().UTC()
	sessionID := uuid.NewString()

	var openingCount *domain.Reconciliation
	if req.Breakdown != nil {
		breakdown := req.Breakdown.ToDomain()
		if err := breakdown.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		counted := breakdown.Total()
		if !counted.Equal(req.OpeningAmount) {
			return nil, fmt.Errorf("%w: counted %s, declared %s",
				ErrOpeningCountMismatch, counted.StringFixed(2), req.OpeningAmount.StringFixed(2))
		}
		openingCount = &domain.Reconciliation{
			ReconciliationID: uuid.NewString(),
			SessionID:        sessionID,
			RegisterID:       registerID,
			Kind:             domain.ReconciliationOpening,
			SystemAmount:     req.OpeningAmount,
			CountedAmount:    counted,
			Variance:         decimal.Zero,
			Breakdown:        breakdown,
			ActorID:          actorID,
			OccurredAt:       now,
			CreatedAt:        now,
		}
	}

	session := domain.CashSession{
		SessionID:     sessionID,
		RegisterID:    registerID,
		OpeningAmount: req.OpeningAmount,
		OpeningAt:     now,
		OpeningNotes:  req.Notes,
		OpenedBy:      actorID,
		TotalIngress:  decimal.Zero,
		TotalEgress:   decimal.Zero,
		Status:        domain.SessionOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	opened, err := s.sessionRepo.OpenSession(ctx, session, openingCount)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Register already has an open session", slog.String("register_id", registerID))
		} else {
			logger.Error("Failed to open session", slog.String("error", err.Error()), slog.String("register_id", registerID))
		}
		return nil, fmt.Errorf("failed to open session for register %s: %w", registerID, err)
	}

	logger.Info("Session opened",
		slog.String("session_id", opened.SessionID),
		slog.String("register_id", registerID),
		slog.Int64("session_number", opened.SessionNumber),
		slog.String("opening_amount", opened.OpeningAmount.StringFixed(2)))
	return opened, nil
}

// GetSessionByID retrieves one session.
func (s *sessionService) GetSessionByID(ctx context.Context, sessionID string) (*domain.CashSession, error) {
	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}
	return session, nil
}

// GetCurrentSession retrieves the open session of a register.
func (s *sessionService) GetCurrentSession(ctx context.Context, registerID string) (*domain.CashSession, error) {
	session, err := s.sessionRepo.FindOpenSessionByRegister(ctx, registerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find open session for register %s: %w", registerID, err)
	}
	return session, nil
}

// CurrentBalance returns the system balance of a session, cross-checked
// against the last movement's closing balance.
func (s *sessionService) CurrentBalance(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}

	balance := session.CurrentBalance()

	movements, err := s.movementRepo.FindMovementsBySession(ctx, sessionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load movements for session %s: %w", sessionID, err)
	}
	if len(movements) > 0 {
		last := movements[len(movements)-1]
		if !last.NewBalance.Equal(balance) {
			logger.Error("Session aggregates disagree with ledger",
				slog.String("session_id", sessionID),
				slog.String("aggregate_balance", balance.StringFixed(2)),
				slog.String("ledger_balance", last.NewBalance.StringFixed(2)))
			return decimal.Zero, fmt.Errorf("%w: session %s aggregate balance %s, last movement balance %s",
				apperrors.ErrIntegrity, sessionID, balance.StringFixed(2), last.NewBalance.StringFixed(2))
		}
	}

	return balance, nil
}

// CloseSession closes an open session against a counted breakdown. The
// variance classification and the closing movement are computed by the
// repository under the session row lock.
func (s *sessionService) CloseSession(ctx context.Context, sessionID string, req dto.CloseSessionRequest, actorID string) (*domain.CashSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	breakdown := req.Breakdown.ToDomain()
	if err := breakdown.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// A session whose ledger disagrees with its aggregates must stay open
	// for investigation. The repository repeats this check under its row
	// lock before the closing movement is chained.
	if _, err := s.CurrentBalance(ctx, sessionID); err != nil {
		return nil, err
	}

	closed, err := s.sessionRepo.CloseSession(ctx, portsrepo.CloseSessionParams{
		SessionID: sessionID,
		Breakdown: breakdown,
		Notes:     req.Notes,
		ActorID:   actorID,
		Now:       time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrState) {
			logger.Warn("Attempted to close a session that is not open", slog.String("session_id", sessionID))
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to close session", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		}
		return nil, fmt.Errorf("failed to close session %s: %w", sessionID, err)
	}

	logger.Info("Session closed",
		slog.String("session_id", sessionID),
		slog.String("status", string(closed.Status)),
		slog.String("variance", closed.Variance.StringFixed(2)))
	return closed, nil
}

// ReplenishSession records a mid-session cash injection. The counted
// breakdown total is what enters the till; a declared amount, when supplied,
// is reconciled against it.
func (s *sessionService) ReplenishSession(ctx context.Context, sessionID string, req dto.ReplenishSessionRequest, actorID string) (*domain.Movement, *domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	breakdown := req.Breakdown.ToDomain()
	if err := breakdown.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if breakdown.IsZero() {
		return nil, nil, fmt.Errorf("%w: replenishment breakdown is empty", apperrors.ErrValidation)
	}
	if req.DeclaredAmount != nil && req.DeclaredAmount.IsNegative() {
		return nil, nil, fmt.Errorf("%w: declared amount must not be negative", apperrors.ErrValidation)
	}

	concept := req.Origin
	if concept == "" {
		concept = "replenishment"
	}

	movement, record, err := s.sessionRepo.ReplenishSession(ctx, portsrepo.ReplenishSessionParams{
		SessionID:      sessionID,
		Breakdown:      breakdown,
		DeclaredAmount: req.DeclaredAmount,
		Concept:        concept,
		Notes:          req.Notes,
		ActorID:        actorID,
		Now:            time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrState) {
			logger.Warn("Attempted to replenish a closed session", slog.String("session_id", sessionID))
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to replenish session", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		}
		return nil, nil, fmt.Errorf("failed to replenish session %s: %w", sessionID, err)
	}

	logger.Info("Session replenished",
		slog.String("session_id", sessionID),
		slog.String("amount", movement.Amount.StringFixed(2)),
		slog.String("variance", record.Variance.StringFixed(2)))
	return movement, record, nil
}

// ListSessionsByRegister retrieves a register's paginated session history.
func (s *sessionService) ListSessionsByRegister(ctx context.Context, registerID string, params dto.ListSessionsParams) (*dto.ListSessionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	sessions, nextToken, err := s.sessionRepo.ListSessionsByRegister(ctx, registerID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for register %s: %w", registerID, err)
	}

	responses := make([]dto.SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = dto.ToSessionResponse(&sessions[i])
	}

	return &dto.ListSessionsResponse{Sessions: responses, NextToken: nextToken}, nil
}
