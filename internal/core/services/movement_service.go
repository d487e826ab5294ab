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
	// ErrAmountNotPositive rejects zero or negative movement amounts.
	ErrAmountNotPositive = errors.New("movement amount must be positive")
	// ErrLifecycleKind rejects lifecycle kinds on the generic append path.
	// Opening, closing and transfer movements are written only by their
	// owning operations.
	ErrLifecycleKind = errors.New("movement kind is reserved to a lifecycle operation")
)

// movementService is the append-only ledger surface.
type movementService struct {
	sessionRepo  portsrepo.SessionReader
	movementRepo portsrepo.MovementRepositoryFacade
}

// NewMovementService creates a new MovementService.
func NewMovementService(movementRepo portsrepo.MovementRepositoryFacade, sessionRepo portsrepo.SessionReader) portssvc.MovementSvcFacade {
	return &movementService{
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
	}
}

var _ portssvc.MovementSvcFacade = (*movementService)(nil)

// AppendMovement records one cash movement against an open session. Balance
// chaining and the insufficient-funds check happen in the repository under
// the session row lock.
func (s *movementService) AppendMovement(ctx context.Context, sessionID string, req dto.AppendMovementRequest, actorID string) (*domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	kind := domain.MovementKind(req.Kind)
	if _, err := kind.Direction(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if kind.IsLifecycle() {
		return nil, fmt.Errorf("%w: %s", ErrLifecycleKind, kind)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrAmountNotPositive, req.Amount.StringFixed(2))
	}

	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("%w: session %s is %s", apperrors.ErrState, sessionID, session.Status)
	}

	now := time.Now().UTC()
	movement := domain.Movement{
		MovementID:    uuid.NewString(),
		SessionID:     sessionID,
		RegisterID:    session.RegisterID,
		Kind:          kind,
		Concept:       req.Concept,
		Amount:        req.Amount,
		Description:   req.Description,
		ReferenceCode: req.ReferenceCode,
		ActorID:       actorID,
		OccurredAt:    now,
		CreatedAt:     now,
	}

	appended, err := s.movementRepo.AppendMovement(ctx, movement)
	if err != nil {
		if ife, ok := apperrors.IsInsufficientFunds(err); ok {
			logger.Warn("Movement rejected for insufficient funds",
				slog.String("session_id", sessionID),
				slog.String("available", ife.Available.StringFixed(2)),
				slog.String("requested", ife.Requested.StringFixed(2)))
		} else if !errors.Is(err, apperrors.ErrState) {
			logger.Error("Failed to append movement", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		}
		return nil, fmt.Errorf("failed to append movement to session %s: %w", sessionID, err)
	}

	logger.Info("Movement appended",
		slog.String("movement_id", appended.MovementID),
		slog.String("session_id", sessionID),
		slog.String("kind", string(appended.Kind)),
		slog.String("amount", appended.Amount.StringFixed(2)),
		slog.String("new_balance", appended.NewBalance.StringFixed(2)))
	return appended, nil
}

// ListMovements retrieves a filtered, paginated slice of a session's ledger.
func (s *movementService) ListMovements(ctx context.Context, sessionID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	if params.Kind != "" {
		if _, err := domain.MovementKind(params.Kind).Direction(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	filter := portsrepo.MovementFilter{
		Kind: domain.MovementKind(params.Kind),
		From: params.From,
		To:   params.To,
	}

	movements, nextToken, err := s.movementRepo.ListMovementsBySession(ctx, sessionID, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements for session %s: %w", sessionID, err)
	}

	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(movements),
		NextToken: nextToken,
	}, nil
}

// VerifyChain audits the full balance chain of a session: the first movement
// starts at the opening amount, every link matches its predecessor, and the
// session aggregates agree with the ledger.
func (s *movementService) VerifyChain(ctx context.Context, sessionID string) (*dto.ChainVerificationResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.sessionRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session %s: %w", sessionID, err)
	}

	movements, err := s.movementRepo.FindMovementsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements for session %s: %w", sessionID, err)
	}

	ingress := decimal.Zero
	egress := decimal.Zero
	running := session.OpeningAmount

	for i := range movements {
		m := &movements[i]
		if i == 0 {
			// The opening movement starts the chain at zero and lands on the
			// opening amount.
			if m.Kind == domain.MovementOpening {
				running = decimal.Zero
			}
		}
		if err := m.VerifyLink(running); err != nil {
			logger.Error("Balance chain broken", slog.String("session_id", sessionID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
		}
		running = m.NewBalance

		// The opening amount is its own term of the balance formula; the
		// opening movement does not count into the ingress aggregate.
		if m.Kind == domain.MovementOpening {
			continue
		}
		dir, _ := m.Kind.Direction()
		if dir == domain.Ingress {
			ingress = ingress.Add(m.Amount)
		} else {
			egress = egress.Add(m.Amount)
		}
	}

	if !ingress.Equal(session.TotalIngress) || !egress.Equal(session.TotalEgress) {
		logger.Error("Session aggregates disagree with ledger sums",
			slog.String("session_id", sessionID),
			slog.String("ledger_ingress", ingress.StringFixed(2)),
			slog.String("session_ingress", session.TotalIngress.StringFixed(2)),
			slog.String("ledger_egress", egress.StringFixed(2)),
			slog.String("session_egress", session.TotalEgress.StringFixed(2)))
		return nil, fmt.Errorf("%w: session %s aggregates do not match ledger sums", apperrors.ErrIntegrity, sessionID)
	}

	if int64(len(movements)) != session.MovementCount {
		return nil, fmt.Errorf("%w: session %s records %d movements, ledger holds %d",
			apperrors.ErrIntegrity, sessionID, session.MovementCount, len(movements))
	}

	return &dto.ChainVerificationResponse{
		SessionID:     sessionID,
		MovementCount: int64(len(movements)),
		Balance:       running,
		Intact:        true,
	}, nil
}
