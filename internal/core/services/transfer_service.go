package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
	"github.com/Mikisbell/JUNTAY-sub001/internal/middleware"
)

var (
	// ErrTransferSameSession rejects a transfer whose source and destination
	// are the same session.
	ErrTransferSameSession = errors.New("transfer source and destination must differ")
)

// transferService moves cash between two registers' open sessions.
type transferService struct {
	sessionRepo  portsrepo.SessionReader
	movementRepo portsrepo.MovementRepositoryFacade
}

// NewTransferService creates a new TransferService.
func NewTransferService(movementRepo portsrepo.MovementRepositoryFacade, sessionRepo portsrepo.SessionReader) portssvc.TransferSvcFacade {
	return &transferService{
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// Transfer appends the two legs of a cash transfer atomically. Both legs
// share a generated reference code; the repository locks both sessions and
// rejects the transfer when the source balance cannot cover the amount.
func (s *transferService) Transfer(ctx context.Context, req dto.TransferRequest, actorID string) (*domain.Movement, *domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.FromSessionID == req.ToSessionID {
		return nil, nil, fmt.Errorf("%w: session %s", ErrTransferSameSession, req.FromSessionID)
	}
	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: %s", ErrAmountNotPositive, req.Amount.StringFixed(2))
	}

	source, err := s.sessionRepo.FindSessionByID(ctx, req.FromSessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find source session %s: %w", req.FromSessionID, err)
	}
	if !source.IsOpen() {
		return nil, nil, fmt.Errorf("%w: source session %s is %s", apperrors.ErrState, req.FromSessionID, source.Status)
	}
	dest, err := s.sessionRepo.FindSessionByID(ctx, req.ToSessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find destination session %s: %w", req.ToSessionID, err)
	}
	if !dest.IsOpen() {
		return nil, nil, fmt.Errorf("%w: destination session %s is %s", apperrors.ErrState, req.ToSessionID, dest.Status)
	}

	concept := req.Concept
	if concept == "" {
		concept = "register_transfer"
	}

	now := time.Now().UTC()
	referenceCode := fmt.Sprintf("TRF-%s", uuid.NewString())

	out := domain.Movement{
		MovementID:    uuid.NewString(),
		SessionID:     source.SessionID,
		RegisterID:    source.RegisterID,
		Kind:          domain.MovementTransferOut,
		Concept:       concept,
		Amount:        req.Amount,
		Description:   req.Notes,
		ReferenceCode: referenceCode,
		ActorID:       actorID,
		OccurredAt:    now,
		CreatedAt:     now,
	}
	in := domain.Movement{
		MovementID:    uuid.NewString(),
		SessionID:     dest.SessionID,
		RegisterID:    dest.RegisterID,
		Kind:          domain.MovementTransferIn,
		Concept:       concept,
		Amount:        req.Amount,
		Description:   req.Notes,
		ReferenceCode: referenceCode,
		ActorID:       actorID,
		OccurredAt:    now,
		CreatedAt:     now,
	}

	outSaved, inSaved, err := s.movementRepo.AppendTransfer(ctx, out, in)
	if err != nil {
		if ife, ok := apperrors.IsInsufficientFunds(err); ok {
			logger.Warn("Transfer rejected for insufficient funds",
				slog.String("from_session", req.FromSessionID),
				slog.String("available", ife.Available.StringFixed(2)),
				slog.String("requested", ife.Requested.StringFixed(2)))
		} else {
			logger.Error("Failed to append transfer", slog.String("error", err.Error()),
				slog.String("from_session", req.FromSessionID), slog.String("to_session", req.ToSessionID))
		}
		return nil, nil, fmt.Errorf("failed to transfer from session %s to %s: %w", req.FromSessionID, req.ToSessionID, err)
	}

	logger.Info("Transfer completed",
		slog.String("reference_code", referenceCode),
		slog.String("from_session", req.FromSessionID),
		slog.String("to_session", req.ToSessionID),
		slog.String("amount", req.Amount.StringFixed(2)))
	return outSaved, inSaved, nil
}

// GetTransfer retrieves the paired legs of a completed transfer by reference
// code. A reference code resolving to anything other than one outgoing and
// one incoming leg is an integrity fault.
func (s *transferService) GetTransfer(ctx context.Context, referenceCode string) (*domain.Movement, *domain.Movement, error) {
	movements, err := s.movementRepo.FindMovementsByReference(ctx, referenceCode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find transfer %s: %w", referenceCode, err)
	}

	var out, in *domain.Movement
	for i := range movements {
		switch movements[i].Kind {
		case domain.MovementTransferOut:
			out = &movements[i]
		case domain.MovementTransferIn:
			in = &movements[i]
		}
	}
	if out == nil || in == nil || len(movements) != 2 {
		return nil, nil, fmt.Errorf("%w: reference %s resolves to %d movements, want paired transfer legs",
			apperrors.ErrIntegrity, referenceCode, len(movements))
	}
	return out, in, nil
}
