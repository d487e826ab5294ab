package services

import (
	"context"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
)

// MovementSvcFacade is the append-only ledger surface. Movements are never
// updated or deleted.
type MovementSvcFacade interface {
	// AppendMovement records one cash movement against an open session.
	AppendMovement(ctx context.Context, sessionID string, req dto.AppendMovementRequest, actorID string) (*domain.Movement, error)

	// ListMovements retrieves a filtered, paginated slice of a session's
	// ledger ordered by occurrence time ascending.
	ListMovements(ctx context.Context, sessionID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)

	// VerifyChain audits the session's full balance chain and aggregate
	// consistency. Returns ErrIntegrity describing the first broken link.
	VerifyChain(ctx context.Context, sessionID string) (*dto.ChainVerificationResponse, error)
}
