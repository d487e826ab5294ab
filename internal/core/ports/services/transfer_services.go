package services

import (
	"context"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
)

// TransferSvcFacade moves cash between two registers' open sessions as one
// logical operation: both ledger entries commit or neither does.
type TransferSvcFacade interface {
	Transfer(ctx context.Context, req dto.TransferRequest, actorID string) (out *domain.Movement, in *domain.Movement, err error)

	// GetTransfer retrieves a completed transfer's paired legs by reference
	// code.
	GetTransfer(ctx context.Context, referenceCode string) (out *domain.Movement, in *domain.Movement, err error)
}
