package repositories

import (
	"context"
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
)

// MovementFilter narrows history listings. Zero values mean "no filter".
type MovementFilter struct {
	Kind domain.MovementKind
	From *time.Time
	To   *time.Time
}

// MovementReader defines read operations over the append-only ledger.
type MovementReader interface {
	// FindMovementsBySession retrieves every movement of a session ordered by
	// occurrence time ascending (stable). Used by chain verification.
	FindMovementsBySession(ctx context.Context, sessionID string) ([]domain.Movement, error)

	// ListMovementsBySession retrieves a filtered, paginated slice of a
	// session's movements ordered by occurrence time ascending.
	ListMovementsBySession(ctx context.Context, sessionID string, filter MovementFilter, limit int, nextToken *string) ([]domain.Movement, *string, error)

	// FindMovementsByReference retrieves the movements sharing a reference
	// code, e.g. the two legs of a transfer.
	FindMovementsByReference(ctx context.Context, referenceCode string) ([]domain.Movement, error)
}

// MovementWriter defines the ledger's write operations. Movements are
// immutable: there is no update and no delete. Balance chain fields are
// computed by the repository under the session row lock.
type MovementWriter interface {
	// AppendMovement persists one movement and atomically updates the
	// session's aggregate counters. The movement arrives without balance
	// fields; they are chained from the locked session state. Fails with
	// ErrState if the session is not open.
	AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error)

	// AppendTransfer persists the two legs of a transfer in one transaction:
	// the egress against the source session and the ingress against the
	// destination session. Both sessions are locked in deterministic order;
	// fails with InsufficientFundsError when the source balance cannot cover
	// the amount. Either both legs commit or neither does.
	AppendTransfer(ctx context.Context, out domain.Movement, in domain.Movement) (*domain.Movement, *domain.Movement, error)
}

// MovementRepositoryFacade combines all movement repository interfaces.
type MovementRepositoryFacade interface {
	MovementReader
	MovementWriter
}
