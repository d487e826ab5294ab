package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
)

// txRepository is embedded by every pgsql repository. Each repository method
// owns a whole transaction: Begin at the top, a deferred Rollback, and an
// explicit Commit once the ledger rows are written. Row locks taken inside
// the transaction are held until Commit or Rollback.
type txRepository struct {
	Pool *pgxpool.Pool
}

func (r *txRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

func (r *txRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback is safe to defer unconditionally: after a successful Commit the
// transaction is already closed and the rollback is a no-op.
func (r *txRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}
