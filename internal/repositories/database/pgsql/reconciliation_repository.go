package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	"github.com/Mikisbell/JUNTAY-sub001/internal/models"
	"github.com/Mikisbell/JUNTAY-sub001/internal/utils/mapping"
)

const reconciliationColumns = `
	reconciliation_id, session_id, register_id, kind,
	system_amount, counted_amount, variance,
	bills_200, bills_100, bills_50, bills_20, bills_10,
	coins_5, coins_2, coins_1, coins_050, coins_020, coins_010,
	notes, actor_id, occurred_at, created_at`

type PgxReconciliationRepository struct {
	txRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation records.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{txRepository: txRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

// insertReconciliationTx inserts one reconciliation record inside an
// existing transaction. Records are immutable; the package offers no update
// or delete.
func insertReconciliationTx(ctx context.Context, tx pgx.Tx, record domain.Reconciliation) error {
	m := mapping.ToModelReconciliation(record)
	query := `
		INSERT INTO reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := tx.Exec(ctx, query,
		m.ReconciliationID, m.SessionID, m.RegisterID, m.Kind,
		m.SystemAmount, m.CountedAmount, m.Variance,
		m.Bills200, m.Bills100, m.Bills50, m.Bills20, m.Bills10,
		m.Coins5, m.Coins2, m.Coins1, m.Coins050, m.Coins020, m.Coins010,
		m.Notes, m.ActorID, m.OccurredAt, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert reconciliation "+m.ReconciliationID, err)
	}
	return nil
}

func scanReconciliation(row pgx.Row) (*models.Reconciliation, error) {
	var m models.Reconciliation
	err := row.Scan(
		&m.ReconciliationID, &m.SessionID, &m.RegisterID, &m.Kind,
		&m.SystemAmount, &m.CountedAmount, &m.Variance,
		&m.Bills200, &m.Bills100, &m.Bills50, &m.Bills20, &m.Bills10,
		&m.Coins5, &m.Coins2, &m.Coins1, &m.Coins050, &m.Coins020, &m.Coins010,
		&m.Notes, &m.ActorID, &m.OccurredAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveReconciliation inserts a standalone reconciliation record in its own
// transaction. The session-coupled variants (opening, closing, replenishment)
// go through the session repository instead.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, record domain.Reconciliation) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertReconciliationTx(ctx, tx, record); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindReconciliationByID retrieves one reconciliation record.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE reconciliation_id = $1;`
	m, err := scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation by ID "+reconciliationID, err)
	}
	record := mapping.ToDomainReconciliation(*m)
	return &record, nil
}

// ListReconciliationsBySession retrieves a session's reconciliation records
// in occurrence order.
func (r *PgxReconciliationRepository) ListReconciliationsBySession(ctx context.Context, sessionID string) ([]domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE session_id = $1
		ORDER BY occurred_at, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliations for session "+sessionID, err)
	}
	defer rows.Close()

	records := []models.Reconciliation{}
	for rows.Next() {
		m, scanErr := scanReconciliation(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciliation row for session "+sessionID, scanErr)
		}
		records = append(records, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation rows for session "+sessionID, err)
	}
	return mapping.ToDomainReconciliationSlice(records), nil
}

// ListReconciliationsByRegister retrieves a register's reconciliation
// records within a date range, newest first.
func (r *PgxReconciliationRepository) ListReconciliationsByRegister(ctx context.Context, registerID string, from, to *time.Time, limit int) ([]domain.Reconciliation, error) {
	if limit <= 0 {
		limit = 50
	}

	baseQuery := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE register_id = $1`
	args := []interface{}{registerID}

	if from != nil {
		args = append(args, *from)
		baseQuery += ` AND occurred_at >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		baseQuery += ` AND occurred_at < $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query := baseQuery + ` ORDER BY occurred_at DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query reconciliations for register "+registerID, err)
	}
	defer rows.Close()

	records := []models.Reconciliation{}
	for rows.Next() {
		m, scanErr := scanReconciliation(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciliation row for register "+registerID, scanErr)
		}
		records = append(records, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation rows for register "+registerID, err)
	}
	return mapping.ToDomainReconciliationSlice(records), nil
}
