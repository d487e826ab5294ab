package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	"github.com/Mikisbell/JUNTAY-sub001/internal/models"
	"github.com/Mikisbell/JUNTAY-sub001/internal/utils/mapping"
	"github.com/Mikisbell/JUNTAY-sub001/internal/utils/pagination"
)

const movementColumns = `
	movement_id, session_id, register_id, kind, concept,
	amount, previous_balance, new_balance,
	description, reference_code, actor_id, occurred_at, created_at`

type PgxMovementRepository struct {
	txRepository
}

// newPgxMovementRepository creates a new repository for the movement ledger.
func newPgxMovementRepository(pool *pgxpool.Pool) portsrepo.MovementRepositoryFacade {
	return &PgxMovementRepository{txRepository: txRepository{Pool: pool}}
}

var _ portsrepo.MovementRepositoryFacade = (*PgxMovementRepository)(nil)

// insertMovementTx inserts one ledger row inside an existing transaction.
// There is no update or delete counterpart anywhere in this package; the
// ledger is append-only by construction.
func insertMovementTx(ctx context.Context, tx pgx.Tx, movement domain.Movement) error {
	m := mapping.ToModelMovement(movement)
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.MovementID,
		m.SessionID,
		m.RegisterID,
		m.Kind,
		m.Concept,
		m.Amount,
		m.PreviousBalance,
		m.NewBalance,
		m.Description,
		m.ReferenceCode,
		m.ActorID,
		m.OccurredAt,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert movement "+m.MovementID, err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*models.Movement, error) {
	var m models.Movement
	err := row.Scan(
		&m.MovementID,
		&m.SessionID,
		&m.RegisterID,
		&m.Kind,
		&m.Concept,
		&m.Amount,
		&m.PreviousBalance,
		&m.NewBalance,
		&m.Description,
		&m.ReferenceCode,
		&m.ActorID,
		&m.OccurredAt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// chainMovementTx computes the balance chain for a movement against a locked
// session and applies the aggregate update. The caller holds the session row
// lock via lockSessionForUpdate.
func chainMovementTx(ctx context.Context, tx pgx.Tx, session *domain.CashSession, movement *domain.Movement) error {
	dir, err := movement.Kind.Direction()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	previous := session.CurrentBalance()
	newBalance, err := movement.Kind.ApplyTo(previous, movement.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if newBalance.IsNegative() {
		return apperrors.NewInsufficientFundsError(session.SessionID, previous, movement.Amount)
	}

	movement.PreviousBalance = previous
	movement.NewBalance = newBalance

	if err := insertMovementTx(ctx, tx, *movement); err != nil {
		return err
	}

	column := "total_ingress"
	if dir == domain.Egress {
		column = "total_egress"
	}
	_, err = tx.Exec(ctx, `
		UPDATE cash_sessions
		SET `+column+` = `+column+` + $2,
		    movement_count = movement_count + 1,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE session_id = $1;
	`, session.SessionID, movement.Amount, movement.OccurredAt, movement.ActorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update session aggregates for "+session.SessionID, err)
	}

	// Keep the in-memory view coherent for callers chaining several
	// movements in one transaction.
	if dir == domain.Ingress {
		session.TotalIngress = session.TotalIngress.Add(movement.Amount)
	} else {
		session.TotalEgress = session.TotalEgress.Add(movement.Amount)
	}
	session.MovementCount++
	return nil
}

// AppendMovement persists one movement with its balance chain computed under
// the session row lock.
func (r *PgxMovementRepository) AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	session, err := lockSessionForUpdate(ctx, tx, movement.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("%w: session %s is %s", apperrors.ErrState, movement.SessionID, session.Status)
	}

	if err := chainMovementTx(ctx, tx, session, &movement); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &movement, nil
}

// AppendTransfer persists both legs of a transfer in one transaction. The
// two sessions are locked in session-ID order so two concurrent opposite
// transfers cannot deadlock.
func (r *PgxMovementRepository) AppendTransfer(ctx context.Context, out domain.Movement, in domain.Movement) (*domain.Movement, *domain.Movement, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	first, second := out.SessionID, in.SessionID
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]*domain.CashSession, 2)
	for _, sessionID := range []string{first, second} {
		session, lockErr := lockSessionForUpdate(ctx, tx, sessionID)
		if lockErr != nil {
			return nil, nil, lockErr
		}
		if !session.IsOpen() {
			return nil, nil, fmt.Errorf("%w: session %s is %s", apperrors.ErrState, sessionID, session.Status)
		}
		locked[sessionID] = session
	}

	// Egress first: the insufficient-funds check must see the source
	// balance before anything else changes.
	if err := chainMovementTx(ctx, tx, locked[out.SessionID], &out); err != nil {
		return nil, nil, err
	}
	if err := chainMovementTx(ctx, tx, locked[in.SessionID], &in); err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &out, &in, nil
}

// FindMovementsBySession retrieves every movement of a session in occurrence
// order, with the insertion order as tie-breaker.
func (r *PgxMovementRepository) FindMovementsBySession(ctx context.Context, sessionID string) ([]domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE session_id = $1
		ORDER BY occurred_at, created_at, movement_id;
	`
	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query movements for session "+sessionID, err)
	}
	defer rows.Close()

	movements := []models.Movement{}
	for rows.Next() {
		m, scanErr := scanMovement(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan movement row for session "+sessionID, scanErr)
		}
		movements = append(movements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating movement rows for session "+sessionID, err)
	}
	return mapping.ToDomainMovementSlice(movements), nil
}

// ListMovementsBySession retrieves a filtered, paginated slice of a session's
// ledger ordered by occurrence time ascending.
func (r *PgxMovementRepository) ListMovementsBySession(ctx context.Context, sessionID string, filter portsrepo.MovementFilter, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + movementColumns + ` FROM movements WHERE session_id = $1`
	args := []interface{}{sessionID}

	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		baseQuery += ` AND kind = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		baseQuery += ` AND occurred_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		baseQuery += ` AND occurred_at < $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastOccurredAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastOccurredAt, lastCreatedAt)
		baseQuery += ` AND (occurred_at, created_at) > ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY occurred_at, created_at, movement_id LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query movements for session "+sessionID, err)
	}
	defer rows.Close()

	movements := make([]models.Movement, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanMovement(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan movement row for session "+sessionID, scanErr)
		}
		movements = append(movements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating movement rows for session "+sessionID, err)
	}

	var nextTokenVal *string
	results := movements
	if len(movements) > limit {
		last := movements[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.CreatedAt)
		nextTokenVal = &token
		results = movements[:limit]
	}
	return mapping.ToDomainMovementSlice(results), nextTokenVal, nil
}

// FindMovementsByReference retrieves the movements sharing a reference code,
// i.e. the two legs of a transfer.
func (r *PgxMovementRepository) FindMovementsByReference(ctx context.Context, referenceCode string) ([]domain.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE reference_code = $1
		ORDER BY occurred_at, created_at, movement_id;
	`
	rows, err := r.Pool.Query(ctx, query, referenceCode)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query movements by reference "+referenceCode, err)
	}
	defer rows.Close()

	movements := []models.Movement{}
	for rows.Next() {
		m, scanErr := scanMovement(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan movement row for reference "+referenceCode, scanErr)
		}
		movements = append(movements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating movement rows for reference "+referenceCode, err)
	}
	if len(movements) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return mapping.ToDomainMovementSlice(movements), nil
}
