package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	"github.com/Mikisbell/JUNTAY-sub001/internal/models"
	"github.com/Mikisbell/JUNTAY-sub001/internal/utils/mapping"
	"github.com/Mikisbell/JUNTAY-sub001/internal/utils/pagination"
)

const sessionColumns = `
	session_id, register_id, session_number,
	opening_amount, opening_at, opening_notes, opened_by,
	total_ingress, total_egress, movement_count,
	status, system_amount, counted_amount, variance,
	closing_breakdown, closing_notes, closing_at, closed_by,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxSessionRepository struct {
	txRepository
}

// newPgxSessionRepository creates a new repository for cash session data.
func newPgxSessionRepository(pool *pgxpool.Pool) portsrepo.SessionRepositoryFacade {
	return &PgxSessionRepository{txRepository: txRepository{Pool: pool}}
}

var _ portsrepo.SessionRepositoryFacade = (*PgxSessionRepository)(nil)

func scanSession(row pgx.Row) (*models.CashSession, error) {
	var m models.CashSession
	err := row.Scan(
		&m.SessionID,
		&m.RegisterID,
		&m.SessionNumber,
		&m.OpeningAmount,
		&m.OpeningAt,
		&m.OpeningNotes,
		&m.OpenedBy,
		&m.TotalIngress,
		&m.TotalEgress,
		&m.MovementCount,
		&m.Status,
		&m.SystemAmount,
		&m.CountedAmount,
		&m.Variance,
		&m.ClosingBreakdown,
		&m.ClosingNotes,
		&m.ClosingAt,
		&m.ClosedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// lockSessionForUpdate fetches a session row inside tx with a row lock, so
// the balance chain and aggregates cannot move until the tx finishes.
func lockSessionForUpdate(ctx context.Context, tx pgx.Tx, sessionID string) (*domain.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE session_id = $1 FOR UPDATE;`
	m, err := scanSession(tx.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock session "+sessionID, err)
	}
	session, err := mapping.ToDomainCashSession(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map session "+sessionID, err)
	}
	return &session, nil
}

// FindSessionByID retrieves a session by its ID.
func (r *PgxSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE session_id = $1;`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find session by ID "+sessionID, err)
	}
	session, err := mapping.ToDomainCashSession(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map session "+sessionID, err)
	}
	return &session, nil
}

// FindOpenSessionByRegister retrieves the register's current open session.
// The partial unique index guarantees at most one row matches.
func (r *PgxSessionRepository) FindOpenSessionByRegister(ctx context.Context, registerID string) (*domain.CashSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE register_id = $1 AND status = 'OPEN';`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, registerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find open session for register "+registerID, err)
	}
	session, err := mapping.ToDomainCashSession(*m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map session for register "+registerID, err)
	}
	return &session, nil
}

// ListSessionsByRegister retrieves a paginated session history for a
// register, newest first, using token-based pagination.
func (r *PgxSessionRepository) ListSessionsByRegister(ctx context.Context, registerID string, limit int, nextToken *string) ([]domain.CashSession, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + sessionColumns + ` FROM cash_sessions WHERE register_id = $1`
	orderByClause := `ORDER BY opening_at DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{registerID}

	if nextToken != nil && *nextToken != "" {
		lastOpeningAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (opening_at, created_at) < ($2, $3)`
		args = append(args, lastOpeningAt, lastCreatedAt)
		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query sessions for register "+registerID, err)
	}
	defer rows.Close()

	modelSessions := make([]models.CashSession, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan session row for register "+registerID, scanErr)
		}
		modelSessions = append(modelSessions, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating session rows for register "+registerID, err)
	}

	var nextTokenVal *string
	results := modelSessions
	if len(modelSessions) > limit {
		last := modelSessions[limit-1]
		token := pagination.EncodeToken(last.OpeningAt, last.CreatedAt)
		nextTokenVal = &token
		results = modelSessions[:limit]
	}

	sessions := make([]domain.CashSession, len(results))
	for i, m := range results {
		s, mapErr := mapping.ToDomainCashSession(m)
		if mapErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to map session row", mapErr)
		}
		sessions[i] = s
	}
	return sessions, nextTokenVal, nil
}

// OpenSession creates a session for a register within one transaction:
// assigns the next sequential session number under the register row lock,
// inserts the session and its opening movement, records the opening
// reconciliation when counted, and flips the register to OPEN. The partial
// unique index on (register_id) WHERE status = 'OPEN' turns a concurrent
// double-open into a unique violation.
func (r *PgxSessionRepository) OpenSession(ctx context.Context, session domain.CashSession, openingCount *domain.Reconciliation) (*domain.CashSession, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the register row: serializes session numbering per register.
	var registerExists bool
	err = tx.QueryRow(ctx, `SELECT TRUE FROM registers WHERE register_id = $1 FOR UPDATE;`, session.RegisterID).Scan(&registerExists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock register "+session.RegisterID, err)
	}

	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(session_number), 0) + 1 FROM cash_sessions WHERE register_id = $1;`,
		session.RegisterID,
	).Scan(&session.SessionNumber)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute session number for register "+session.RegisterID, err)
	}

	// The opening movement is part of the session from birth.
	session.MovementCount = 1

	m, err := mapping.ToModelCashSession(session)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map session "+session.SessionID, err)
	}
	insertQuery := `
		INSERT INTO cash_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.SessionID, m.RegisterID, m.SessionNumber,
		m.OpeningAmount, m.OpeningAt, m.OpeningNotes, m.OpenedBy,
		m.TotalIngress, m.TotalEgress, m.MovementCount,
		m.Status, m.SystemAmount, m.CountedAmount, m.Variance,
		m.ClosingBreakdown, m.ClosingNotes, m.ClosingAt, m.ClosedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, fmt.Errorf("%w: register %s already has an open session", apperrors.ErrConflict, session.RegisterID)
		}
		return nil, apperrors.NewAppError(500, "failed to insert session "+session.SessionID, err)
	}

	opening := domain.Movement{
		MovementID:      uuid.NewString(),
		SessionID:       session.SessionID,
		RegisterID:      session.RegisterID,
		Kind:            domain.MovementOpening,
		Concept:         "session_opening",
		Amount:          session.OpeningAmount,
		PreviousBalance: decimal.Zero,
		NewBalance:      session.OpeningAmount,
		ActorID:         session.OpenedBy,
		OccurredAt:      session.OpeningAt,
		CreatedAt:       session.OpeningAt,
	}
	if err := insertMovementTx(ctx, tx, opening); err != nil {
		return nil, err
	}

	if openingCount != nil {
		if err := insertReconciliationTx(ctx, tx, *openingCount); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE registers
		SET status = 'OPEN',
		    last_opened_at = $2,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE register_id = $1;
	`, session.RegisterID, session.OpeningAt, session.OpenedBy)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to mark register open "+session.RegisterID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseSession closes an open session in one transaction. Everything derived
// (system amount, variance, status) is computed from the row state under the
// lock so a concurrent movement cannot slip between read and close.
func (r *PgxSessionRepository) CloseSession(ctx context.Context, params portsrepo.CloseSessionParams) (*domain.CashSession, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	session, err := lockSessionForUpdate(ctx, tx, params.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("%w: session %s is %s", apperrors.ErrState, params.SessionID, session.Status)
	}

	system := session.CurrentBalance()

	// The last movement's closing balance must agree with the aggregates
	// before the closing movement is chained onto it. A disagreement means
	// the ledger was tampered with or a write was lost; the session stays
	// open for investigation.
	var lastBalance decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT new_balance FROM movements
		WHERE session_id = $1
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT 1`, params.SessionID).Scan(&lastBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: session %s has no movements, opening entry missing",
				apperrors.ErrIntegrity, params.SessionID)
		}
		return nil, fmt.Errorf("loading last movement for session %s: %w", params.SessionID, err)
	}
	if !lastBalance.Equal(system) {
		return nil, fmt.Errorf("%w: session %s aggregate balance %s, last movement balance %s",
			apperrors.ErrIntegrity, params.SessionID, system.StringFixed(2), lastBalance.StringFixed(2))
	}

	counted := params.Breakdown.Total()
	variance := counted.Sub(system)
	status := domain.ClassifyVariance(variance)

	closing := domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		SessionID:        session.SessionID,
		RegisterID:       session.RegisterID,
		Kind:             domain.ReconciliationClosing,
		SystemAmount:     system,
		CountedAmount:    counted,
		Variance:         variance,
		Breakdown:        params.Breakdown,
		Notes:            params.Notes,
		ActorID:          params.ActorID,
		OccurredAt:       params.Now,
		CreatedAt:        params.Now,
	}
	if err := insertReconciliationTx(ctx, tx, closing); err != nil {
		return nil, err
	}

	// The closing movement empties the till: the full system amount leaves
	// the register and the chain terminates at zero.
	closingMovement := domain.Movement{
		MovementID:      uuid.NewString(),
		SessionID:       session.SessionID,
		RegisterID:      session.RegisterID,
		Kind:            domain.MovementClosing,
		Concept:         "session_closing",
		Amount:          system,
		PreviousBalance: system,
		NewBalance:      decimal.Zero,
		Description:     params.Notes,
		ActorID:         params.ActorID,
		OccurredAt:      params.Now,
		CreatedAt:       params.Now,
	}
	if err := insertMovementTx(ctx, tx, closingMovement); err != nil {
		return nil, err
	}

	session.Status = status
	session.SystemAmount = &system
	session.CountedAmount = &counted
	session.Variance = &variance
	session.ClosingBreakdown = &params.Breakdown
	session.ClosingNotes = params.Notes
	session.ClosingAt = &params.Now
	session.ClosedBy = params.ActorID
	session.TotalEgress = session.TotalEgress.Add(system)
	session.MovementCount++
	session.LastUpdatedAt = params.Now
	session.LastUpdatedBy = params.ActorID

	breakdownJSON, err := json.Marshal(params.Breakdown)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to marshal closing breakdown for session "+params.SessionID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE cash_sessions
		SET status = $2,
		    system_amount = $3,
		    counted_amount = $4,
		    variance = $5,
		    closing_breakdown = $6,
		    closing_notes = $7,
		    closing_at = $8,
		    closed_by = $9,
		    total_egress = $10,
		    movement_count = $11,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE session_id = $1;
	`,
		session.SessionID,
		session.Status,
		system,
		counted,
		variance,
		breakdownJSON,
		session.ClosingNotes,
		params.Now,
		params.ActorID,
		session.TotalEgress,
		session.MovementCount,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update session "+params.SessionID+" on close", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE registers
		SET status = 'CLOSED',
		    last_closing_at = $2,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE register_id = $1;
	`, session.RegisterID, params.Now, params.ActorID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to mark register closed "+session.RegisterID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return session, nil
}

// ReplenishSession appends a replenishment movement for the counted total and
// its intermediate reconciliation in one transaction.
func (r *PgxSessionRepository) ReplenishSession(ctx context.Context, params portsrepo.ReplenishSessionParams) (*domain.Movement, *domain.Reconciliation, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	session, err := lockSessionForUpdate(ctx, tx, params.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.IsOpen() {
		return nil, nil, fmt.Errorf("%w: session %s is %s", apperrors.ErrState, params.SessionID, session.Status)
	}

	counted := params.Breakdown.Total()
	previous := session.CurrentBalance()
	newBalance := previous.Add(counted)

	movement := domain.Movement{
		MovementID:      uuid.NewString(),
		SessionID:       session.SessionID,
		RegisterID:      session.RegisterID,
		Kind:            domain.MovementReplenishmentIn,
		Concept:         params.Concept,
		Amount:          counted,
		PreviousBalance: previous,
		NewBalance:      newBalance,
		Description:     params.Notes,
		ActorID:         params.ActorID,
		OccurredAt:      params.Now,
		CreatedAt:       params.Now,
	}
	if err := insertMovementTx(ctx, tx, movement); err != nil {
		return nil, nil, err
	}

	// What the till received is the counted total. When the replenishment
	// was declared at a different amount (vault slip), the reconciliation
	// keeps the discrepancy on record.
	declared := counted
	if params.DeclaredAmount != nil {
		declared = *params.DeclaredAmount
	}
	record := domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		SessionID:        session.SessionID,
		RegisterID:       session.RegisterID,
		Kind:             domain.ReconciliationIntermediate,
		SystemAmount:     declared,
		CountedAmount:    counted,
		Variance:         counted.Sub(declared),
		Breakdown:        params.Breakdown,
		Notes:            params.Notes,
		ActorID:          params.ActorID,
		OccurredAt:       params.Now,
		CreatedAt:        params.Now,
	}
	if err := insertReconciliationTx(ctx, tx, record); err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE cash_sessions
		SET total_ingress = total_ingress + $2,
		    movement_count = movement_count + 1,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE session_id = $1;
	`, session.SessionID, counted, params.Now, params.ActorID)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to update session aggregates for "+params.SessionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return &movement, &record, nil
}
