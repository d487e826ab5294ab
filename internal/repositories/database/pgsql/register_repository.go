package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	"github.com/Mikisbell/JUNTAY-sub001/internal/models"
	"github.com/Mikisbell/JUNTAY-sub001/internal/utils/mapping"
)

const registerColumns = `
	register_id, code, name, description, location, status, responsible_user_id,
	last_opened_at, last_closing_at, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRegisterRepository struct {
	txRepository
}

// newPgxRegisterRepository creates a new repository for register configuration data.
func newPgxRegisterRepository(pool *pgxpool.Pool) portsrepo.RegisterRepositoryFacade {
	return &PgxRegisterRepository{txRepository: txRepository{Pool: pool}}
}

var _ portsrepo.RegisterRepositoryFacade = (*PgxRegisterRepository)(nil)

func scanRegister(row pgx.Row) (*models.Register, error) {
	var m models.Register
	err := row.Scan(
		&m.RegisterID,
		&m.Code,
		&m.Name,
		&m.Description,
		&m.Location,
		&m.Status,
		&m.ResponsibleUserID,
		&m.LastOpenedAt,
		&m.LastClosingAt,
		&m.IsActive,
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

// SaveRegister inserts a new register.
func (r *PgxRegisterRepository) SaveRegister(ctx context.Context, register domain.Register) error {
	m := mapping.ToModelRegister(register)
	query := `
		INSERT INTO registers (` + registerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RegisterID,
		m.Code,
		m.Name,
		m.Description,
		m.Location,
		m.Status,
		m.ResponsibleUserID,
		m.LastOpenedAt,
		m.LastClosingAt,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: register with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return apperrors.NewAppError(500, "failed to insert register "+m.RegisterID, err)
	}
	return nil
}

// FindRegisterByID retrieves a register by its ID.
func (r *PgxRegisterRepository) FindRegisterByID(ctx context.Context, registerID string) (*domain.Register, error) {
	query := `SELECT ` + registerColumns + ` FROM registers WHERE register_id = $1;`
	m, err := scanRegister(r.Pool.QueryRow(ctx, query, registerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find register by ID "+registerID, err)
	}
	register := mapping.ToDomainRegister(*m)
	return &register, nil
}

// FindRegisterByCode retrieves a register by its short unique code.
func (r *PgxRegisterRepository) FindRegisterByCode(ctx context.Context, code string) (*domain.Register, error) {
	query := `SELECT ` + registerColumns + ` FROM registers WHERE code = $1;`
	m, err := scanRegister(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find register by code "+code, err)
	}
	register := mapping.ToDomainRegister(*m)
	return &register, nil
}

// ListRegisters retrieves all registers ordered by code.
func (r *PgxRegisterRepository) ListRegisters(ctx context.Context, includeInactive bool) ([]domain.Register, error) {
	query := `SELECT ` + registerColumns + ` FROM registers`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query registers", err)
	}
	defer rows.Close()

	registers := []domain.Register{}
	for rows.Next() {
		m, err := scanRegister(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan register row", err)
		}
		registers = append(registers, mapping.ToDomainRegister(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating register rows", err)
	}
	return registers, nil
}

// UpdateRegister updates the configurable fields of a register. The open or
// closed status is owned by the session lifecycle and is not touched here.
func (r *PgxRegisterRepository) UpdateRegister(ctx context.Context, register domain.Register) error {
	m := mapping.ToModelRegister(register)
	query := `
		UPDATE registers
		SET name = $2,
		    description = $3,
		    location = $4,
		    responsible_user_id = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE register_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.RegisterID,
		m.Name,
		m.Description,
		m.Location,
		m.ResponsibleUserID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update register "+m.RegisterID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("register " + m.RegisterID + " not found for update")
	}
	return nil
}

// DeactivateRegister marks a register inactive.
func (r *PgxRegisterRepository) DeactivateRegister(ctx context.Context, registerID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE registers
		SET is_active = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE register_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, registerID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate register "+registerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("register " + registerID + " not found for deactivation")
	}
	return nil
}
