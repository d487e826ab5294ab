package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RegisterRepo:       newPgxRegisterRepository(dbPool),
		SessionRepo:        newPgxSessionRepository(dbPool),
		MovementRepo:       newPgxMovementRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		UserRepo:           newPgxUserRepository(dbPool),
	}
}
