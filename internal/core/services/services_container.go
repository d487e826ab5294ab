package services

import (
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Register = NewRegisterService(repos.RegisterRepo)
	container.Session = NewSessionService(repos.SessionRepo, repos.RegisterRepo, repos.MovementRepo)
	container.Movement = NewMovementService(repos.MovementRepo, repos.SessionRepo)
	container.Reconciliation = NewReconciliationService(repos.ReconciliationRepo, repos.SessionRepo)
	container.Transfer = NewTransferService(repos.MovementRepo, repos.SessionRepo)
	container.User = NewUserService(repos.UserRepo)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.RegisterSvcFacade       = (*registerService)(nil)
	_ portssvc.SessionSvcFacade        = (*sessionService)(nil)
	_ portssvc.MovementSvcFacade       = (*movementService)(nil)
	_ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)
	_ portssvc.TransferSvcFacade       = (*transferService)(nil)
	_ portssvc.UserSvcFacade           = (*userService)(nil)
)
