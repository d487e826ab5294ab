package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
)

// --- Mock RegisterRepository ---

type MockRegisterRepository struct {
	mock.Mock
}

var _ portsrepo.RegisterRepositoryFacade = (*MockRegisterRepository)(nil)

func (m *MockRegisterRepository) FindRegisterByID(ctx context.Context, registerID string) (*domain.Register, error) {
	args := m.Called(ctx, registerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}

func (m *MockRegisterRepository) FindRegisterByCode(ctx context.Context, code string) (*domain.Register, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}

func (m *MockRegisterRepository) ListRegisters(ctx context.Context, includeInactive bool) ([]domain.Register, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Register), args.Error(1)
}

func (m *MockRegisterRepository) SaveRegister(ctx context.Context, register domain.Register) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockRegisterRepository) UpdateRegister(ctx context.Context, register domain.Register) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockRegisterRepository) DeactivateRegister(ctx context.Context, registerID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, registerID, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock SessionRepository ---

type MockSessionRepository struct {
	mock.Mock
}

var _ portsrepo.SessionRepositoryFacade = (*MockSessionRepository)(nil)

func (m *MockSessionRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.CashSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockSessionRepository) FindOpenSessionByRegister(ctx context.Context, registerID string) (*domain.CashSession, error) {
	args := m.Called(ctx, registerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockSessionRepository) ListSessionsByRegister(ctx context.Context, registerID string, limit int, nextToken *string) ([]domain.CashSession, *string, error) {
	args := m.Called(ctx, registerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.CashSession), returnedNextToken, args.Error(2)
}

func (m *MockSessionRepository) OpenSession(ctx context.Context, session domain.CashSession, openingCount *domain.Reconciliation) (*domain.CashSession, error) {
	args := m.Called(ctx, session, openingCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockSessionRepository) CloseSession(ctx context.Context, params portsrepo.CloseSessionParams) (*domain.CashSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockSessionRepository) ReplenishSession(ctx context.Context, params portsrepo.ReplenishSessionParams) (*domain.Movement, *domain.Reconciliation, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Movement), args.Get(1).(*domain.Reconciliation), args.Error(2)
}

// --- Mock MovementRepository ---

type MockMovementRepository struct {
	mock.Mock
}

var _ portsrepo.MovementRepositoryFacade = (*MockMovementRepository)(nil)

func (m *MockMovementRepository) FindMovementsBySession(ctx context.Context, sessionID string) ([]domain.Movement, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) ListMovementsBySession(ctx context.Context, sessionID string, filter portsrepo.MovementFilter, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	args := m.Called(ctx, sessionID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Movement), returnedNextToken, args.Error(2)
}

func (m *MockMovementRepository) FindMovementsByReference(ctx context.Context, referenceCode string) ([]domain.Movement, error) {
	args := m.Called(ctx, referenceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) AppendMovement(ctx context.Context, movement domain.Movement) (*domain.Movement, error) {
	args := m.Called(ctx, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) AppendTransfer(ctx context.Context, out domain.Movement, in domain.Movement) (*domain.Movement, *domain.Movement, error) {
	args := m.Called(ctx, out, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Movement), args.Get(1).(*domain.Movement), args.Error(2)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepositoryFacade = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, reconciliationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ListReconciliationsBySession(ctx context.Context, sessionID string) ([]domain.Reconciliation, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) ListReconciliationsByRegister(ctx context.Context, registerID string, from, to *time.Time, limit int) ([]domain.Reconciliation, error) {
	args := m.Called(ctx, registerID, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

func (m *MockReconciliationRepository) SaveReconciliation(ctx context.Context, record domain.Reconciliation) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
