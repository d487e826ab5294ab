package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portsrepo "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/repositories"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
)

type SessionServiceTestSuite struct {
	suite.Suite
	mockSessionRepo  *MockSessionRepository
	mockRegisterRepo *MockRegisterRepository
	mockMovementRepo *MockMovementRepository
	service          portssvc.SessionSvcFacade
	register         domain.Register
	actorID          string
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockRegisterRepo = new(MockRegisterRepository)
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.service = services.NewSessionService(suite.mockSessionRepo, suite.mockRegisterRepo, suite.mockMovementRepo)

	suite.actorID = uuid.NewString()
	suite.register = domain.Register{
		RegisterID: uuid.NewString(),
		Code:       "CAJA-01",
		Name:       "Caja Principal",
		Status:     domain.RegisterClosed,
		IsActive:   true,
	}
}

func (suite *SessionServiceTestSuite) openSession(opening decimal.Decimal) *domain.CashSession {
	return &domain.CashSession{
		SessionID:     uuid.NewString(),
		RegisterID:    suite.register.RegisterID,
		SessionNumber: 1,
		OpeningAmount: opening,
		OpeningAt:     time.Now().UTC(),
		OpenedBy:      suite.actorID,
		TotalIngress:  decimal.Zero,
		TotalEgress:   decimal.Zero,
		Status:        domain.SessionOpen,
	}
}

func (suite *SessionServiceTestSuite) TestOpenSession_Success() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{OpeningAmount: decimal.NewFromInt(500)}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, suite.register.RegisterID).Return(&suite.register, nil).Once()

	opened := suite.openSession(req.OpeningAmount)
	suite.mockSessionRepo.On("OpenSession", ctx, mock.AnythingOfType("domain.CashSession"), (*domain.Reconciliation)(nil)).
		Return(opened, nil).Once()

	result, err := suite.service.OpenSession(ctx, suite.register.RegisterID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(result.OpeningAmount.Equal(decimal.NewFromInt(500)))
	suite.Equal(domain.SessionOpen, result.Status)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

// Backup registers open without a float; the opening movement chains 0 to 0.
func (suite *SessionServiceTestSuite) TestOpenSession_ZeroFloat() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{OpeningAmount: decimal.Zero}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, suite.register.RegisterID).Return(&suite.register, nil).Once()

	opened := suite.openSession(decimal.Zero)
	suite.mockSessionRepo.On("OpenSession", ctx, mock.MatchedBy(func(s domain.CashSession) bool {
		return s.OpeningAmount.IsZero() && s.RegisterID == suite.register.RegisterID
	}), (*domain.Reconciliation)(nil)).Return(opened, nil).Once()

	result, err := suite.service.OpenSession(ctx, suite.register.RegisterID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(result.OpeningAmount.IsZero())
	suite.Equal(domain.SessionOpen, result.Status)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestOpenSession_WithBreakdown() {
	ctx := context.Background()
	// 2x200 + 1x100 = 500.00
	req := dto.OpenSessionRequest{
		OpeningAmount: decimal.NewFromInt(500),
		Breakdown:     &dto.DenominationBreakdown{Bills200: 2, Bills100: 1},
	}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, suite.register.RegisterID).Return(&suite.register, nil).Once()

	opened := suite.openSession(req.OpeningAmount)
	suite.mockSessionRepo.On("OpenSession", ctx, mock.AnythingOfType("domain.CashSession"), mock.MatchedBy(func(r *domain.Reconciliation) bool {
		return r != nil &&
			r.Kind == domain.ReconciliationOpening &&
			r.CountedAmount.Equal(decimal.NewFromInt(500)) &&
			r.Variance.IsZero()
	})).Return(opened, nil).Once()

	_, err := suite.service.OpenSession(ctx, suite.register.RegisterID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestOpenSession_BreakdownMismatch() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{
		OpeningAmount: decimal.NewFromInt(500),
		Breakdown:     &dto.DenominationBreakdown{Bills200: 2}, // 400.00
	}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, suite.register.RegisterID).Return(&suite.register, nil).Once()

	_, err := suite.service.OpenSession(ctx, suite.register.RegisterID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrOpeningCountMismatch)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "OpenSession", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestOpenSession_NegativeAmount() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{OpeningAmount: decimal.NewFromInt(-1)}

	_, err := suite.service.OpenSession(ctx, suite.register.RegisterID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrOpeningAmountNegative)
	suite.mockRegisterRepo.AssertNotCalled(suite.T(), "FindRegisterByID", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestOpenSession_InactiveRegister() {
	ctx := context.Background()
	inactive := suite.register
	inactive.IsActive = false
	req := dto.OpenSessionRequest{OpeningAmount: decimal.NewFromInt(100)}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, suite.register.RegisterID).Return(&inactive, nil).Once()

	_, err := suite.service.OpenSession(ctx, suite.register.RegisterID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrRegisterInactive)
}

func (suite *SessionServiceTestSuite) TestOpenSession_AlreadyOpen() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{OpeningAmount: decimal.NewFromInt(100)}

	suite.mockRegisterRepo.On("FindRegisterByID", ctx, suite.register.RegisterID).Return(&suite.register, nil).Once()
	suite.mockSessionRepo.On("OpenSession", ctx, mock.AnythingOfType("domain.CashSession"), (*domain.Reconciliation)(nil)).
		Return(nil, apperrors.ErrConflict).Once()

	_, err := suite.service.OpenSession(ctx, suite.register.RegisterID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SessionServiceTestSuite) TestCurrentBalance_MatchesLedger() {
	ctx := context.Background()
	session := suite.openSession(decimal.NewFromInt(500))
	session.TotalIngress = decimal.NewFromInt(80)
	session.TotalEgress = decimal.NewFromInt(300)

	movements := []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementOpening, Amount: decimal.NewFromInt(500), PreviousBalance: decimal.Zero, NewBalance: decimal.NewFromInt(500)},
		{MovementID: uuid.NewString(), Kind: domain.MovementLoanDisburse, Amount: decimal.NewFromInt(300), PreviousBalance: decimal.NewFromInt(500), NewBalance: decimal.NewFromInt(200)},
		{MovementID: uuid.NewString(), Kind: domain.MovementInterestPayment, Amount: decimal.NewFromInt(80), PreviousBalance: decimal.NewFromInt(200), NewBalance: decimal.NewFromInt(280)},
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return(movements, nil).Once()

	balance, err := suite.service.CurrentBalance(ctx, session.SessionID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(280)), "expected 280, got %s", balance)
}

func (suite *SessionServiceTestSuite) TestCurrentBalance_LedgerMismatch() {
	ctx := context.Background()
	session := suite.openSession(decimal.NewFromInt(500))

	movements := []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementOpening, Amount: decimal.NewFromInt(500), PreviousBalance: decimal.Zero, NewBalance: decimal.NewFromInt(450)},
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return(movements, nil).Once()

	_, err := suite.service.CurrentBalance(ctx, session.SessionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *SessionServiceTestSuite) TestCloseSession_Success() {
	ctx := context.Background()
	session := suite.openSession(decimal.NewFromInt(500))
	session.TotalIngress = decimal.NewFromInt(80)
	session.TotalEgress = decimal.NewFromInt(300)
	req := dto.CloseSessionRequest{
		Breakdown: dto.DenominationBreakdown{Bills200: 1, Bills50: 1, Bills20: 1, Bills10: 1}, // 280.00
		Notes:     "end of day",
	}

	movements := []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementOpening, Amount: decimal.NewFromInt(500), PreviousBalance: decimal.Zero, NewBalance: decimal.NewFromInt(500)},
		{MovementID: uuid.NewString(), Kind: domain.MovementLoanDisburse, Amount: decimal.NewFromInt(300), PreviousBalance: decimal.NewFromInt(500), NewBalance: decimal.NewFromInt(200)},
		{MovementID: uuid.NewString(), Kind: domain.MovementInterestPayment, Amount: decimal.NewFromInt(80), PreviousBalance: decimal.NewFromInt(200), NewBalance: decimal.NewFromInt(280)},
	}
	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return(movements, nil).Once()

	system := decimal.NewFromInt(280)
	counted := decimal.NewFromInt(280)
	variance := decimal.Zero
	closed := &domain.CashSession{
		SessionID:     session.SessionID,
		RegisterID:    suite.register.RegisterID,
		Status:        domain.SessionBalanced,
		SystemAmount:  &system,
		CountedAmount: &counted,
		Variance:      &variance,
	}

	suite.mockSessionRepo.On("CloseSession", ctx, mock.MatchedBy(func(p portsrepo.CloseSessionParams) bool {
		return p.SessionID == session.SessionID && p.Breakdown.Total().Equal(decimal.NewFromInt(280)) && p.ActorID == suite.actorID
	})).Return(closed, nil).Once()

	result, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.SessionBalanced, result.Status)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

// A register opened with no float and untouched all day closes with an empty
// count: both lifecycle movements carry amount zero and the session balances.
func (suite *SessionServiceTestSuite) TestCloseSession_AtZeroBalance() {
	ctx := context.Background()
	session := suite.openSession(decimal.Zero)
	req := dto.CloseSessionRequest{Breakdown: dto.DenominationBreakdown{}}

	movements := []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementOpening, Amount: decimal.Zero, PreviousBalance: decimal.Zero, NewBalance: decimal.Zero},
	}
	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return(movements, nil).Once()

	zero := decimal.Zero
	closed := &domain.CashSession{
		SessionID:     session.SessionID,
		RegisterID:    suite.register.RegisterID,
		Status:        domain.SessionBalanced,
		SystemAmount:  &zero,
		CountedAmount: &zero,
		Variance:      &zero,
	}
	suite.mockSessionRepo.On("CloseSession", ctx, mock.MatchedBy(func(p portsrepo.CloseSessionParams) bool {
		return p.SessionID == session.SessionID && p.Breakdown.Total().IsZero()
	})).Return(closed, nil).Once()

	result, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.SessionBalanced, result.Status)
	suite.True(result.Variance.IsZero())
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestCloseSession_LedgerMismatch() {
	ctx := context.Background()
	session := suite.openSession(decimal.NewFromInt(500))
	req := dto.CloseSessionRequest{Breakdown: dto.DenominationBreakdown{Bills100: 5}}

	// The ledger says 450 but the aggregates say 500; the close must not run.
	movements := []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementOpening, Amount: decimal.NewFromInt(500), PreviousBalance: decimal.Zero, NewBalance: decimal.NewFromInt(450)},
	}
	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return(movements, nil).Once()

	_, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "CloseSession", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestCloseSession_NotOpen() {
	ctx := context.Background()
	session := suite.openSession(decimal.NewFromInt(100))
	req := dto.CloseSessionRequest{Breakdown: dto.DenominationBreakdown{Bills100: 1}}

	movements := []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementOpening, Amount: decimal.NewFromInt(100), PreviousBalance: decimal.Zero, NewBalance: decimal.NewFromInt(100)},
	}
	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return(movements, nil).Once()
	suite.mockSessionRepo.On("CloseSession", ctx, mock.AnythingOfType("repositories.CloseSessionParams")).
		Return(nil, apperrors.ErrState).Once()

	_, err := suite.service.CloseSession(ctx, session.SessionID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrState)
}

func (suite *SessionServiceTestSuite) TestCloseSession_NegativeCount() {
	ctx := context.Background()
	req := dto.CloseSessionRequest{Breakdown: dto.DenominationBreakdown{Bills100: -1}}

	_, err := suite.service.CloseSession(ctx, uuid.NewString(), req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "CloseSession", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestReplenishSession_Success() {
	ctx := context.Background()
	sessionID := uuid.NewString()
	declared := decimal.NewFromInt(1000)
	req := dto.ReplenishSessionRequest{
		Breakdown:      dto.DenominationBreakdown{Bills200: 5}, // 1000.00
		DeclaredAmount: &declared,
		Origin:         "vault",
	}

	movement := &domain.Movement{
		MovementID: uuid.NewString(),
		SessionID:  sessionID,
		Kind:       domain.MovementReplenishmentIn,
		Amount:     decimal.NewFromInt(1000),
	}
	record := &domain.Reconciliation{
		ReconciliationID: uuid.NewString(),
		SessionID:        sessionID,
		Kind:             domain.ReconciliationIntermediate,
		Variance:         decimal.Zero,
	}

	suite.mockSessionRepo.On("ReplenishSession", ctx, mock.MatchedBy(func(p portsrepo.ReplenishSessionParams) bool {
		return p.SessionID == sessionID && p.Breakdown.Total().Equal(decimal.NewFromInt(1000)) && p.Concept == "vault"
	})).Return(movement, record, nil).Once()

	gotMovement, gotRecord, err := suite.service.ReplenishSession(ctx, sessionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.MovementReplenishmentIn, gotMovement.Kind)
	suite.Equal(domain.ReconciliationIntermediate, gotRecord.Kind)
}

func (suite *SessionServiceTestSuite) TestReplenishSession_EmptyBreakdown() {
	ctx := context.Background()
	req := dto.ReplenishSessionRequest{Breakdown: dto.DenominationBreakdown{}}

	_, _, err := suite.service.ReplenishSession(ctx, uuid.NewString(), req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "ReplenishSession", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestListSessionsByRegister_DefaultLimit() {
	ctx := context.Background()
	sessions := []domain.CashSession{*suite.openSession(decimal.NewFromInt(100))}

	suite.mockSessionRepo.On("ListSessionsByRegister", ctx, suite.register.RegisterID, 20, (*string)(nil)).
		Return(sessions, nil, nil).Once()

	resp, err := suite.service.ListSessionsByRegister(ctx, suite.register.RegisterID, dto.ListSessionsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Sessions, 1)
	suite.Nil(resp.NextToken)
}

func TestSessionService(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
