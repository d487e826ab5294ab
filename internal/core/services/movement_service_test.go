package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/domain"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
)

type MovementServiceTestSuite struct {
	suite.Suite
	mockSessionRepo  *MockSessionRepository
	mockMovementRepo *MockMovementRepository
	service          portssvc.MovementSvcFacade
	session          *domain.CashSession
	actorID          string
}

func (suite *MovementServiceTestSuite) SetupTest() {
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.service = services.NewMovementService(suite.mockMovementRepo, suite.mockSessionRepo)

	suite.actorID = uuid.NewString()
	suite.session = &domain.CashSession{
		SessionID:     uuid.NewString(),
		RegisterID:    uuid.NewString(),
		SessionNumber: 7,
		OpeningAmount: decimal.NewFromInt(500),
		TotalIngress:  decimal.Zero,
		TotalEgress:   decimal.Zero,
		Status:        domain.SessionOpen,
	}
}

func (suite *MovementServiceTestSuite) TestAppendMovement_Success() {
	ctx := context.Background()
	req := dto.AppendMovementRequest{
		Kind:    string(domain.MovementInterestPayment),
		Amount:  decimal.NewFromInt(80),
		Concept: "interest_payment",
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.session.SessionID).Return(suite.session, nil).Once()

	appended := &domain.Movement{
		MovementID:      uuid.NewString(),
		SessionID:       suite.session.SessionID,
		Kind:            domain.MovementInterestPayment,
		Amount:          decimal.NewFromInt(80),
		PreviousBalance: decimal.NewFromInt(500),
		NewBalance:      decimal.NewFromInt(580),
	}
	suite.mockMovementRepo.On("AppendMovement", ctx, mock.MatchedBy(func(m domain.Movement) bool {
		return m.SessionID == suite.session.SessionID &&
			m.RegisterID == suite.session.RegisterID &&
			m.Kind == domain.MovementInterestPayment &&
			m.ActorID == suite.actorID
	})).Return(appended, nil).Once()

	result, err := suite.service.AppendMovement(ctx, suite.session.SessionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(result.NewBalance.Equal(decimal.NewFromInt(580)))
	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *MovementServiceTestSuite) TestAppendMovement_LifecycleKindRejected() {
	ctx := context.Background()
	for _, kind := range []domain.MovementKind{
		domain.MovementOpening,
		domain.MovementClosing,
		domain.MovementTransferIn,
		domain.MovementTransferOut,
	} {
		req := dto.AppendMovementRequest{Kind: string(kind), Amount: decimal.NewFromInt(10), Concept: "x"}

		_, err := suite.service.AppendMovement(ctx, suite.session.SessionID, req, suite.actorID)

		suite.Require().Error(err, "kind %s must be rejected", kind)
		suite.ErrorIs(err, services.ErrLifecycleKind)
	}
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "AppendMovement", mock.Anything, mock.Anything)
}

func (suite *MovementServiceTestSuite) TestAppendMovement_UnknownKind() {
	ctx := context.Background()
	req := dto.AppendMovementRequest{Kind: "PIZZA", Amount: decimal.NewFromInt(10), Concept: "x"}

	_, err := suite.service.AppendMovement(ctx, suite.session.SessionID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MovementServiceTestSuite) TestAppendMovement_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.AppendMovementRequest{Kind: string(domain.MovementExpensePayment), Amount: decimal.Zero, Concept: "x"}

	_, err := suite.service.AppendMovement(ctx, suite.session.SessionID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmountNotPositive)
}

func (suite *MovementServiceTestSuite) TestAppendMovement_SessionClosed() {
	ctx := context.Background()
	closed := *suite.session
	closed.Status = domain.SessionBalanced
	req := dto.AppendMovementRequest{Kind: string(domain.MovementOtherIncome), Amount: decimal.NewFromInt(5), Concept: "x"}

	suite.mockSessionRepo.On("FindSessionByID", ctx, closed.SessionID).Return(&closed, nil).Once()

	_, err := suite.service.AppendMovement(ctx, closed.SessionID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrState)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "AppendMovement", mock.Anything, mock.Anything)
}

func (suite *MovementServiceTestSuite) TestAppendMovement_InsufficientFunds() {
	ctx := context.Background()
	req := dto.AppendMovementRequest{
		Kind:    string(domain.MovementLoanDisburse),
		Amount:  decimal.NewFromInt(900),
		Concept: "loan_disbursement",
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.session.SessionID).Return(suite.session, nil).Once()
	suite.mockMovementRepo.On("AppendMovement", ctx, mock.AnythingOfType("domain.Movement")).
		Return(nil, apperrors.NewInsufficientFundsError(suite.session.SessionID, decimal.NewFromInt(500), decimal.NewFromInt(900))).Once()

	_, err := suite.service.AppendMovement(ctx, suite.session.SessionID, req, suite.actorID)

	suite.Require().Error(err)
	ife, ok := apperrors.IsInsufficientFunds(err)
	suite.Require().True(ok)
	suite.True(ife.Available.Equal(decimal.NewFromInt(500)))
	suite.True(ife.Requested.Equal(decimal.NewFromInt(900)))
}

func (suite *MovementServiceTestSuite) TestListMovements_InvalidKindFilter() {
	ctx := context.Background()

	_, err := suite.service.ListMovements(ctx, suite.session.SessionID, dto.ListMovementsParams{Kind: "NOPE"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *MovementServiceTestSuite) chainFixture() []domain.Movement {
	// opening 500, -300 loan, +80 interest: balance 280
	return []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementOpening, Amount: decimal.NewFromInt(500), PreviousBalance: decimal.Zero, NewBalance: decimal.NewFromInt(500)},
		{MovementID: uuid.NewString(), Kind: domain.MovementLoanDisburse, Amount: decimal.NewFromInt(300), PreviousBalance: decimal.NewFromInt(500), NewBalance: decimal.NewFromInt(200)},
		{MovementID: uuid.NewString(), Kind: domain.MovementInterestPayment, Amount: decimal.NewFromInt(80), PreviousBalance: decimal.NewFromInt(200), NewBalance: decimal.NewFromInt(280)},
	}
}

func (suite *MovementServiceTestSuite) TestVerifyChain_Intact() {
	ctx := context.Background()
	session := suite.session
	session.TotalIngress = decimal.NewFromInt(80)
	session.TotalEgress = decimal.NewFromInt(300)
	session.MovementCount = 3

	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return(suite.chainFixture(), nil).Once()

	resp, err := suite.service.VerifyChain(ctx, session.SessionID)

	suite.Require().NoError(err)
	suite.True(resp.Intact)
	suite.Equal(int64(3), resp.MovementCount)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(280)))
}

func (suite *MovementServiceTestSuite) TestVerifyChain_BrokenLink() {
	ctx := context.Background()
	movements := suite.chainFixture()
	movements[2].PreviousBalance = decimal.NewFromInt(210) // does not match prior new_balance

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.session.SessionID).Return(suite.session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, suite.session.SessionID).Return(movements, nil).Once()

	_, err := suite.service.VerifyChain(ctx, suite.session.SessionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *MovementServiceTestSuite) TestVerifyChain_AggregateMismatch() {
	ctx := context.Background()
	session := suite.session
	session.TotalIngress = decimal.NewFromInt(999)
	session.TotalEgress = decimal.NewFromInt(300)
	session.MovementCount = 3

	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return(suite.chainFixture(), nil).Once()

	_, err := suite.service.VerifyChain(ctx, session.SessionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *MovementServiceTestSuite) TestVerifyChain_EmptyLedger() {
	ctx := context.Background()
	session := suite.session
	session.MovementCount = 0

	suite.mockSessionRepo.On("FindSessionByID", ctx, session.SessionID).Return(session, nil).Once()
	suite.mockMovementRepo.On("FindMovementsBySession", ctx, session.SessionID).Return([]domain.Movement{}, nil).Once()

	resp, err := suite.service.VerifyChain(ctx, session.SessionID)

	suite.Require().NoError(err)
	suite.True(resp.Intact)
	suite.True(resp.Balance.Equal(session.OpeningAmount))
}

func TestMovementService(t *testing.T) {
	suite.Run(t, new(MovementServiceTestSuite))
}
