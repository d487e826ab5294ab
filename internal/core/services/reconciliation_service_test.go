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

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockSessionRepo        *MockSessionRepository
	mockReconciliationRepo *MockReconciliationRepository
	service                portssvc.ReconciliationSvcFacade
	session                *domain.CashSession
	actorID                string
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockReconciliationRepo = new(MockReconciliationRepository)
	suite.service = services.NewReconciliationService(suite.mockReconciliationRepo, suite.mockSessionRepo)

	suite.actorID = uuid.NewString()
	suite.session = &domain.CashSession{
		SessionID:     uuid.NewString(),
		RegisterID:    uuid.NewString(),
		OpeningAmount: decimal.NewFromInt(500),
		TotalIngress:  decimal.NewFromInt(80),
		TotalEgress:   decimal.NewFromInt(300),
		Status:        domain.SessionOpen,
	}
}

func (suite *ReconciliationServiceTestSuite) TestCount_MixedDenominations() {
	// 1x200 + 1x50 + 1x20 + 1x10 = 280.00
	total, err := suite.service.Count(domain.Denomination{Bills200: 1, Bills50: 1, Bills20: 1, Bills10: 1})

	suite.Require().NoError(err)
	suite.True(total.Equal(decimal.NewFromInt(280)), "expected 280, got %s", total)
}

func (suite *ReconciliationServiceTestSuite) TestCount_CoinsSumExactly() {
	// 3x0.50 + 2x0.20 + 1x0.10 = 2.00, no float drift allowed
	total, err := suite.service.Count(domain.Denomination{Coins050: 3, Coins020: 2, Coins010: 1})

	suite.Require().NoError(err)
	suite.True(total.Equal(decimal.NewFromInt(2)), "expected 2.00, got %s", total)
}

func (suite *ReconciliationServiceTestSuite) TestCount_NegativeRejected() {
	_, err := suite.service.Count(domain.Denomination{Bills100: -2})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_Balanced() {
	ctx := context.Background()
	// session balance is 280; count exactly 280
	req := dto.ReconcileRequest{Breakdown: dto.DenominationBreakdown{Bills200: 1, Bills50: 1, Bills20: 1, Bills10: 1}}

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.session.SessionID).Return(suite.session, nil).Once()
	suite.mockReconciliationRepo.On("SaveReconciliation", ctx, mock.MatchedBy(func(r domain.Reconciliation) bool {
		return r.Kind == domain.ReconciliationIntermediate &&
			r.SystemAmount.Equal(decimal.NewFromInt(280)) &&
			r.CountedAmount.Equal(decimal.NewFromInt(280)) &&
			r.Variance.IsZero()
	})).Return(nil).Once()

	record, err := suite.service.Reconcile(ctx, suite.session.SessionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(record.IsBalanced())
	suite.mockReconciliationRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_ShortRecordedNotRejected() {
	ctx := context.Background()
	// counted 260 against expected 280: variance -20 is recorded, not an error
	req := dto.ReconcileRequest{Breakdown: dto.DenominationBreakdown{Bills200: 1, Bills50: 1, Bills10: 1}}

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.session.SessionID).Return(suite.session, nil).Once()
	suite.mockReconciliationRepo.On("SaveReconciliation", ctx, mock.MatchedBy(func(r domain.Reconciliation) bool {
		return r.Variance.Equal(decimal.NewFromInt(-20))
	})).Return(nil).Once()

	record, err := suite.service.Reconcile(ctx, suite.session.SessionID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.False(record.IsBalanced())
	suite.True(record.Variance.Equal(decimal.NewFromInt(-20)))
}

func (suite *ReconciliationServiceTestSuite) TestReconcile_SessionClosed() {
	ctx := context.Background()
	closed := *suite.session
	closed.Status = domain.SessionShortOrOver
	req := dto.ReconcileRequest{Breakdown: dto.DenominationBreakdown{Bills100: 1}}

	suite.mockSessionRepo.On("FindSessionByID", ctx, closed.SessionID).Return(&closed, nil).Once()

	_, err := suite.service.Reconcile(ctx, closed.SessionID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrState)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "SaveReconciliation", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestListBySession() {
	ctx := context.Background()
	records := []domain.Reconciliation{{ReconciliationID: uuid.NewString(), SessionID: suite.session.SessionID}}

	suite.mockReconciliationRepo.On("ListReconciliationsBySession", ctx, suite.session.SessionID).Return(records, nil).Once()

	got, err := suite.service.ListBySession(ctx, suite.session.SessionID)

	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
