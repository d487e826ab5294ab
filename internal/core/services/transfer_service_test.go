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

type TransferServiceTestSuite struct {
	suite.Suite
	mockSessionRepo  *MockSessionRepository
	mockMovementRepo *MockMovementRepository
	service          portssvc.TransferSvcFacade
	source           *domain.CashSession
	dest             *domain.CashSession
	actorID          string
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.service = services.NewTransferService(suite.mockMovementRepo, suite.mockSessionRepo)

	suite.actorID = uuid.NewString()
	suite.source = &domain.CashSession{
		SessionID:     uuid.NewString(),
		RegisterID:    uuid.NewString(),
		OpeningAmount: decimal.NewFromInt(1000),
		Status:        domain.SessionOpen,
	}
	suite.dest = &domain.CashSession{
		SessionID:     uuid.NewString(),
		RegisterID:    uuid.NewString(),
		OpeningAmount: decimal.NewFromInt(200),
		Status:        domain.SessionOpen,
	}
}

func (suite *TransferServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	req := dto.TransferRequest{
		FromSessionID: suite.source.SessionID,
		ToSessionID:   suite.dest.SessionID,
		Amount:        decimal.NewFromInt(300),
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.source.SessionID).Return(suite.source, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.dest.SessionID).Return(suite.dest, nil).Once()

	var capturedOut, capturedIn domain.Movement
	suite.mockMovementRepo.On("AppendTransfer", ctx,
		mock.MatchedBy(func(out domain.Movement) bool {
			capturedOut = out
			return out.Kind == domain.MovementTransferOut && out.SessionID == suite.source.SessionID
		}),
		mock.MatchedBy(func(in domain.Movement) bool {
			capturedIn = in
			return in.Kind == domain.MovementTransferIn && in.SessionID == suite.dest.SessionID
		}),
	).Return(
		&domain.Movement{Kind: domain.MovementTransferOut, SessionID: suite.source.SessionID},
		&domain.Movement{Kind: domain.MovementTransferIn, SessionID: suite.dest.SessionID},
		nil,
	).Once()

	out, in, err := suite.service.Transfer(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(out)
	suite.Require().NotNil(in)
	suite.NotEmpty(capturedOut.ReferenceCode)
	suite.Equal(capturedOut.ReferenceCode, capturedIn.ReferenceCode, "both legs must share a reference code")
	suite.True(capturedOut.Amount.Equal(capturedIn.Amount))
	suite.Equal(capturedOut.OccurredAt, capturedIn.OccurredAt)
}

func (suite *TransferServiceTestSuite) TestTransfer_SameSession() {
	ctx := context.Background()
	req := dto.TransferRequest{
		FromSessionID: suite.source.SessionID,
		ToSessionID:   suite.source.SessionID,
		Amount:        decimal.NewFromInt(10),
	}

	_, _, err := suite.service.Transfer(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTransferSameSession)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "FindSessionByID", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.TransferRequest{
		FromSessionID: suite.source.SessionID,
		ToSessionID:   suite.dest.SessionID,
		Amount:        decimal.Zero,
	}

	_, _, err := suite.service.Transfer(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAmountNotPositive)
}

func (suite *TransferServiceTestSuite) TestTransfer_SourceClosed() {
	ctx := context.Background()
	closed := *suite.source
	closed.Status = domain.SessionBalanced
	req := dto.TransferRequest{
		FromSessionID: closed.SessionID,
		ToSessionID:   suite.dest.SessionID,
		Amount:        decimal.NewFromInt(50),
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, closed.SessionID).Return(&closed, nil).Once()

	_, _, err := suite.service.Transfer(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrState)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "AppendTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_InsufficientFunds() {
	ctx := context.Background()
	req := dto.TransferRequest{
		FromSessionID: suite.source.SessionID,
		ToSessionID:   suite.dest.SessionID,
		Amount:        decimal.NewFromInt(5000),
	}

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.source.SessionID).Return(suite.source, nil).Once()
	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.dest.SessionID).Return(suite.dest, nil).Once()
	suite.mockMovementRepo.On("AppendTransfer", ctx, mock.AnythingOfType("domain.Movement"), mock.AnythingOfType("domain.Movement")).
		Return(nil, nil, apperrors.NewInsufficientFundsError(suite.source.SessionID, decimal.NewFromInt(1000), decimal.NewFromInt(5000))).Once()

	_, _, err := suite.service.Transfer(ctx, req, suite.actorID)

	suite.Require().Error(err)
	_, ok := apperrors.IsInsufficientFunds(err)
	suite.True(ok)
}

func (suite *TransferServiceTestSuite) TestGetTransfer_Success() {
	ctx := context.Background()
	ref := "TRF-" + uuid.NewString()
	legs := []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementTransferOut, SessionID: suite.source.SessionID, ReferenceCode: ref},
		{MovementID: uuid.NewString(), Kind: domain.MovementTransferIn, SessionID: suite.dest.SessionID, ReferenceCode: ref},
	}

	suite.mockMovementRepo.On("FindMovementsByReference", ctx, ref).Return(legs, nil).Once()

	out, in, err := suite.service.GetTransfer(ctx, ref)

	suite.Require().NoError(err)
	suite.Equal(domain.MovementTransferOut, out.Kind)
	suite.Equal(domain.MovementTransferIn, in.Kind)
	suite.Equal(suite.source.SessionID, out.SessionID)
	suite.Equal(suite.dest.SessionID, in.SessionID)
}

func (suite *TransferServiceTestSuite) TestGetTransfer_NotFound() {
	ctx := context.Background()
	ref := "TRF-" + uuid.NewString()

	suite.mockMovementRepo.On("FindMovementsByReference", ctx, ref).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GetTransfer(ctx, ref)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransferServiceTestSuite) TestGetTransfer_MissingLeg() {
	ctx := context.Background()
	ref := "TRF-" + uuid.NewString()
	legs := []domain.Movement{
		{MovementID: uuid.NewString(), Kind: domain.MovementTransferOut, SessionID: suite.source.SessionID, ReferenceCode: ref},
	}

	suite.mockMovementRepo.On("FindMovementsByReference", ctx, ref).Return(legs, nil).Once()

	_, _, err := suite.service.GetTransfer(ctx, ref)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func TestTransferService(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
