package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/core/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
	"github.com/Mikisbell/JUNTAY-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transferHandler handles cross-register cash transfers.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: ts}
}

// registerTransferRoutes registers the transfer routes.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("/:referenceCode", h.getTransfer)
	}
}

// createTransfer godoc
// @Summary Transfer cash between registers
// @Description Moves cash between two open sessions as one atomic operation. Both ledger entries share a reference code.
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "A session is not open"
// @Failure 422 {object} map[string]string "Insufficient funds in source session"
// @Failure 500 {object} map[string]string "Failed to transfer"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("from_session_id", req.FromSessionID),
		slog.String("to_session_id", req.ToSessionID),
		slog.String("actor_id", actorID),
	)
	logger.Info("Received request to transfer cash", slog.String("amount", req.Amount.StringFixed(2)))

	out, in, err := h.transferService.Transfer(c.Request.Context(), req, actorID)
	if err != nil {
		if ife, isIFE := apperrors.IsInsufficientFunds(err); isIFE {
			logger.Warn("Insufficient funds for transfer", slog.String("available", ife.Available.StringFixed(2)), slog.String("requested", ife.Requested.StringFixed(2)))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ife.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for transfer")
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else if errors.Is(err, apperrors.ErrState) {
			logger.Warn("Transfer rejected, a session is not open")
			c.JSON(http.StatusConflict, gin.H{"error": "Both sessions must be open"})
		} else if errors.Is(err, services.ErrTransferSameSession) {
			logger.Warn("Transfer rejected, same source and destination")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error on transfer", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to transfer in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer"})
		}
		return
	}

	logger.Info("Transfer completed", slog.String("reference_code", out.ReferenceCode))
	c.JSON(http.StatusCreated, dto.TransferResponse{
		ReferenceCode: out.ReferenceCode,
		Outgoing:      dto.ToMovementResponse(out),
		Incoming:      dto.ToMovementResponse(in),
	})
}

// getTransfer godoc
// @Summary Get a transfer by reference code
// @Description Retrieves the paired ledger entries of a completed transfer
// @Tags transfers
// @Produce  json
// @Param   referenceCode path string true "Transfer reference code"
// @Success 200 {object} dto.TransferResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transfer not found"
// @Failure 500 {object} map[string]string "Ledger integrity fault or internal error"
// @Security BearerAuth
// @Router /transfers/{referenceCode} [get]
func (h *transferHandler) getTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	referenceCode := c.Param("referenceCode")

	out, in, err := h.transferService.GetTransfer(c.Request.Context(), referenceCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transfer not found", slog.String("reference_code", referenceCode))
			c.JSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		} else if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Ledger integrity fault on transfer lookup", slog.String("reference_code", referenceCode), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get transfer from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transfer"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{
		ReferenceCode: referenceCode,
		Outgoing:      dto.ToMovementResponse(out),
		Incoming:      dto.ToMovementResponse(in),
	})
}
