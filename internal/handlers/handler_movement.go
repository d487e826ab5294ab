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

// movementHandler handles HTTP requests against a session's ledger.
type movementHandler struct {
	movementService portssvc.MovementSvcFacade
}

func newMovementHandler(ms portssvc.MovementSvcFacade) *movementHandler {
	return &movementHandler{movementService: ms}
}

// registerMovementRoutes registers ledger routes under the session group.
func registerMovementRoutes(rg *gin.RouterGroup, movementService portssvc.MovementSvcFacade) {
	h := newMovementHandler(movementService)

	sessions := rg.Group("/sessions")
	{
		sessions.POST("/:id/movements", h.appendMovement)
		sessions.GET("/:id/movements", h.listMovements)
		sessions.GET("/:id/verify", h.verifyChain)
	}
}

// appendMovement godoc
// @Summary Record a cash movement
// @Description Appends an ingress or egress entry to an open session's ledger. Lifecycle kinds are rejected.
// @Tags movements
// @Accept  json
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   movement body dto.AppendMovementRequest true "Movement details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session is not open"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to record movement"
// @Security BearerAuth
// @Router /sessions/{id}/movements [post]
func (h *movementHandler) appendMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")
	var req dto.AppendMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AppendMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("session_id", sessionID), slog.String("actor_id", actorID))
	logger.Info("Received request to append movement", slog.String("kind", req.Kind), slog.String("amount", req.Amount.StringFixed(2)))

	movement, err := h.movementService.AppendMovement(c.Request.Context(), sessionID, req, actorID)
	if err != nil {
		if ife, isIFE := apperrors.IsInsufficientFunds(err); isIFE {
			logger.Warn("Insufficient funds for movement", slog.String("available", ife.Available.StringFixed(2)), slog.String("requested", ife.Requested.StringFixed(2)))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ife.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for movement")
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else if errors.Is(err, apperrors.ErrState) {
			logger.Warn("Session is not open, movement rejected")
			c.JSON(http.StatusConflict, gin.H{"error": "Session is not open"})
		} else if errors.Is(err, services.ErrLifecycleKind) {
			logger.Warn("Lifecycle kind rejected on generic append", slog.String("kind", req.Kind))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error appending movement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to append movement in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record movement"})
		}
		return
	}

	logger.Info("Movement recorded", slog.String("movement_id", movement.MovementID), slog.String("new_balance", movement.NewBalance.StringFixed(2)))
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// listMovements godoc
// @Summary List a session's ledger
// @Description Retrieves movements oldest first with kind and date filters
// @Tags movements
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   kind query string false "Filter by movement kind"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Pagination cursor from the previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Security BearerAuth
// @Router /sessions/{id}/movements [get]
func (h *movementHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.movementService.ListMovements(c.Request.Context(), sessionID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for movement listing", slog.String("session_id", sessionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid movement filter", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list movements from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// verifyChain godoc
// @Summary Verify a session's balance chain
// @Description Audits every ledger link and the session aggregates
// @Tags movements
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {object} dto.ChainVerificationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Ledger integrity fault or internal error"
// @Security BearerAuth
// @Router /sessions/{id}/verify [get]
func (h *movementHandler) verifyChain(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")

	report, err := h.movementService.VerifyChain(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for chain verification", slog.String("session_id", sessionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Ledger integrity fault detected", slog.String("session_id", sessionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to verify chain in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify chain"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}
