package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
	"github.com/Mikisbell/JUNTAY-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// sessionHandler handles HTTP requests scoped to one cash session.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
}

func newSessionHandler(ss portssvc.SessionSvcFacade) *sessionHandler {
	return &sessionHandler{sessionService: ss}
}

// registerSessionRoutes registers session-scoped routes.
func registerSessionRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionSvcFacade) {
	h := newSessionHandler(sessionService)

	sessions := rg.Group("/sessions")
	{
		sessions.GET("/:id", h.getSession)
		sessions.GET("/:id/balance", h.getBalance)
		sessions.POST("/:id/close", h.closeSession)
		sessions.POST("/:id/replenish", h.replenishSession)
	}
}

// getSession godoc
// @Summary Get a session by ID
// @Tags sessions
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Failed to retrieve session"
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")

	session, err := h.sessionService.GetSessionByID(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found", slog.String("session_id", sessionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			logger.Error("Failed to get session from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// getBalance godoc
// @Summary Get the live balance of a session
// @Description Returns the system-computed balance cross-checked against the ledger
// @Tags sessions
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Ledger integrity fault or internal error"
// @Security BearerAuth
// @Router /sessions/{id}/balance [get]
func (h *sessionHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")

	session, err := h.sessionService.GetSessionByID(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for balance", slog.String("session_id", sessionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			logger.Error("Failed to get session for balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	balance, err := h.sessionService.CurrentBalance(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Ledger integrity fault on balance read", slog.String("session_id", sessionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger integrity fault, balance cannot be trusted"})
		} else {
			logger.Error("Failed to compute balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		SessionID:     session.SessionID,
		RegisterID:    session.RegisterID,
		Balance:       balance,
		OpeningAmount: session.OpeningAmount,
		TotalIngress:  session.TotalIngress,
		TotalEgress:   session.TotalEgress,
		MovementCount: session.MovementCount,
	})
}

// closeSession godoc
// @Summary Close a cash session
// @Description Closes the session against a counted breakdown and classifies the variance
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   closing body dto.CloseSessionRequest true "Counted breakdown and notes"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session is not open"
// @Failure 500 {object} map[string]string "Failed to close session"
// @Security BearerAuth
// @Router /sessions/{id}/close [post]
func (h *sessionHandler) closeSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")
	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseSession", slog.String("error", err.Error()))
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
	logger.Info("Received request to close session")

	session, err := h.sessionService.CloseSession(c.Request.Context(), sessionID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for closing")
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else if errors.Is(err, apperrors.ErrState) {
			logger.Warn("Session is not open, cannot close")
			c.JSON(http.StatusConflict, gin.H{"error": "Session is not open"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error closing session", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to close session in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close session"})
		}
		return
	}

	logger.Info("Session closed", slog.String("status", string(session.Status)))
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// replenishSession godoc
// @Summary Replenish a session with cash
// @Description Records a mid-session cash injection and its intermediate reconciliation
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   replenishment body dto.ReplenishSessionRequest true "Counted breakdown and origin"
// @Success 201 {object} map[string]interface{} "movement and reconciliation"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session is not open"
// @Failure 500 {object} map[string]string "Failed to replenish session"
// @Security BearerAuth
// @Router /sessions/{id}/replenish [post]
func (h *sessionHandler) replenishSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")
	var req dto.ReplenishSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReplenishSession", slog.String("error", err.Error()))
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
	logger.Info("Received request to replenish session")

	movement, reconciliation, err := h.sessionService.ReplenishSession(c.Request.Context(), sessionID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for replenishment")
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else if errors.Is(err, apperrors.ErrState) {
			logger.Warn("Session is not open, cannot replenish")
			c.JSON(http.StatusConflict, gin.H{"error": "Session is not open"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error replenishing session", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to replenish session in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replenish session"})
		}
		return
	}

	logger.Info("Session replenished", slog.String("movement_id", movement.MovementID), slog.String("amount", movement.Amount.StringFixed(2)))
	c.JSON(http.StatusCreated, gin.H{
		"movement":       dto.ToMovementResponse(movement),
		"reconciliation": dto.ToReconciliationResponse(reconciliation),
	})
}
