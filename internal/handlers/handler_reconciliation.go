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

// reconciliationHandler handles HTTP requests for mid-session cash counts.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(cs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: cs}
}

// registerReconciliationRoutes registers session-scoped reconciliation routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	sessions := rg.Group("/sessions")
	{
		sessions.POST("/:id/reconciliations", h.reconcile)
		sessions.GET("/:id/reconciliations", h.listSessionReconciliations)
	}
}

// reconcile godoc
// @Summary Record an intermediate cash count
// @Description Compares the counted breakdown to the system balance and records the variance. A variance never blocks the session.
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   id path string true "Session ID"
// @Param   count body dto.ReconcileRequest true "Counted breakdown"
// @Success 201 {object} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Session is not open"
// @Failure 500 {object} map[string]string "Failed to record reconciliation"
// @Security BearerAuth
// @Router /sessions/{id}/reconciliations [post]
func (h *reconciliationHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reconcile", slog.String("error", err.Error()))
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
	logger.Info("Received request to reconcile session")

	rec, err := h.reconciliationService.Reconcile(c.Request.Context(), sessionID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for reconciliation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else if errors.Is(err, apperrors.ErrState) {
			logger.Warn("Session is not open, reconciliation rejected")
			c.JSON(http.StatusConflict, gin.H{"error": "Session is not open"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error reconciling session", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reconcile session in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation recorded", slog.String("reconciliation_id", rec.ReconciliationID), slog.String("variance", rec.Variance.StringFixed(2)))
	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(rec))
}

// listSessionReconciliations godoc
// @Summary List a session's reconciliations
// @Tags reconciliations
// @Produce  json
// @Param   id path string true "Session ID"
// @Success 200 {array} dto.ReconciliationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 500 {object} map[string]string "Failed to list reconciliations"
// @Security BearerAuth
// @Router /sessions/{id}/reconciliations [get]
func (h *reconciliationHandler) listSessionReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sessionID := c.Param("id")

	recs, err := h.reconciliationService.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Session not found for reconciliation listing", slog.String("session_id", sessionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		} else {
			logger.Error("Failed to list reconciliations from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reconciliations"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponses(recs))
}
