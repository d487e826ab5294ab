package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Mikisbell/JUNTAY-sub001/internal/apperrors"
	portssvc "github.com/Mikisbell/JUNTAY-sub001/internal/core/ports/services"
	"github.com/Mikisbell/JUNTAY-sub001/internal/dto"
	"github.com/Mikisbell/JUNTAY-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// registerHandler handles HTTP requests related to cash registers and the
// register-scoped session lifecycle.
type registerHandler struct {
	registerService       portssvc.RegisterSvcFacade
	sessionService        portssvc.SessionSvcFacade
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newRegisterHandler(rs portssvc.RegisterSvcFacade, ss portssvc.SessionSvcFacade, cs portssvc.ReconciliationSvcFacade) *registerHandler {
	return &registerHandler{
		registerService:       rs,
		sessionService:        ss,
		reconciliationService: cs,
	}
}

// registerRegisterRoutes registers routes related to registers.
func registerRegisterRoutes(rg *gin.RouterGroup, registerService portssvc.RegisterSvcFacade, sessionService portssvc.SessionSvcFacade, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newRegisterHandler(registerService, sessionService, reconciliationService)

	registers := rg.Group("/registers")
	{
		registers.POST("", h.createRegister)
		registers.GET("", h.listRegisters)
		registers.GET("/:id", h.getRegister)
		registers.PATCH("/:id", h.updateRegister)
		registers.DELETE("/:id", h.deactivateRegister)

		registers.POST("/:id/sessions", h.openSession)
		registers.GET("/:id/sessions", h.listSessions)
		registers.GET("/:id/sessions/current", h.getCurrentSession)
		registers.GET("/:id/balance", h.getRegisterBalance)
		registers.GET("/:id/reconciliations", h.listRegisterReconciliations)
	}
}

// createRegister godoc
// @Summary Create a cash register
// @Description Creates a new register (till). The code must be unique.
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   register body dto.CreateRegisterRequest true "Register details"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Register code already exists"
// @Failure 500 {object} map[string]string "Failed to create register"
// @Security BearerAuth
// @Router /registers [post]
func (h *registerHandler) createRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRegister", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create register", slog.String("register_code", req.Code))

	register, err := h.registerService.CreateRegister(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Register code already exists", slog.String("register_code", req.Code))
			c.JSON(http.StatusConflict, gin.H{"error": "Register code already exists"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating register", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create register in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create register"})
		}
		return
	}

	logger.Info("Register created successfully", slog.String("register_id", register.RegisterID))
	c.JSON(http.StatusCreated, dto.ToRegisterResponse(register))
}

// getRegister godoc
// @Summary Get a register by ID
// @Tags registers
// @Produce  json
// @Param   id path string true "Register ID"
// @Success 200 {object} dto.RegisterResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 500 {object} map[string]string "Failed to retrieve register"
// @Security BearerAuth
// @Router /registers/{id} [get]
func (h *registerHandler) getRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	register, err := h.registerService.GetRegisterByID(c.Request.Context(), registerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Register not found", slog.String("register_id", registerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Register not found"})
		} else {
			logger.Error("Failed to get register from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve register"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRegisterResponse(register))
}

// listRegisters godoc
// @Summary List registers
// @Description Lists registers, active only unless includeInactive=true
// @Tags registers
// @Produce  json
// @Param   includeInactive query bool false "Include deactivated registers"
// @Success 200 {array} dto.RegisterResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list registers"
// @Security BearerAuth
// @Router /registers [get]
func (h *registerHandler) listRegisters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "false"))

	registers, err := h.registerService.ListRegisters(c.Request.Context(), includeInactive)
	if err != nil {
		logger.Error("Failed to list registers from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list registers"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRegisterResponses(registers))
}

// updateRegister godoc
// @Summary Update a register
// @Description Updates register configuration; omitted fields are left unchanged
// @Tags registers
// @Accept  json
// @Produce  json
// @Param   id path string true "Register ID"
// @Param   register body dto.UpdateRegisterRequest true "Fields to update"
// @Success 200 {object} dto.RegisterResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 500 {object} map[string]string "Failed to update register"
// @Security BearerAuth
// @Router /registers/{id} [patch]
func (h *registerHandler) updateRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")
	var req dto.UpdateRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateRegister", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("register_id", registerID), slog.String("updater_user_id", updaterUserID))
	logger.Info("Received request to update register")

	register, err := h.registerService.UpdateRegister(c.Request.Context(), registerID, req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Register not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Register not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating register", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update register in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update register"})
		}
		return
	}

	logger.Info("Register updated successfully")
	c.JSON(http.StatusOK, dto.ToRegisterResponse(register))
}

// deactivateRegister godoc
// @Summary Deactivate a register
// @Description Marks a register inactive. Registers with an open session cannot be deactivated.
// @Tags registers
// @Produce  json
// @Param   id path string true "Register ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 409 {object} map[string]string "Register has an open session"
// @Failure 500 {object} map[string]string "Failed to deactivate register"
// @Security BearerAuth
// @Router /registers/{id} [delete]
func (h *registerHandler) deactivateRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Updater user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("register_id", registerID), slog.String("updater_user_id", updaterUserID))
	logger.Info("Received request to deactivate register")

	err := h.registerService.DeactivateRegister(c.Request.Context(), registerID, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Register not found for deactivation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Register not found"})
		} else if errors.Is(err, apperrors.ErrState) {
			logger.Warn("Register has an open session, cannot deactivate")
			c.JSON(http.StatusConflict, gin.H{"error": "Register has an open session and cannot be deactivated"})
		} else {
			logger.Error("Failed to deactivate register in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate register"})
		}
		return
	}

	logger.Info("Register deactivated successfully")
	c.Status(http.StatusNoContent)
}

// openSession godoc
// @Summary Open a cash session
// @Description Opens the register with an opening float. A register can hold at most one open session.
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   id path string true "Register ID"
// @Param   session body dto.OpenSessionRequest true "Opening details"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 409 {object} map[string]string "Register already has an open session"
// @Failure 500 {object} map[string]string "Failed to open session"
// @Security BearerAuth
// @Router /registers/{id}/sessions [post]
func (h *registerHandler) openSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenSession", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("register_id", registerID), slog.String("actor_id", actorID))
	logger.Info("Received request to open session", slog.String("opening_amount", req.OpeningAmount.StringFixed(2)))

	session, err := h.sessionService.OpenSession(c.Request.Context(), registerID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Register not found for opening")
			c.JSON(http.StatusNotFound, gin.H{"error": "Register not found"})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Register already has an open session")
			c.JSON(http.StatusConflict, gin.H{"error": "Register already has an open session"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error opening session", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to open session in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open session"})
		}
		return
	}

	logger.Info("Session opened successfully", slog.String("session_id", session.SessionID), slog.Int64("session_number", session.SessionNumber))
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

// getCurrentSession godoc
// @Summary Get the register's open session
// @Tags sessions
// @Produce  json
// @Param   id path string true "Register ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register has no open session"
// @Failure 500 {object} map[string]string "Failed to retrieve session"
// @Security BearerAuth
// @Router /registers/{id}/sessions/current [get]
func (h *registerHandler) getCurrentSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	session, err := h.sessionService.GetCurrentSession(c.Request.Context(), registerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Register has no open session", slog.String("register_id", registerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Register has no open session"})
		} else {
			logger.Error("Failed to get current session from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve session"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// getRegisterBalance godoc
// @Summary Get the live balance of the register's open session
// @Tags registers
// @Produce  json
// @Param   id path string true "Register ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register has no open session"
// @Failure 500 {object} map[string]string "Ledger integrity fault or internal error"
// @Security BearerAuth
// @Router /registers/{id}/balance [get]
func (h *registerHandler) getRegisterBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	session, err := h.sessionService.GetCurrentSession(c.Request.Context(), registerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Register has no open session for balance", slog.String("register_id", registerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Register has no open session"})
		} else {
			logger.Error("Failed to get current session for balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	balance, err := h.sessionService.CurrentBalance(c.Request.Context(), session.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Ledger integrity fault on register balance read", slog.String("session_id", session.SessionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ledger integrity fault, balance cannot be trusted"})
		} else {
			logger.Error("Failed to compute register balance", slog.String("error", err.Error()))
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

// listSessions godoc
// @Summary List a register's session history
// @Description Retrieves sessions newest first with cursor pagination
// @Tags sessions
// @Produce  json
// @Param   id path string true "Register ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination cursor from the previous page"
// @Success 200 {object} dto.ListSessionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list sessions"
// @Security BearerAuth
// @Router /registers/{id}/sessions [get]
func (h *registerHandler) listSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	var params dto.ListSessionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListSessions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.sessionService.ListSessionsByRegister(c.Request.Context(), registerID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token for ListSessions", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list sessions from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sessions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listRegisterReconciliations godoc
// @Summary List a register's reconciliation history
// @Tags reconciliations
// @Produce  json
// @Param   id path string true "Register ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(50)
// @Success 200 {array} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list reconciliations"
// @Security BearerAuth
// @Router /registers/{id}/reconciliations [get]
func (h *registerHandler) listRegisterReconciliations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	from, err := parseDateQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date, expected YYYY-MM-DD"})
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date, expected YYYY-MM-DD"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	recs, err := h.reconciliationService.ListByRegister(c.Request.Context(), registerID, from, to, limit)
	if err != nil {
		logger.Error("Failed to list register reconciliations from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reconciliations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponses(recs))
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
