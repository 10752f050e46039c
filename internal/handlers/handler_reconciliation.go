package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/offering_reconciliation/internal/core/domain"
	portssvc "github.com/SscSPs/offering_reconciliation/internal/core/ports/services"
	"github.com/SscSPs/offering_reconciliation/internal/dto"
	"github.com/SscSPs/offering_reconciliation/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// reconciliationHandler handles HTTP requests that drive an operator's count.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: rs,
	}
}

// RegisterReconciliationRoutes registers the session routes on group.
func RegisterReconciliationRoutes(group *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(rs)

	sessions := group.Group("/sessions")
	{
		sessions.POST("", h.startCount)
		sessions.GET("/:sessionID", h.getSession)
		sessions.DELETE("/:sessionID", h.discardSession)
		sessions.PUT("/:sessionID/service", h.setServiceContext)
		sessions.PUT("/:sessionID/denominations/:unitValue", h.setDenominationCount)
		sessions.PUT("/:sessionID/funds/:channel", h.setFundAmount)
		sessions.PUT("/:sessionID/witnesses/:slot", h.setWitness)
		sessions.POST("/:sessionID/verify", h.verify)
		sessions.POST("/:sessionID/back", h.back)
		sessions.POST("/:sessionID/commit", h.commit)
		sessions.POST("/:sessionID/new-count", h.newCount)
		sessions.POST("/:sessionID/reset", h.reset)
	}
}

// operator returns the authenticated operator or writes 401.
func operator(c *gin.Context, logger *slog.Logger) (string, bool) {
	operatorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return operatorID, true
}

// startCount godoc
// @Summary Start a count
// @Description Opens a new reconciliation session for the authenticated operator
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   session body dto.StartCountRequest true "Service being counted"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /sessions [post]
func (h *reconciliationHandler) startCount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operatorID, ok := operator(c, logger)
	if !ok {
		return
	}

	var req dto.StartCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartCount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}
	sc, err := domain.ParseServiceContext(req.ServiceDate, req.ServiceType)
	if err != nil {
		respondError(c, logger, err, "Failed to start count")
		return
	}

	snap, err := h.reconciliationService.StartCount(c.Request.Context(), operatorID, sc)
	if err != nil {
		respondError(c, logger, err, "Failed to start count")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSessionResponse(snap))
}

// getSession godoc
// @Summary Get a count
// @Description Returns the current state, lines and derived totals of a session
// @Tags sessions
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} map[string]string "Session not found"
// @Security BearerAuth
// @Router /sessions/{sessionID} [get]
func (h *reconciliationHandler) getSession(c *gin.Context) {
	h.run(c, "Failed to get session", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.GetSession(c.Request.Context(), sessionID, operatorID)
	})
}

// discardSession godoc
// @Summary Discard a count
// @Description Drops the session. Committed records are not affected.
// @Tags sessions
// @Param   sessionID path string true "Session ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "Commit in progress"
// @Security BearerAuth
// @Router /sessions/{sessionID} [delete]
func (h *reconciliationHandler) discardSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operatorID, ok := operator(c, logger)
	if !ok {
		return
	}
	if err := h.reconciliationService.DiscardSession(c.Request.Context(), c.Param("sessionID"), operatorID); err != nil {
		respondError(c, logger, err, "Failed to discard session")
		return
	}
	c.Status(http.StatusNoContent)
}

// setServiceContext godoc
// @Summary Set the service of a count
// @Description Re-dates the count. Refused once amounts have been entered.
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   service body dto.SetServiceContextRequest true "Service date and type"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Amounts already entered"
// @Security BearerAuth
// @Router /sessions/{sessionID}/service [put]
func (h *reconciliationHandler) setServiceContext(c *gin.Context) {
	var req dto.SetServiceContextRequest
	if !bindJSON(c, &req) {
		return
	}
	sc, err := domain.ParseServiceContext(req.ServiceDate, req.ServiceType)
	if err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "Failed to set service")
		return
	}
	h.run(c, "Failed to set service", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.SetServiceContext(c.Request.Context(), sessionID, operatorID, sc)
	})
}

// setDenominationCount godoc
// @Summary Set a denomination count
// @Description Sets how many notes of the given unit value were counted
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   unitValue path string true "Note value, e.g. 20"
// @Param   count body dto.SetDenominationCountRequest true "Note count"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid count or denomination"
// @Failure 409 {object} map[string]string "Not counting"
// @Security BearerAuth
// @Router /sessions/{sessionID}/denominations/{unitValue} [put]
func (h *reconciliationHandler) setDenominationCount(c *gin.Context) {
	unitValue, err := decimal.NewFromString(c.Param("unitValue"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitValue must be a number"})
		return
	}
	var req dto.SetDenominationCountRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, "Failed to set denomination count", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.SetDenominationCount(c.Request.Context(), sessionID, operatorID, unitValue, *req.Count)
	})
}

// setFundAmount godoc
// @Summary Set a fund amount
// @Description Sets the entered total for COINS, CHEQUES or CARD
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   channel path string true "Fund channel" Enums(COINS, CHEQUES, CARD)
// @Param   amount body dto.SetFundAmountRequest true "Amount as a decimal string"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid amount or channel"
// @Failure 409 {object} map[string]string "Not counting"
// @Security BearerAuth
// @Router /sessions/{sessionID}/funds/{channel} [put]
func (h *reconciliationHandler) setFundAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	channel, err := domain.ParseFundChannel(c.Param("channel"))
	if err != nil {
		respondError(c, logger, err, "Failed to set fund amount")
		return
	}
	var req dto.SetFundAmountRequest
	if !bindJSON(c, &req) {
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		respondError(c, logger, err, "Failed to set fund amount")
		return
	}
	h.run(c, "Failed to set fund amount", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.SetFundAmount(c.Request.Context(), sessionID, operatorID, channel, amount)
	})
}

// setWitness godoc
// @Summary Set a witness
// @Description Stores the name of witness 1 or 2. An empty name clears the slot.
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   slot path int true "Witness slot" Enums(1, 2)
// @Param   witness body dto.SetWitnessRequest true "Witness name"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid slot"
// @Failure 409 {object} map[string]string "Already committed"
// @Security BearerAuth
// @Router /sessions/{sessionID}/witnesses/{slot} [put]
func (h *reconciliationHandler) setWitness(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot must be 1 or 2"})
		return
	}
	var req dto.SetWitnessRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, "Failed to set witness", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.SetWitness(c.Request.Context(), sessionID, operatorID, slot, req.Name)
	})
}

// verify godoc
// @Summary Verify a count
// @Description Moves the count to verification. A zero grand total needs confirmZeroTotal.
// @Tags sessions
// @Accept  json
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Param   verify body dto.VerifyRequest false "Zero total confirmation"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} map[string]string "Not counting"
// @Failure 428 {object} map[string]interface{} "Zero total needs confirmation"
// @Security BearerAuth
// @Router /sessions/{sessionID}/verify [post]
func (h *reconciliationHandler) verify(c *gin.Context) {
	var req dto.VerifyRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	h.run(c, "Failed to verify count", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.Verify(c.Request.Context(), sessionID, operatorID, req.ConfirmZeroTotal)
	})
}

// back godoc
// @Summary Return to counting
// @Tags sessions
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} map[string]string "Not verifying"
// @Security BearerAuth
// @Router /sessions/{sessionID}/back [post]
func (h *reconciliationHandler) back(c *gin.Context) {
	h.run(c, "Failed to return to counting", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.Back(c.Request.Context(), sessionID, operatorID)
	})
}

// commit godoc
// @Summary Commit a count
// @Description Writes the verified count to the ledger. On 503 the draft is kept and the commit may be retried.
// @Tags sessions
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]interface{} "Witnesses missing"
// @Failure 409 {object} map[string]string "Not verifying or commit in progress"
// @Failure 503 {object} map[string]interface{} "Commit failed, retry"
// @Security BearerAuth
// @Router /sessions/{sessionID}/commit [post]
func (h *reconciliationHandler) commit(c *gin.Context) {
	h.run(c, "Failed to commit count", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		snap, err := h.reconciliationService.Commit(c.Request.Context(), sessionID, operatorID)
		if err == nil && snap.Record != nil {
			middleware.GetLoggerFromCtx(c.Request.Context()).Info("Count committed",
				slog.String("session_id", sessionID),
				slog.String("record_id", snap.Record.ID()))
		}
		return snap, err
	})
}

// newCount godoc
// @Summary Start a new count
// @Description Clears a committed session for the next count
// @Tags sessions
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} map[string]string "Not committed"
// @Security BearerAuth
// @Router /sessions/{sessionID}/new-count [post]
func (h *reconciliationHandler) newCount(c *gin.Context) {
	h.run(c, "Failed to start a new count", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.NewCount(c.Request.Context(), sessionID, operatorID)
	})
}

// reset godoc
// @Summary Reset a count
// @Description Clears every entry and returns to counting
// @Tags sessions
// @Produce  json
// @Param   sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} map[string]string "Commit in progress"
// @Security BearerAuth
// @Router /sessions/{sessionID}/reset [post]
func (h *reconciliationHandler) reset(c *gin.Context) {
	h.run(c, "Failed to reset count", func(operatorID, sessionID string) (*domain.SessionSnapshot, error) {
		return h.reconciliationService.Reset(c.Request.Context(), sessionID, operatorID)
	})
}

// run resolves the operator, calls fn and writes the resulting session.
func (h *reconciliationHandler) run(c *gin.Context, fallback string, fn func(operatorID, sessionID string) (*domain.SessionSnapshot, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operatorID, ok := operator(c, logger)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")

	snap, err := fn(operatorID, sessionID)
	if err != nil {
		respondError(c, logger.With(slog.String("session_id", sessionID)), err, fallback)
		return
	}
	c.JSON(http.StatusOK, dto.ToSessionResponse(snap))
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return false
	}
	return true
}
