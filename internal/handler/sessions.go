package handler

import (
	"net/http"

	"github.com/altyebv/restaurant-pos-system/internal/apierror"
	"github.com/altyebv/restaurant-pos-system/internal/dto"
	"github.com/altyebv/restaurant-pos-system/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct{ svc service.SessionService }

func NewSessionHandler(svc service.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Open starts a new cash session for the authenticated cashier.
func (h *SessionHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Current returns the caller's open session, or 404 when there is none.
func (h *SessionHandler) Current(c *gin.Context) {
	resp, err := h.svc.Current(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("no open session"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddExpense records a cash payout against an open session.
func (h *SessionHandler) AddExpense(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AddExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddExpense(c.Request.Context(), principalFrom(c), sessionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close reconciles and ends a session.
func (h *SessionHandler) Close(c *gin.Context) {
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns sessions: all of them for managers, own for cashiers.
func (h *SessionHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetByID returns a single session with its expenses and audit trail.
func (h *SessionHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
