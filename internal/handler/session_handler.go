package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcec-dev/feedesk-api/internal/dto"
	"github.com/gcec-dev/feedesk-api/internal/service"
	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
	"github.com/gcec-dev/feedesk-api/pkg/response"
)

// SessionHandler exposes the fee grid session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
	receipts *service.ReceiptService
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(sessions *service.SessionService, receipts *service.ReceiptService) *SessionHandler {
	return &SessionHandler{sessions: sessions, receipts: receipts}
}

// Open starts a session over the roster of the selected year and grade.
func (h *SessionHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	snap, err := h.sessions.Open(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snap)
}

// Grid returns the rendered fee grid, optionally narrowed by search.
func (h *SessionHandler) Grid(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	view, err := h.sessions.Grid(c.Request.Context(), c.Param("id"), search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// SelectCell stages the edit buffer for one student-month cell.
func (h *SessionHandler) SelectCell(c *gin.Context) {
	var req dto.SelectCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	snap, err := h.sessions.SelectCell(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// Save persists the staged entry and closes the edit surface.
func (h *SessionHandler) Save(c *gin.Context) {
	var req dto.SaveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	snap, err := h.sessions.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// Print persists the staged entry and readies the receipt view.
func (h *SessionHandler) Print(c *gin.Context) {
	var req dto.SaveFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	snap, err := h.sessions.SaveAndPrint(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// Receipt streams the PDF voucher for a print-ready session.
func (h *SessionHandler) Receipt(c *gin.Context) {
	pdf, err := h.receipts.Render(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="receipt.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// DeleteEntry removes the selected cell's fee entry.
func (h *SessionHandler) DeleteEntry(c *gin.Context) {
	snap, err := h.sessions.DeleteEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// Close dismisses the edit or receipt surface.
func (h *SessionHandler) Close(c *gin.Context) {
	snap, err := h.sessions.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// End discards the session.
func (h *SessionHandler) End(c *gin.Context) {
	h.sessions.End(c.Request.Context(), c.Param("id"))
	response.NoContent(c)
}
