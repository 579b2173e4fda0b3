package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/reminder"
)

// ReminderHandler serves reminder endpoints.
type ReminderHandler struct {
	base    *BaseHandler
	service *reminder.Service
}

// NewReminderHandler creates a reminder handler.
func NewReminderHandler(base *BaseHandler, service *reminder.Service) *ReminderHandler {
	return &ReminderHandler{base: base, service: service}
}

// RegisterRoutes registers reminder routes on the group.
func (h *ReminderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListOpen)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/done", h.MarkDone)
	rg.DELETE("/:id", h.Delete)
}

type reminderRequest struct {
	Title   string    `json:"title" binding:"required"`
	Amount  float64   `json:"amount"`
	PartyID *id.ID    `json:"partyId"`
	DueAt   time.Time `json:"dueAt" binding:"required"`
}

func (h *ReminderHandler) ListOpen(c *gin.Context) {
	rems, err := h.service.ListOpen(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, rems)
}

func (h *ReminderHandler) Create(c *gin.Context) {
	var req reminderRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	rem := &reminder.Reminder{
		Title:   req.Title,
		Amount:  req.Amount,
		PartyID: req.PartyID,
		DueAt:   req.DueAt,
	}
	if err := h.service.Add(c.Request.Context(), rem); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, rem.ID.String())
}

func (h *ReminderHandler) Update(c *gin.Context) {
	remID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req reminderRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	rem := &reminder.Reminder{
		ID:      remID,
		Title:   req.Title,
		Amount:  req.Amount,
		PartyID: req.PartyID,
		DueAt:   req.DueAt,
	}
	if err := h.service.Update(c.Request.Context(), rem); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, rem)
}

func (h *ReminderHandler) MarkDone(c *gin.Context) {
	remID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.MarkDone(c.Request.Context(), remID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Success(c, "done")
}

func (h *ReminderHandler) Delete(c *gin.Context) {
	remID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), remID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}
