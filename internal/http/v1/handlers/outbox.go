package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/domain/outbox"
	syncengine "kiranapos/internal/sync"
)

// OutboxHandler exposes queue inspection and retry controls.
type OutboxHandler struct {
	base   *BaseHandler
	repo   outbox.Repository
	engine *syncengine.Engine
}

// NewOutboxHandler creates an outbox handler.
func NewOutboxHandler(base *BaseHandler, repo outbox.Repository, engine *syncengine.Engine) *OutboxHandler {
	return &OutboxHandler{base: base, repo: repo, engine: engine}
}

// RegisterRoutes registers outbox routes on the group.
func (h *OutboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/status", h.Status)
	rg.GET("/recent", h.Recent)
	rg.POST("/retry/:id", h.Retry)
	rg.POST("/retry-failed", h.RetryFailed)
	rg.POST("/clear-done", h.ClearDone)
}

func (h *OutboxHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	pending, err := h.repo.PendingCount(ctx)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	failed, err := h.repo.FailedCount(ctx)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, gin.H{"pending": pending, "failed": failed})
}

func (h *OutboxHandler) Recent(c *gin.Context) {
	limit := h.base.ParseIntQuery(c, "limit", 50)
	entries, err := h.repo.Recent(c.Request.Context(), limit)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	type entryView struct {
		outbox.Entry
		Preview string `json:"preview"`
	}
	views := make([]entryView, 0, len(entries))
	for i := range entries {
		views = append(views, entryView{Entry: entries[i], Preview: syncengine.Preview(&entries[i])})
	}
	h.base.OK(c, views)
}

func (h *OutboxHandler) Retry(c *gin.Context) {
	entryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.base.Error(c, apperror.NewInvalidInput("invalid entry id"))
		return
	}
	if err := h.engine.RetryEntry(c.Request.Context(), entryID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Success(c, "entry queued for retry")
}

func (h *OutboxHandler) RetryFailed(c *gin.Context) {
	n, err := h.engine.ResetFailed(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, gin.H{"reset": n})
}

func (h *OutboxHandler) ClearDone(c *gin.Context) {
	n, err := h.repo.ClearDone(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, gin.H{"cleared": n})
}
