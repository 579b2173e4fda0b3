package handlers

import (
	"github.com/gin-gonic/gin"

	syncengine "kiranapos/internal/sync"
)

// SyncHandler exposes manual sync controls.
type SyncHandler struct {
	base   *BaseHandler
	engine *syncengine.Engine
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(base *BaseHandler, engine *syncengine.Engine) *SyncHandler {
	return &SyncHandler{base: base, engine: engine}
}

// RegisterRoutes registers sync routes on the group.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/trigger", h.Trigger)
	rg.POST("/now", h.Now)
	rg.POST("/failed", h.Failed)
}

// Trigger requests a debounced background pass.
func (h *SyncHandler) Trigger(c *gin.Context) {
	h.engine.Trigger()
	h.base.Success(c, "sync triggered")
}

// Now runs a pass synchronously and returns the result.
func (h *SyncHandler) Now(c *gin.Context) {
	result, err := h.engine.SyncAll(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, result)
}

// Failed retries only FAILED entries synchronously.
func (h *SyncHandler) Failed(c *gin.Context) {
	result, err := h.engine.SyncFailedOnly(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, result)
}
