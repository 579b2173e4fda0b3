package handlers

import (
	"github.com/gin-gonic/gin"

	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/inventory"
)

// ItemHandler serves inventory endpoints.
type ItemHandler struct {
	base    *BaseHandler
	service *inventory.Service
}

// NewItemHandler creates an item handler.
func NewItemHandler(base *BaseHandler, service *inventory.Service) *ItemHandler {
	return &ItemHandler{base: base, service: service}
}

// RegisterRoutes registers item routes on the group.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/search", h.Search)
	rg.GET("/low-stock", h.LowStock)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

type itemRequest struct {
	Name              string  `json:"name" binding:"required"`
	Category          string  `json:"category"`
	SellingPrice      float64 `json:"sellingPrice"`
	CostPrice         float64 `json:"costPrice"`
	Stock             float64 `json:"stock"`
	Unit              string  `json:"unit"`
	IsLoose           bool    `json:"isLoose"`
	GSTPercent        float64 `json:"gstPercent"`
	HSNCode           string  `json:"hsnCode"`
	Barcode           string  `json:"barcode"`
	RackLocation      string  `json:"rackLocation"`
	VendorID          *id.ID  `json:"vendorId"`
	LowStockThreshold float64 `json:"lowStockThreshold"`
}

func (r *itemRequest) toItem() *inventory.Item {
	return &inventory.Item{
		Name:              r.Name,
		Category:          r.Category,
		SellingPrice:      r.SellingPrice,
		CostPrice:         r.CostPrice,
		Stock:             r.Stock,
		Unit:              r.Unit,
		IsLoose:           r.IsLoose,
		GSTPercent:        r.GSTPercent,
		HSNCode:           r.HSNCode,
		Barcode:           r.Barcode,
		RackLocation:      r.RackLocation,
		VendorID:          r.VendorID,
		LowStockThreshold: r.LowStockThreshold,
	}
}

func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, items)
}

func (h *ItemHandler) Search(c *gin.Context) {
	limit := h.base.ParseIntQuery(c, "limit", 50)
	items, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, items)
}

func (h *ItemHandler) LowStock(c *gin.Context) {
	items, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, items)
}

func (h *ItemHandler) Get(c *gin.Context) {
	itemID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, item)
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req itemRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	item := req.toItem()
	if err := h.service.AddItem(c.Request.Context(), item); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, item.ID.String())
}

func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	item := req.toItem()
	item.ID = itemID
	if err := h.service.UpdateItem(c.Request.Context(), item); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, item)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}
