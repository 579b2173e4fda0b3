package handlers

import (
	"github.com/gin-gonic/gin"

	"kiranapos/internal/domain/party"
)

// PartyHandler serves customer and vendor endpoints.
type PartyHandler struct {
	base    *BaseHandler
	service *party.Service
}

// NewPartyHandler creates a party handler.
func NewPartyHandler(base *BaseHandler, service *party.Service) *PartyHandler {
	return &PartyHandler{base: base, service: service}
}

// RegisterRoutes registers party routes on the group.
func (h *PartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/customers", h.ListCustomers)
	rg.GET("/vendors", h.ListVendors)
	rg.GET("/:id", h.Get)
	rg.POST("/customers", h.CreateCustomer)
	rg.POST("/vendors", h.CreateVendor)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

type partyRequest struct {
	Name       string  `json:"name" binding:"required"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	UPIID      string  `json:"upiId"`
	GSTIN      string  `json:"gstin"`
	StateCode  string  `json:"stateCode"`
	OpeningDue float64 `json:"openingDue"`
}

func (r *partyRequest) toParty() *party.Party {
	return &party.Party{
		Name:       r.Name,
		Phone:      r.Phone,
		Address:    r.Address,
		UPIID:      r.UPIID,
		GSTIN:      r.GSTIN,
		StateCode:  r.StateCode,
		OpeningDue: r.OpeningDue,
	}
}

func (h *PartyHandler) ListCustomers(c *gin.Context) {
	h.list(c, party.KindCustomer)
}

func (h *PartyHandler) ListVendors(c *gin.Context) {
	h.list(c, party.KindVendor)
}

func (h *PartyHandler) list(c *gin.Context, kind party.Kind) {
	parties, err := h.service.List(c.Request.Context(), kind)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, parties)
}

func (h *PartyHandler) Get(c *gin.Context) {
	partyID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), partyID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, p)
}

func (h *PartyHandler) CreateCustomer(c *gin.Context) {
	var req partyRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	p := req.toParty()
	if err := h.service.AddCustomer(c.Request.Context(), p); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, p.ID.String())
}

func (h *PartyHandler) CreateVendor(c *gin.Context) {
	var req partyRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	p := req.toParty()
	if err := h.service.AddVendor(c.Request.Context(), p); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, p.ID.String())
}

func (h *PartyHandler) Update(c *gin.Context) {
	partyID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req partyRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	p := req.toParty()
	p.ID = partyID
	if err := h.service.UpdateParty(c.Request.Context(), p); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, p)
}

func (h *PartyHandler) Delete(c *gin.Context) {
	partyID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteParty(c.Request.Context(), partyID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.NoContent(c)
}
