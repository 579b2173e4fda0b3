package handlers

import (
	"github.com/gin-gonic/gin"

	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/transaction"
)

// TransactionHandler serves the transaction lifecycle endpoints.
type TransactionHandler struct {
	base  *BaseHandler
	store *transaction.Store
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(base *BaseHandler, store *transaction.Store) *TransactionHandler {
	return &TransactionHandler{base: base, store: store}
}

// RegisterRoutes registers transaction routes on the group.
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/lines", h.Lines)
	rg.GET("/:id/history", h.History)
	rg.GET("/:id/adjustment", h.Adjustment)

	rg.POST("/sales", h.CreateSale)
	rg.POST("/payments", h.CreatePayment)
	rg.POST("/purchases", h.CreatePurchase)
	rg.POST("/expenses", h.CreateExpense)

	rg.POST("/:id/edit", h.Edit)
	rg.POST("/:id/adjustments", h.CreateAdjustment)
	rg.POST("/:id/finalize", h.Finalize)
	rg.POST("/:id/void", h.Void)
}

type saleLineRequest struct {
	ItemID   id.ID   `json:"itemId" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
}

type saleRequest struct {
	Lines       []saleLineRequest `json:"lines" binding:"required"`
	PaymentMode string            `json:"paymentMode" binding:"required"`
	PartyID     *id.ID            `json:"partyId"`
	Note        string            `json:"note"`
}

func (h *TransactionHandler) CreateSale(c *gin.Context) {
	var req saleRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	lines := make([]transaction.SaleLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, transaction.SaleLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	txn, err := h.store.ProcessSale(c.Request.Context(), transaction.SaleRequest{
		Lines:       lines,
		PaymentMode: transaction.PaymentMode(req.PaymentMode),
		PartyID:     req.PartyID,
		Note:        req.Note,
	})
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, txn.ID.String())
}

type editLineRequest struct {
	LineID       id.ID    `json:"lineId" binding:"required"`
	NewQuantity  float64  `json:"newQuantity" binding:"required"`
	NewUnitPrice *float64 `json:"newUnitPrice"`
}

type editRequest struct {
	Lines       []editLineRequest `json:"lines"`
	PaymentMode *string           `json:"paymentMode"`
	Note        *string           `json:"note"`
	Reason      string            `json:"reason" binding:"required"`
}

func (h *TransactionHandler) Edit(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req editRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	edit := transaction.EditRequest{Reason: req.Reason, Note: req.Note}
	for _, l := range req.Lines {
		edit.Lines = append(edit.Lines, transaction.EditLine{
			LineID:       l.LineID,
			NewQuantity:  l.NewQuantity,
			NewUnitPrice: l.NewUnitPrice,
		})
	}
	if req.PaymentMode != nil {
		mode := transaction.PaymentMode(*req.PaymentMode)
		edit.PaymentMode = &mode
	}

	txn, err := h.store.EditTransaction(c.Request.Context(), txID, edit)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, txn)
}

type deltaItemRequest struct {
	ItemID        id.ID   `json:"itemId" binding:"required"`
	QuantityDelta float64 `json:"quantityDelta"`
	PriceDelta    float64 `json:"priceDelta"`
	TaxDelta      float64 `json:"taxDelta"`
}

type adjustmentRequest struct {
	Deltas []deltaItemRequest `json:"deltas" binding:"required"`
	Reason string             `json:"reason" binding:"required"`
}

func (h *TransactionHandler) CreateAdjustment(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req adjustmentRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	adjReq := transaction.AdjustmentRequest{Reason: req.Reason}
	for _, d := range req.Deltas {
		adjReq.Deltas = append(adjReq.Deltas, transaction.DeltaItem{
			ItemID:        d.ItemID,
			QuantityDelta: d.QuantityDelta,
			PriceDelta:    d.PriceDelta,
			TaxDelta:      d.TaxDelta,
		})
	}

	adj, err := h.store.CreateAdjustment(c.Request.Context(), txID, adjReq)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, adj.ID.String())
}

func (h *TransactionHandler) Finalize(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.FinalizeTransaction(c.Request.Context(), txID); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Success(c, "finalized")
}

type voidRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *TransactionHandler) Void(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req voidRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	if err := h.store.VoidTransaction(c.Request.Context(), txID, req.Reason); err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Success(c, "voided")
}

type paymentRequest struct {
	PartyID id.ID   `json:"partyId" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	Mode    string  `json:"mode" binding:"required"`
	Note    string  `json:"note"`
}

func (h *TransactionHandler) CreatePayment(c *gin.Context) {
	var req paymentRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	txn, err := h.store.RecordPayment(c.Request.Context(), transaction.PaymentRequest{
		PartyID: req.PartyID,
		Amount:  req.Amount,
		Mode:    transaction.PaymentMode(req.Mode),
		Note:    req.Note,
	})
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, txn.ID.String())
}

type purchaseLineRequest struct {
	ItemID    id.ID   `json:"itemId" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required"`
	CostPrice float64 `json:"costPrice"`
}

type purchaseRequest struct {
	VendorID    id.ID                 `json:"vendorId" binding:"required"`
	Lines       []purchaseLineRequest `json:"lines" binding:"required"`
	PaymentMode string                `json:"paymentMode" binding:"required"`
	Note        string                `json:"note"`
}

func (h *TransactionHandler) CreatePurchase(c *gin.Context) {
	var req purchaseRequest
	if !h.base.BindJSON(c, &req) {
		return
	}

	lines := make([]transaction.PurchaseLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, transaction.PurchaseLine{
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			CostPrice: l.CostPrice,
		})
	}

	txn, err := h.store.RecordVendorPurchase(c.Request.Context(), transaction.PurchaseRequest{
		VendorID:    req.VendorID,
		Lines:       lines,
		PaymentMode: transaction.PaymentMode(req.PaymentMode),
		Note:        req.Note,
	})
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, txn.ID.String())
}

type expenseRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	PaymentMode string  `json:"paymentMode" binding:"required"`
	VendorID    *id.ID  `json:"vendorId"`
	Note        string  `json:"note"`
}

func (h *TransactionHandler) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if !h.base.BindJSON(c, &req) {
		return
	}
	txn, err := h.store.RecordExpense(c.Request.Context(), transaction.ExpenseRequest{
		Amount:      req.Amount,
		PaymentMode: transaction.PaymentMode(req.PaymentMode),
		VendorID:    req.VendorID,
		Note:        req.Note,
	})
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.Created(c, txn.ID.String())
}

func (h *TransactionHandler) List(c *gin.Context) {
	limit := h.base.ParseIntQuery(c, "limit", 50)
	txns, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, txns)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	txn, err := h.store.GetByID(c.Request.Context(), txID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, txn)
}

func (h *TransactionHandler) Lines(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	lines, err := h.store.GetLines(c.Request.Context(), txID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, lines)
}

func (h *TransactionHandler) History(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	entries, err := h.store.EditHistory(c.Request.Context(), txID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, entries)
}

func (h *TransactionHandler) Adjustment(c *gin.Context) {
	txID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}
	adj, err := h.store.GetAdjustment(c.Request.Context(), txID)
	if err != nil {
		h.base.Error(c, err)
		return
	}
	h.base.OK(c, adj)
}
