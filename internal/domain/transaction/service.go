package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kiranapos/internal/core/actor"
	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/core/tx"
	"kiranapos/internal/core/types"
	"kiranapos/internal/domain/audit"
	"kiranapos/internal/domain/inventory"
	"kiranapos/internal/domain/outbox"
	"kiranapos/internal/domain/party"
	"kiranapos/pkg/logger"
)

// Store orchestrates the transaction lifecycle. Every mutating method runs
// one unit of work over the transaction rows, the stock ledger, the party
// ledger, and the audit trail, then enqueues exactly one outbox op and
// wakes the sync engine.
type Store struct {
	repo       Repository
	items      *inventory.Service
	parties    *party.Service
	auditRepo  audit.Repository
	outboxRepo outbox.Repository
	txManager  tx.Manager
	notifier   outbox.Notifier
}

// NewStore creates the transaction store.
func NewStore(
	repo Repository,
	items *inventory.Service,
	parties *party.Service,
	auditRepo audit.Repository,
	outboxRepo outbox.Repository,
	txManager tx.Manager,
	notifier outbox.Notifier,
) *Store {
	if notifier == nil {
		notifier = outbox.NopNotifier{}
	}
	return &Store{
		repo:       repo,
		items:      items,
		parties:    parties,
		auditRepo:  auditRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		notifier:   notifier,
	}
}

// canEdit is the role table for direct edits.
func canEdit(status Status, role actor.Role) bool {
	switch status {
	case StatusDraft:
		return role == actor.RoleOwner || role == actor.RoleManager || role == actor.RoleCashier
	case StatusPosted:
		return role == actor.RoleOwner || role == actor.RoleManager
	default:
		return false
	}
}

// ProcessSale records a sale. Stock is decremented for every line inside
// one transaction; if any line has insufficient stock the whole operation
// rolls back and the error carries the full offending item set.
func (s *Store) ProcessSale(ctx context.Context, req SaleRequest) (*Transaction, error) {
	if len(req.Lines) == 0 {
		return nil, apperror.NewInvalidInput("sale needs at least one line")
	}
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, apperror.NewInvalidInput("line quantity must be positive")
		}
	}
	if req.PaymentMode == ModeCredit && req.PartyID == nil {
		return nil, apperror.NewInvalidInput("credit sale needs a customer")
	}

	now := time.Now()
	txn := &Transaction{
		ID:          id.New(),
		Type:        TypeSale,
		PaymentMode: req.PaymentMode,
		PartyID:     req.PartyID,
		Status:      StatusPosted,
		Note:        req.Note,
		OccurredAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		itemIDs := make([]id.ID, 0, len(req.Lines))
		for _, l := range req.Lines {
			itemIDs = append(itemIDs, l.ItemID)
		}
		found, err := s.items.GetByIDs(ctx, itemIDs)
		if err != nil {
			return err
		}
		byID := make(map[id.ID]*inventory.Item, len(found))
		for i := range found {
			byID[found[i].ID] = &found[i]
		}

		var offending []id.ID
		lines := make([]Line, 0, len(req.Lines))
		movements := make([]audit.StockMovement, 0, len(req.Lines))
		total := 0.0

		for _, rl := range req.Lines {
			item, ok := byID[rl.ItemID]
			if !ok {
				return apperror.NewNotFound("item", rl.ItemID)
			}

			ok, err := s.items.Consume(ctx, item, rl.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Keep going so the conflict names every short line,
				// the rollback undoes the decrements that did land.
				offending = append(offending, item.ID)
				continue
			}

			itemID := item.ID
			line := Line{
				ID:            id.New(),
				TransactionID: txn.ID,
				ItemID:        &itemID,
				ItemName:      item.Name,
				Quantity:      rl.Quantity,
				Unit:          unitFor(item),
				UnitPrice:     item.SellingPrice,
				GSTPercent:    item.GSTPercent,
				CreatedAt:     now,
			}
			line.applyTax()
			lines = append(lines, line)
			total += line.Total()

			movements = append(movements, audit.StockMovement{
				ID:            id.New(),
				ItemID:        item.ID,
				Delta:         -rl.Quantity,
				Source:        audit.SourceSale,
				TransactionID: &txn.ID,
				ActorID:       actorIDPtr(ctx),
				CreatedAt:     now,
			})
		}

		if len(offending) > 0 {
			return apperror.NewStockConflict(offending)
		}

		txn.Amount = types.RoundPaise(total)
		if err := s.repo.Create(ctx, txn, lines); err != nil {
			return err
		}

		if req.PaymentMode == ModeCredit {
			if err := s.parties.ApplyBalanceDelta(ctx, *req.PartyID, txn.Amount); err != nil {
				return err
			}
		}

		if err := s.auditRepo.RecordMovements(ctx, movements); err != nil {
			return err
		}

		return s.enqueue(ctx, txn.ID, outbox.OpCreateSale, map[string]any{
			"transaction": txn,
			"lines":       lines,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded", "transaction_id", txn.ID, "amount", txn.Amount, "mode", txn.PaymentMode)
	s.notifier.Trigger()
	return txn, nil
}

// EditTransaction applies a direct edit to a DRAFT or POSTED transaction.
// Quantity increases must pass the same decrement guard as a sale; any
// shortage aborts the whole edit with the full offending set.
func (s *Store) EditTransaction(ctx context.Context, txID id.ID, req EditRequest) (*Transaction, error) {
	if isBlank(req.Reason) {
		return nil, apperror.NewInvalidInput("edit reason is required")
	}

	var result *Transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.repo.GetByID(ctx, txID)
		if err != nil {
			return err
		}
		if txn.GSTFiledPeriod != nil && *txn.GSTFiledPeriod != "" {
			return apperror.NewNotAllowed(fmt.Sprintf("locked: GST filed for period %s", *txn.GSTFiledPeriod))
		}
		if txn.Status != StatusDraft && txn.Status != StatusPosted {
			return apperror.NewNotAllowed(fmt.Sprintf("cannot edit a %s transaction", txn.Status))
		}
		act := actor.FromContext(ctx)
		if !canEdit(txn.Status, act.Role) {
			return apperror.NewNotAllowed(fmt.Sprintf("role %s cannot edit a %s transaction", act.Role, txn.Status))
		}

		lines, err := s.repo.GetLines(ctx, txID)
		if err != nil {
			return err
		}
		byLineID := make(map[id.ID]*Line, len(lines))
		for i := range lines {
			byLineID[lines[i].ID] = &lines[i]
		}

		now := time.Now()
		var offending []id.ID
		var history []audit.EditHistoryEntry
		var movements []audit.StockMovement
		changed := make([]*Line, 0, len(req.Lines))

		for _, el := range req.Lines {
			line, ok := byLineID[el.LineID]
			if !ok {
				return apperror.NewNotFound("transaction line", el.LineID)
			}
			if el.NewQuantity <= 0 {
				return apperror.NewInvalidInput("line quantity must be positive")
			}

			deltaQty := el.NewQuantity - line.Quantity
			if deltaQty != 0 && txn.Type == TypeSale && line.ItemID != nil {
				item, err := s.items.GetByID(ctx, *line.ItemID)
				if err != nil {
					return err
				}
				if deltaQty > 0 {
					ok, err := s.items.Consume(ctx, item, deltaQty)
					if err != nil {
						return err
					}
					if !ok {
						offending = append(offending, item.ID)
						continue
					}
				} else {
					if err := s.items.Restore(ctx, item, -deltaQty); err != nil {
						return err
					}
				}
				movements = append(movements, audit.StockMovement{
					ID:            id.New(),
					ItemID:        item.ID,
					Delta:         -deltaQty,
					Source:        audit.SourceEdit,
					TransactionID: &txn.ID,
					ActorID:       actorIDPtr(ctx),
					CreatedAt:     now,
				})
			}

			if deltaQty != 0 {
				history = append(history, s.historyEntry(ctx, txn.ID,
					fmt.Sprintf("quantity:%s", line.ID),
					formatFloat(line.Quantity), formatFloat(el.NewQuantity),
					req.Reason, now))
				line.Quantity = el.NewQuantity
			}
			if el.NewUnitPrice != nil && *el.NewUnitPrice != line.UnitPrice {
				history = append(history, s.historyEntry(ctx, txn.ID,
					fmt.Sprintf("unitPrice:%s", line.ID),
					formatFloat(line.UnitPrice), formatFloat(*el.NewUnitPrice),
					req.Reason, now))
				line.UnitPrice = *el.NewUnitPrice
			}
			line.applyTax()
			changed = append(changed, line)
		}

		if len(offending) > 0 {
			return apperror.NewStockConflict(offending)
		}

		if req.PaymentMode != nil && *req.PaymentMode != txn.PaymentMode {
			history = append(history, s.historyEntry(ctx, txn.ID, "paymentMode",
				string(txn.PaymentMode), string(*req.PaymentMode), req.Reason, now))
			txn.PaymentMode = *req.PaymentMode
		}
		if req.Note != nil && *req.Note != txn.Note {
			history = append(history, s.historyEntry(ctx, txn.ID, "note",
				txn.Note, *req.Note, req.Reason, now))
			txn.Note = *req.Note
		}

		for _, line := range changed {
			if err := s.repo.UpdateLine(ctx, line); err != nil {
				return err
			}
		}

		total := 0.0
		for i := range lines {
			total += lines[i].Total()
		}
		txn.Amount = types.RoundPaise(total)
		txn.UpdatedAt = now
		if err := s.repo.UpdateHeader(ctx, txn); err != nil {
			return err
		}

		if len(movements) > 0 {
			if err := s.auditRepo.RecordMovements(ctx, movements); err != nil {
				return err
			}
		}
		if len(history) > 0 {
			if err := s.auditRepo.RecordEdits(ctx, history); err != nil {
				return err
			}
		}

		if err := s.enqueue(ctx, txn.ID, outbox.OpEditTransaction, map[string]any{
			"transaction": txn,
			"lines":       lines,
			"reason":      req.Reason,
		}); err != nil {
			return err
		}

		result = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transaction edited", "transaction_id", txID, "amount", result.Amount)
	s.notifier.Trigger()
	return result, nil
}

// CreateAdjustment corrects a FINALIZED transaction with an immutable delta
// record and moves it to ADJUSTED.
func (s *Store) CreateAdjustment(ctx context.Context, txID id.ID, req AdjustmentRequest) (*Adjustment, error) {
	if isBlank(req.Reason) {
		return nil, apperror.NewInvalidInput("adjustment reason is required")
	}
	if len(req.Deltas) == 0 || allZero(req.Deltas) {
		return nil, apperror.NewInvalidInput("adjustment needs at least one non-zero delta")
	}

	var result *Adjustment
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.repo.GetByID(ctx, txID)
		if err != nil {
			return err
		}
		if txn.Status != StatusFinalized {
			return apperror.NewNotAllowed(fmt.Sprintf("cannot adjust a %s transaction, finalize it first", txn.Status))
		}

		lines, err := s.repo.GetLines(ctx, txID)
		if err != nil {
			return err
		}
		priceByItem := make(map[id.ID]float64, len(lines))
		for _, l := range lines {
			if l.ItemID != nil {
				priceByItem[*l.ItemID] = l.UnitPrice
			}
		}

		now := time.Now()
		adj := &Adjustment{
			ID:            id.New(),
			TransactionID: txID,
			Reason:        req.Reason,
			CreatedAt:     now,
		}

		var offending []id.ID
		var movements []audit.StockMovement
		net := 0.0

		for _, d := range req.Deltas {
			itemID := d.ItemID
			adj.Items = append(adj.Items, AdjustmentItem{
				ID:            id.New(),
				AdjustmentID:  adj.ID,
				ItemID:        &itemID,
				QuantityDelta: d.QuantityDelta,
				PriceDelta:    d.PriceDelta,
				TaxDelta:      d.TaxDelta,
			})

			// Net change values the quantity delta at the adjusted unit
			// price, so a pure quantity return still produces a credit.
			net += d.QuantityDelta*(priceByItem[d.ItemID]+d.PriceDelta) + d.TaxDelta

			if txn.Type == TypeSale && d.QuantityDelta != 0 {
				item, err := s.items.GetByID(ctx, d.ItemID)
				if err != nil {
					return err
				}
				if d.QuantityDelta > 0 {
					ok, err := s.items.Consume(ctx, item, d.QuantityDelta)
					if err != nil {
						return err
					}
					if !ok {
						offending = append(offending, item.ID)
						continue
					}
				} else {
					if err := s.items.Restore(ctx, item, -d.QuantityDelta); err != nil {
						return err
					}
				}
				movements = append(movements, audit.StockMovement{
					ID:            id.New(),
					ItemID:        item.ID,
					Delta:         -d.QuantityDelta,
					Source:        audit.SourceAdjustment,
					TransactionID: &txn.ID,
					ActorID:       actorIDPtr(ctx),
					Note:          req.Reason,
					CreatedAt:     now,
				})
			}
		}

		if len(offending) > 0 {
			return apperror.NewStockConflict(offending)
		}

		adj.NetAmountChange = types.RoundPaise(net)
		if adj.NetAmountChange < 0 {
			adj.Kind = CreditNote
		} else {
			adj.Kind = DebitNote
		}

		if err := s.repo.CreateAdjustment(ctx, adj); err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(ctx, txID, StatusAdjusted); err != nil {
			return err
		}
		if len(movements) > 0 {
			if err := s.auditRepo.RecordMovements(ctx, movements); err != nil {
				return err
			}
		}

		if err := s.enqueue(ctx, txID, outbox.OpCreateAdjustment, map[string]any{
			"adjustment": adj,
			"reason":     req.Reason,
		}); err != nil {
			return err
		}

		result = adj
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "adjustment recorded", "transaction_id", txID, "kind", result.Kind, "net_change", result.NetAmountChange)
	s.notifier.Trigger()
	return result, nil
}

// FinalizeTransaction moves a DRAFT or POSTED transaction to FINALIZED.
// No stock or balance effect; the transition is recorded in edit history.
func (s *Store) FinalizeTransaction(ctx context.Context, txID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.repo.GetByID(ctx, txID)
		if err != nil {
			return err
		}
		if txn.Status != StatusDraft && txn.Status != StatusPosted {
			return apperror.NewNotAllowed(fmt.Sprintf("cannot finalize a %s transaction", txn.Status))
		}

		now := time.Now()
		if err := s.repo.UpdateStatus(ctx, txID, StatusFinalized); err != nil {
			return err
		}
		entry := s.historyEntry(ctx, txID, "status", string(txn.Status), string(StatusFinalized), "", now)
		if err := s.auditRepo.RecordEdits(ctx, []audit.EditHistoryEntry{entry}); err != nil {
			return err
		}

		return s.enqueue(ctx, txID, outbox.OpFinalizeTransaction, map[string]any{
			"status": StatusFinalized,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction finalized", "transaction_id", txID)
	s.notifier.Trigger()
	return nil
}

// VoidTransaction cancels a transaction, restoring sold stock in full.
// Blocked once the transaction is VOIDED or ADJUSTED.
func (s *Store) VoidTransaction(ctx context.Context, txID id.ID, reason string) error {
	if isBlank(reason) {
		return apperror.NewInvalidInput("void reason is required")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.repo.GetByID(ctx, txID)
		if err != nil {
			return err
		}
		if txn.Status.Terminal() {
			return apperror.NewNotAllowed(fmt.Sprintf("cannot void a %s transaction", txn.Status))
		}

		now := time.Now()
		if txn.Type == TypeSale {
			lines, err := s.repo.GetLines(ctx, txID)
			if err != nil {
				return err
			}
			var movements []audit.StockMovement
			for _, line := range lines {
				if line.ItemID == nil {
					continue
				}
				item, err := s.items.GetByID(ctx, *line.ItemID)
				if err != nil {
					if apperror.IsNotFound(err) {
						// Item deleted since the sale, nothing to restore into.
						logger.Warn(ctx, "void skipping deleted item", "item_id", *line.ItemID)
						continue
					}
					return err
				}
				if err := s.items.Restore(ctx, item, line.Quantity); err != nil {
					return err
				}
				movements = append(movements, audit.StockMovement{
					ID:            id.New(),
					ItemID:        item.ID,
					Delta:         line.Quantity,
					Source:        audit.SourceVoid,
					TransactionID: &txn.ID,
					ActorID:       actorIDPtr(ctx),
					Note:          reason,
					CreatedAt:     now,
				})
			}
			if len(movements) > 0 {
				if err := s.auditRepo.RecordMovements(ctx, movements); err != nil {
					return err
				}
			}
		}

		if err := s.repo.UpdateStatus(ctx, txID, StatusVoided); err != nil {
			return err
		}
		entry := s.historyEntry(ctx, txID, "status", string(txn.Status), string(StatusVoided), reason, now)
		if err := s.auditRepo.RecordEdits(ctx, []audit.EditHistoryEntry{entry}); err != nil {
			return err
		}

		return s.enqueue(ctx, txID, outbox.OpVoidTransaction, map[string]any{
			"status": StatusVoided,
			"reason": reason,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction voided", "transaction_id", txID)
	s.notifier.Trigger()
	return nil
}

// RecordPayment settles part of a party balance. A payment received from a
// customer reduces what they owe; a payment made to a vendor reduces what
// the shop owes (balance moves toward zero from the negative side).
func (s *Store) RecordPayment(ctx context.Context, req PaymentRequest) (*Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.NewInvalidInput("payment amount must be positive")
	}
	if req.Mode == ModeCredit {
		return nil, apperror.NewInvalidInput("a payment cannot itself be on credit")
	}

	var txn *Transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.parties.GetByID(ctx, req.PartyID)
		if err != nil {
			return err
		}

		now := time.Now()
		partyID := req.PartyID
		txn = &Transaction{
			ID:          id.New(),
			Amount:      types.RoundPaise(req.Amount),
			PaymentMode: req.Mode,
			PartyID:     &partyID,
			Status:      StatusPosted,
			Note:        req.Note,
			OccurredAt:  now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		delta := -txn.Amount
		txn.Type = TypeIncome
		if p.Kind == party.KindVendor {
			txn.Type = TypeExpense
			delta = txn.Amount
		}

		if err := s.repo.Create(ctx, txn, nil); err != nil {
			return err
		}
		if err := s.parties.ApplyBalanceDelta(ctx, req.PartyID, delta); err != nil {
			return err
		}

		return s.enqueue(ctx, txn.ID, outbox.OpCreatePayment, map[string]any{
			"transaction": txn,
			"partyId":     req.PartyID,
			"delta":       delta,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment recorded", "transaction_id", txn.ID, "party_id", req.PartyID, "amount", txn.Amount)
	s.notifier.Trigger()
	return txn, nil
}

// RecordVendorPurchase receives goods from a vendor: stock goes up, and a
// CREDIT purchase grows what the shop owes the vendor.
func (s *Store) RecordVendorPurchase(ctx context.Context, req PurchaseRequest) (*Transaction, error) {
	if len(req.Lines) == 0 {
		return nil, apperror.NewInvalidInput("purchase needs at least one line")
	}
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			return nil, apperror.NewInvalidInput("line quantity must be positive")
		}
	}

	now := time.Now()
	vendorID := req.VendorID
	txn := &Transaction{
		ID:          id.New(),
		Type:        TypeExpense,
		PaymentMode: req.PaymentMode,
		PartyID:     &vendorID,
		Status:      StatusPosted,
		Note:        req.Note,
		OccurredAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		total := 0.0
		lines := make([]Line, 0, len(req.Lines))
		movements := make([]audit.StockMovement, 0, len(req.Lines))

		for _, rl := range req.Lines {
			item, err := s.items.GetByID(ctx, rl.ItemID)
			if err != nil {
				return err
			}
			if err := s.items.Restore(ctx, item, rl.Quantity); err != nil {
				return err
			}

			itemID := item.ID
			lines = append(lines, Line{
				ID:            id.New(),
				TransactionID: txn.ID,
				ItemID:        &itemID,
				ItemName:      item.Name,
				Quantity:      rl.Quantity,
				Unit:          unitFor(item),
				UnitPrice:     rl.CostPrice,
				CreatedAt:     now,
			})
			total += rl.CostPrice * rl.Quantity

			movements = append(movements, audit.StockMovement{
				ID:            id.New(),
				ItemID:        item.ID,
				Delta:         rl.Quantity,
				Source:        audit.SourcePurchase,
				TransactionID: &txn.ID,
				ActorID:       actorIDPtr(ctx),
				CreatedAt:     now,
			})
		}

		txn.Amount = types.RoundPaise(total)
		if err := s.repo.Create(ctx, txn, lines); err != nil {
			return err
		}

		if req.PaymentMode == ModeCredit {
			if err := s.parties.ApplyBalanceDelta(ctx, req.VendorID, -txn.Amount); err != nil {
				return err
			}
		}

		if err := s.auditRepo.RecordMovements(ctx, movements); err != nil {
			return err
		}

		return s.enqueue(ctx, txn.ID, outbox.OpCreateVendorPurchase, map[string]any{
			"transaction": txn,
			"lines":       lines,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "vendor purchase recorded", "transaction_id", txn.ID, "vendor_id", req.VendorID, "amount", txn.Amount)
	s.notifier.Trigger()
	return txn, nil
}

// RecordExpense records a standalone expense with no stock effect.
func (s *Store) RecordExpense(ctx context.Context, req ExpenseRequest) (*Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.NewInvalidInput("expense amount must be positive")
	}
	if req.PaymentMode == ModeCredit && req.VendorID == nil {
		return nil, apperror.NewInvalidInput("credit expense needs a vendor")
	}

	now := time.Now()
	txn := &Transaction{
		ID:          id.New(),
		Type:        TypeExpense,
		Amount:      types.RoundPaise(req.Amount),
		PaymentMode: req.PaymentMode,
		PartyID:     req.VendorID,
		Status:      StatusPosted,
		Note:        req.Note,
		OccurredAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, txn, nil); err != nil {
			return err
		}
		if req.PaymentMode == ModeCredit {
			if err := s.parties.ApplyBalanceDelta(ctx, *req.VendorID, -txn.Amount); err != nil {
				return err
			}
		}
		return s.enqueue(ctx, txn.ID, outbox.OpCreateExpense, map[string]any{
			"transaction": txn,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "expense recorded", "transaction_id", txn.ID, "amount", txn.Amount)
	s.notifier.Trigger()
	return txn, nil
}

// GetByID returns one transaction header.
func (s *Store) GetByID(ctx context.Context, txID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, txID)
}

// GetLines returns a transaction's line items.
func (s *Store) GetLines(ctx context.Context, txID id.ID) ([]Line, error) {
	return s.repo.GetLines(ctx, txID)
}

// List returns the newest transactions first.
func (s *Store) List(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, limit)
}

// GetAdjustment returns the adjustment recorded against a transaction.
func (s *Store) GetAdjustment(ctx context.Context, txID id.ID) (*Adjustment, error) {
	return s.repo.GetAdjustment(ctx, txID)
}

// EditHistory returns the append-only edit trail of a transaction.
func (s *Store) EditHistory(ctx context.Context, txID id.ID) ([]audit.EditHistoryEntry, error) {
	return s.auditRepo.EditsForTransaction(ctx, txID)
}

func (s *Store) enqueue(ctx context.Context, txID id.ID, kind outbox.OpKind, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperror.NewInternal(err)
	}
	_, err = s.outboxRepo.Enqueue(ctx, outbox.Op{
		EntityType: outbox.EntityTransaction,
		EntityID:   txID.String(),
		Kind:       kind,
		Payload:    body,
	})
	return err
}

func (s *Store) historyEntry(ctx context.Context, txID id.ID, field, oldVal, newVal, reason string, at time.Time) audit.EditHistoryEntry {
	act := actor.FromContext(ctx)
	return audit.EditHistoryEntry{
		ID:            id.New(),
		TransactionID: txID,
		Field:         field,
		OldValue:      oldVal,
		NewValue:      newVal,
		Reason:        reason,
		EditedBy:      actorIDPtr(ctx),
		EditedByRole:  string(act.Role),
		CreatedAt:     at,
	}
}

func actorIDPtr(ctx context.Context) *id.ID {
	act := actor.FromContext(ctx)
	if id.IsNil(act.ID) {
		return nil
	}
	actID := act.ID
	return &actID
}

func unitFor(item *inventory.Item) string {
	if item.IsLoose {
		return "KG"
	}
	return "PCS"
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}

func allZero(deltas []DeltaItem) bool {
	for _, d := range deltas {
		if d.QuantityDelta != 0 || d.PriceDelta != 0 || d.TaxDelta != 0 {
			return false
		}
	}
	return true
}
