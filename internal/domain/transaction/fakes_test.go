package transaction

import (
	"context"
	"sync"
	"time"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/audit"
	"kiranapos/internal/domain/inventory"
	"kiranapos/internal/domain/outbox"
	"kiranapos/internal/domain/party"
)

// --- in-memory item repository ---

type memItems struct {
	items map[id.ID]inventory.Item
}

func newMemItems() *memItems {
	return &memItems{items: make(map[id.ID]inventory.Item)}
}

func (m *memItems) put(it inventory.Item) { m.items[it.ID] = it }

func (m *memItems) stock(itemID id.ID) float64 { return m.items[itemID].Stock }

func (m *memItems) Create(ctx context.Context, item *inventory.Item) error {
	m.items[item.ID] = *item
	return nil
}

func (m *memItems) Update(ctx context.Context, item *inventory.Item) error {
	if _, ok := m.items[item.ID]; !ok {
		return apperror.NewNotFound("item", item.ID)
	}
	m.items[item.ID] = *item
	return nil
}

func (m *memItems) Delete(ctx context.Context, itemID id.ID) error {
	if _, ok := m.items[itemID]; !ok {
		return apperror.NewNotFound("item", itemID)
	}
	delete(m.items, itemID)
	return nil
}

func (m *memItems) GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error) {
	it, ok := m.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID)
	}
	return &it, nil
}

func (m *memItems) GetByIDs(ctx context.Context, itemIDs []id.ID) ([]inventory.Item, error) {
	var out []inventory.Item
	for _, itemID := range itemIDs {
		if it, ok := m.items[itemID]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memItems) List(ctx context.Context) ([]inventory.Item, error) { return nil, nil }

func (m *memItems) Search(ctx context.Context, query string, limit int) ([]inventory.Item, error) {
	return nil, nil
}

func (m *memItems) LowStock(ctx context.Context) ([]inventory.Item, error) { return nil, nil }

func (m *memItems) TryDecrementPieces(ctx context.Context, itemID id.ID, qty int64) (bool, error) {
	return m.tryDecrement(itemID, float64(qty))
}

func (m *memItems) TryDecrementKg(ctx context.Context, itemID id.ID, qty float64) (bool, error) {
	return m.tryDecrement(itemID, qty)
}

func (m *memItems) tryDecrement(itemID id.ID, qty float64) (bool, error) {
	it, ok := m.items[itemID]
	if !ok || it.Stock < qty {
		return false, nil
	}
	it.Stock -= qty
	m.items[itemID] = it
	return true, nil
}

func (m *memItems) IncrementPieces(ctx context.Context, itemID id.ID, qty int64) error {
	return m.increment(itemID, float64(qty))
}

func (m *memItems) IncrementKg(ctx context.Context, itemID id.ID, qty float64) error {
	return m.increment(itemID, qty)
}

func (m *memItems) increment(itemID id.ID, qty float64) error {
	it, ok := m.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID)
	}
	it.Stock += qty
	m.items[itemID] = it
	return nil
}

var _ inventory.Repository = (*memItems)(nil)

// --- in-memory party repository ---

type memParties struct {
	parties map[id.ID]party.Party
}

func newMemParties() *memParties {
	return &memParties{parties: make(map[id.ID]party.Party)}
}

func (m *memParties) put(p party.Party) { m.parties[p.ID] = p }

func (m *memParties) balance(partyID id.ID) float64 { return m.parties[partyID].Balance }

func (m *memParties) Create(ctx context.Context, p *party.Party) error {
	m.parties[p.ID] = *p
	return nil
}

func (m *memParties) Update(ctx context.Context, p *party.Party) error {
	if _, ok := m.parties[p.ID]; !ok {
		return apperror.NewNotFound("party", p.ID)
	}
	m.parties[p.ID] = *p
	return nil
}

func (m *memParties) Delete(ctx context.Context, partyID id.ID) error {
	delete(m.parties, partyID)
	return nil
}

func (m *memParties) GetByID(ctx context.Context, partyID id.ID) (*party.Party, error) {
	p, ok := m.parties[partyID]
	if !ok {
		return nil, apperror.NewNotFound("party", partyID)
	}
	return &p, nil
}

func (m *memParties) List(ctx context.Context, kind party.Kind) ([]party.Party, error) {
	return nil, nil
}

func (m *memParties) UpdateBalance(ctx context.Context, partyID id.ID, delta float64) error {
	p, ok := m.parties[partyID]
	if !ok {
		return apperror.NewNotFound("party", partyID)
	}
	p.Balance += delta
	m.parties[partyID] = p
	return nil
}

var _ party.Repository = (*memParties)(nil)

// --- in-memory transaction repository ---

type memTxns struct {
	txns        map[id.ID]Transaction
	lines       map[id.ID][]Line
	adjustments map[id.ID]Adjustment
}

func newMemTxns() *memTxns {
	return &memTxns{
		txns:        make(map[id.ID]Transaction),
		lines:       make(map[id.ID][]Line),
		adjustments: make(map[id.ID]Adjustment),
	}
}

func (m *memTxns) Create(ctx context.Context, t *Transaction, lines []Line) error {
	m.txns[t.ID] = *t
	m.lines[t.ID] = append([]Line(nil), lines...)
	return nil
}

func (m *memTxns) GetByID(ctx context.Context, txID id.ID) (*Transaction, error) {
	t, ok := m.txns[txID]
	if !ok {
		return nil, apperror.NewNotFound("transaction", txID)
	}
	return &t, nil
}

func (m *memTxns) GetLines(ctx context.Context, txID id.ID) ([]Line, error) {
	return append([]Line(nil), m.lines[txID]...), nil
}

func (m *memTxns) List(ctx context.Context, limit int) ([]Transaction, error) { return nil, nil }

func (m *memTxns) UpdateHeader(ctx context.Context, t *Transaction) error {
	if _, ok := m.txns[t.ID]; !ok {
		return apperror.NewNotFound("transaction", t.ID)
	}
	m.txns[t.ID] = *t
	return nil
}

func (m *memTxns) UpdateLine(ctx context.Context, line *Line) error {
	lines := m.lines[line.TransactionID]
	for i := range lines {
		if lines[i].ID == line.ID {
			lines[i] = *line
			return nil
		}
	}
	return apperror.NewNotFound("transaction line", line.ID)
}

func (m *memTxns) UpdateStatus(ctx context.Context, txID id.ID, status Status) error {
	t, ok := m.txns[txID]
	if !ok {
		return apperror.NewNotFound("transaction", txID)
	}
	t.Status = status
	m.txns[txID] = t
	return nil
}

func (m *memTxns) CreateAdjustment(ctx context.Context, adj *Adjustment) error {
	m.adjustments[adj.TransactionID] = *adj
	return nil
}

func (m *memTxns) GetAdjustment(ctx context.Context, txID id.ID) (*Adjustment, error) {
	adj, ok := m.adjustments[txID]
	if !ok {
		return nil, apperror.NewNotFound("adjustment", txID)
	}
	return &adj, nil
}

var _ Repository = (*memTxns)(nil)

// --- in-memory audit repository ---

type memAudit struct {
	movements []audit.StockMovement
	edits     []audit.EditHistoryEntry
}

func (m *memAudit) RecordMovement(ctx context.Context, mv *audit.StockMovement) error {
	m.movements = append(m.movements, *mv)
	return nil
}

func (m *memAudit) RecordMovements(ctx context.Context, ms []audit.StockMovement) error {
	m.movements = append(m.movements, ms...)
	return nil
}

func (m *memAudit) MovementsForItem(ctx context.Context, itemID id.ID, limit int) ([]audit.StockMovement, error) {
	var out []audit.StockMovement
	for _, mv := range m.movements {
		if mv.ItemID == itemID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *memAudit) RecordEdits(ctx context.Context, entries []audit.EditHistoryEntry) error {
	m.edits = append(m.edits, entries...)
	return nil
}

func (m *memAudit) EditsForTransaction(ctx context.Context, txID id.ID) ([]audit.EditHistoryEntry, error) {
	var out []audit.EditHistoryEntry
	for _, e := range m.edits {
		if e.TransactionID == txID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ audit.Repository = (*memAudit)(nil)

// --- in-memory outbox repository ---

type memOutbox struct {
	mu      sync.Mutex
	entries []outbox.Entry
	nextID  int64
}

func (m *memOutbox) Enqueue(ctx context.Context, op outbox.Op) (*outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e := outbox.Entry{
		ID:         m.nextID,
		OpID:       id.New(),
		EntityType: op.EntityType,
		EntityID:   op.EntityID,
		Kind:       op.Kind,
		Payload:    op.Payload,
		Status:     outbox.StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memOutbox) byStatus(status outbox.Status, limit int) []outbox.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []outbox.Entry
	for _, e := range m.entries {
		if e.Status == status {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (m *memOutbox) GetPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	return m.byStatus(outbox.StatusPending, limit), nil
}

func (m *memOutbox) GetFailed(ctx context.Context, limit int) ([]outbox.Entry, error) {
	return m.byStatus(outbox.StatusFailed, limit), nil
}

func (m *memOutbox) GetByID(ctx context.Context, entryID int64) (*outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == entryID {
			e := m.entries[i]
			return &e, nil
		}
	}
	return nil, apperror.NewNotFound("outbox entry", entryID)
}

func (m *memOutbox) update(entryID int64, fn func(*outbox.Entry)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].ID == entryID {
			fn(&m.entries[i])
			return nil
		}
	}
	return apperror.NewNotFound("outbox entry", entryID)
}

func (m *memOutbox) MarkAttempt(ctx context.Context, entryID int64) error {
	return m.update(entryID, func(e *outbox.Entry) { e.Attempts++ })
}

func (m *memOutbox) MarkDone(ctx context.Context, entryID int64) error {
	return m.update(entryID, func(e *outbox.Entry) {
		e.Status = outbox.StatusDone
		e.LastError = nil
	})
}

func (m *memOutbox) MarkFailed(ctx context.Context, entryID int64, reason string) error {
	return m.update(entryID, func(e *outbox.Entry) {
		e.Status = outbox.StatusFailed
		e.LastError = &reason
	})
}

func (m *memOutbox) ResetToPending(ctx context.Context, entryID int64) error {
	return m.update(entryID, func(e *outbox.Entry) {
		if e.Status == outbox.StatusFailed {
			e.Status = outbox.StatusPending
			e.LastError = nil
		}
	})
}

func (m *memOutbox) ResetAllFailed(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.entries {
		if m.entries[i].Status == outbox.StatusFailed {
			m.entries[i].Status = outbox.StatusPending
			m.entries[i].LastError = nil
			n++
		}
	}
	return n, nil
}

func (m *memOutbox) ClearDone(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []outbox.Entry
	var n int64
	for _, e := range m.entries {
		if e.Status == outbox.StatusDone {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return n, nil
}

func (m *memOutbox) ClearAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.entries))
	m.entries = nil
	return n, nil
}

func (m *memOutbox) count(status outbox.Status) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

func (m *memOutbox) PendingCount(ctx context.Context) (int64, error) {
	return m.count(outbox.StatusPending), nil
}

func (m *memOutbox) FailedCount(ctx context.Context) (int64, error) {
	return m.count(outbox.StatusFailed), nil
}

func (m *memOutbox) Recent(ctx context.Context, limit int) ([]outbox.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []outbox.Entry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

var _ outbox.Repository = (*memOutbox)(nil)

// --- unit-of-work fake ---

// fakeUoW snapshots every fake store before fn and restores on error, so
// rollback semantics hold in tests the same way they do against postgres.
type fakeUoW struct {
	items   *memItems
	parties *memParties
	txns    *memTxns
	audits  *memAudit
	queue   *memOutbox
}

type uowSnapshot struct {
	items       map[id.ID]inventory.Item
	parties     map[id.ID]party.Party
	txns        map[id.ID]Transaction
	lines       map[id.ID][]Line
	adjustments map[id.ID]Adjustment
	movements   []audit.StockMovement
	edits       []audit.EditHistoryEntry
	entries     []outbox.Entry
	nextID      int64
}

func (u *fakeUoW) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := u.snapshot()
	if err := fn(ctx); err != nil {
		u.restore(snap)
		return err
	}
	return nil
}

func (u *fakeUoW) snapshot() uowSnapshot {
	s := uowSnapshot{
		items:       make(map[id.ID]inventory.Item, len(u.items.items)),
		parties:     make(map[id.ID]party.Party, len(u.parties.parties)),
		txns:        make(map[id.ID]Transaction, len(u.txns.txns)),
		lines:       make(map[id.ID][]Line, len(u.txns.lines)),
		adjustments: make(map[id.ID]Adjustment, len(u.txns.adjustments)),
		movements:   append([]audit.StockMovement(nil), u.audits.movements...),
		edits:       append([]audit.EditHistoryEntry(nil), u.audits.edits...),
		entries:     append([]outbox.Entry(nil), u.queue.entries...),
		nextID:      u.queue.nextID,
	}
	for k, v := range u.items.items {
		s.items[k] = v
	}
	for k, v := range u.parties.parties {
		s.parties[k] = v
	}
	for k, v := range u.txns.txns {
		s.txns[k] = v
	}
	for k, v := range u.txns.lines {
		s.lines[k] = append([]Line(nil), v...)
	}
	for k, v := range u.txns.adjustments {
		s.adjustments[k] = v
	}
	return s
}

func (u *fakeUoW) restore(s uowSnapshot) {
	u.items.items = s.items
	u.parties.parties = s.parties
	u.txns.txns = s.txns
	u.txns.lines = s.lines
	u.txns.adjustments = s.adjustments
	u.audits.movements = s.movements
	u.audits.edits = s.edits
	u.queue.entries = s.entries
	u.queue.nextID = s.nextID
}

// --- notifier fake ---

type countNotifier struct {
	triggers int
}

func (n *countNotifier) Trigger() { n.triggers++ }

// --- fixture ---

type fixture struct {
	items    *memItems
	parties  *memParties
	txns     *memTxns
	audits   *memAudit
	queue    *memOutbox
	notifier *countNotifier
	store    *Store
}

func newFixture() *fixture {
	f := &fixture{
		items:    newMemItems(),
		parties:  newMemParties(),
		txns:     newMemTxns(),
		audits:   &memAudit{},
		queue:    &memOutbox{},
		notifier: &countNotifier{},
	}
	uow := &fakeUoW{
		items:   f.items,
		parties: f.parties,
		txns:    f.txns,
		audits:  f.audits,
		queue:   f.queue,
	}
	itemsSvc := inventory.NewService(f.items, f.queue, uow, nil)
	partySvc := party.NewService(f.parties, f.queue, uow, nil)
	f.store = NewStore(f.txns, itemsSvc, partySvc, f.audits, f.queue, uow, f.notifier)
	return f
}
