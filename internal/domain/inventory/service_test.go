package inventory

import (
	"context"
	"testing"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
)

// memRepo is an in-memory Repository for stock ledger tests. Only the
// methods Consume and Restore reach are meaningful.
type memRepo struct {
	items map[id.ID]*Item

	pieceDecrements int
	kgDecrements    int
}

func newMemRepo(items ...*Item) *memRepo {
	m := &memRepo{items: make(map[id.ID]*Item)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *memRepo) Create(ctx context.Context, item *Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *memRepo) Update(ctx context.Context, item *Item) error {
	if _, ok := m.items[item.ID]; !ok {
		return apperror.NewNotFound("item", item.ID)
	}
	m.items[item.ID] = item
	return nil
}

func (m *memRepo) Delete(ctx context.Context, itemID id.ID) error {
	if _, ok := m.items[itemID]; !ok {
		return apperror.NewNotFound("item", itemID)
	}
	delete(m.items, itemID)
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	if it, ok := m.items[itemID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("item", itemID)
}

func (m *memRepo) GetByIDs(ctx context.Context, itemIDs []id.ID) ([]Item, error) {
	var out []Item
	for _, itemID := range itemIDs {
		if it, ok := m.items[itemID]; ok {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memRepo) List(ctx context.Context) ([]Item, error) { return nil, nil }

func (m *memRepo) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	return nil, nil
}

func (m *memRepo) LowStock(ctx context.Context) ([]Item, error) { return nil, nil }

func (m *memRepo) TryDecrementPieces(ctx context.Context, itemID id.ID, qty int64) (bool, error) {
	m.pieceDecrements++
	return m.tryDecrement(itemID, float64(qty))
}

func (m *memRepo) TryDecrementKg(ctx context.Context, itemID id.ID, qty float64) (bool, error) {
	m.kgDecrements++
	return m.tryDecrement(itemID, qty)
}

func (m *memRepo) tryDecrement(itemID id.ID, qty float64) (bool, error) {
	it, ok := m.items[itemID]
	if !ok || it.Stock < qty {
		return false, nil
	}
	it.Stock -= qty
	return true, nil
}

func (m *memRepo) IncrementPieces(ctx context.Context, itemID id.ID, qty int64) error {
	return m.increment(itemID, float64(qty))
}

func (m *memRepo) IncrementKg(ctx context.Context, itemID id.ID, qty float64) error {
	return m.increment(itemID, qty)
}

func (m *memRepo) increment(itemID id.ID, qty float64) error {
	it, ok := m.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID)
	}
	it.Stock += qty
	return nil
}

var _ Repository = (*memRepo)(nil)

func TestConsumePickVariantByMode(t *testing.T) {
	piece := &Item{ID: id.New(), Name: "soap", Stock: 10, IsLoose: false}
	loose := &Item{ID: id.New(), Name: "rice", Stock: 5.5, IsLoose: true}
	repo := newMemRepo(piece, loose)
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	ok, err := svc.Consume(ctx, piece, 3)
	if err != nil || !ok {
		t.Fatalf("piece consume: ok=%v err=%v", ok, err)
	}
	if repo.pieceDecrements != 1 || repo.kgDecrements != 0 {
		t.Errorf("piece item should use the piece variant, got pieces=%d kg=%d", repo.pieceDecrements, repo.kgDecrements)
	}
	if piece.Stock != 7 {
		t.Errorf("stock = %v, want 7", piece.Stock)
	}

	ok, err = svc.Consume(ctx, loose, 1.25)
	if err != nil || !ok {
		t.Fatalf("loose consume: ok=%v err=%v", ok, err)
	}
	if repo.kgDecrements != 1 {
		t.Errorf("loose item should use the kg variant, got kg=%d", repo.kgDecrements)
	}
	if loose.Stock != 4.25 {
		t.Errorf("stock = %v, want 4.25", loose.Stock)
	}
}

func TestConsumeInsufficientStock(t *testing.T) {
	item := &Item{ID: id.New(), Name: "soap", Stock: 2, IsLoose: false}
	repo := newMemRepo(item)
	svc := NewService(repo, nil, nil, nil)

	ok, err := svc.Consume(context.Background(), item, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected consume to be rejected")
	}
	if item.Stock != 2 {
		t.Errorf("rejected consume must not change stock, got %v", item.Stock)
	}
}

func TestConsumeRejectsFractionalPieces(t *testing.T) {
	item := &Item{ID: id.New(), Name: "soap", Stock: 10, IsLoose: false}
	repo := newMemRepo(item)
	svc := NewService(repo, nil, nil, nil)

	_, err := svc.Consume(context.Background(), item, 2.5)
	if !apperror.IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if repo.pieceDecrements != 0 {
		t.Error("invalid quantity must not reach the ledger")
	}
}

func TestConsumeToleratesFloatDrift(t *testing.T) {
	item := &Item{ID: id.New(), Name: "soap", Stock: 10, IsLoose: false}
	svc := NewService(newMemRepo(item), nil, nil, nil)

	ok, err := svc.Consume(context.Background(), item, 2.9999999)
	if err != nil || !ok {
		t.Fatalf("drifted whole quantity should pass: ok=%v err=%v", ok, err)
	}
	if item.Stock != 7 {
		t.Errorf("stock = %v, want 7", item.Stock)
	}
}

func TestConsumeRejectsNonPositive(t *testing.T) {
	item := &Item{ID: id.New(), Stock: 10}
	svc := NewService(newMemRepo(item), nil, nil, nil)

	for _, qty := range []float64{0, -1} {
		if _, err := svc.Consume(context.Background(), item, qty); !apperror.IsInvalidInput(err) {
			t.Errorf("Consume(%v): expected invalid input, got %v", qty, err)
		}
	}
}

func TestRestore(t *testing.T) {
	piece := &Item{ID: id.New(), Stock: 1, IsLoose: false}
	loose := &Item{ID: id.New(), Stock: 0.5, IsLoose: true}
	svc := NewService(newMemRepo(piece, loose), nil, nil, nil)
	ctx := context.Background()

	if err := svc.Restore(ctx, piece, 4); err != nil {
		t.Fatalf("restore pieces: %v", err)
	}
	if piece.Stock != 5 {
		t.Errorf("stock = %v, want 5", piece.Stock)
	}

	if err := svc.Restore(ctx, loose, 2.25); err != nil {
		t.Fatalf("restore kg: %v", err)
	}
	if loose.Stock != 2.75 {
		t.Errorf("stock = %v, want 2.75", loose.Stock)
	}

	if err := svc.Restore(ctx, piece, -1); !apperror.IsInvalidInput(err) {
		t.Errorf("negative restore: expected invalid input, got %v", err)
	}
}

func TestLowOnStock(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"below threshold", Item{Stock: 2, LowStockThreshold: 5}, true},
		{"at threshold", Item{Stock: 5, LowStockThreshold: 5}, true},
		{"above threshold", Item{Stock: 6, LowStockThreshold: 5}, false},
		{"threshold unset", Item{Stock: 0, LowStockThreshold: 0}, false},
	}
	for _, tt := range tests {
		if got := tt.item.LowOnStock(); got != tt.want {
			t.Errorf("%s: LowOnStock() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
