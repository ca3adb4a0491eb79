package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
)

// MemoryInventory is an in-process InventorySource fed directly by stock
// events. It backs deployments without ClickHouse and the test suite.
type MemoryInventory struct {
	mu    sync.RWMutex
	items map[string]models.InventoryItem // keyed store_id/product_id
}

func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{items: make(map[string]models.InventoryItem)}
}

var _ repository.InventorySource = (*MemoryInventory)(nil)

func key(storeID, productID string) string { return storeID + "/" + productID }

// Upsert inserts or replaces the item for its store/product pair.
func (m *MemoryInventory) Upsert(item models.InventoryItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.LastUpdated.IsZero() {
		item.LastUpdated = time.Now().UTC()
	}
	m.items[key(item.StoreID, item.ProductID)] = item
}

// Apply folds one stock event into the view.
func (m *MemoryInventory) Apply(e *models.StockEvent) {
	m.Upsert(models.InventoryItem{
		StoreID:      e.StoreID,
		ProductID:    e.ProductID,
		ProductName:  e.ProductName,
		CurrentStock: e.NewStock,
		MinimumStock: e.MinimumStock,
		PricePoint:   decimal.NewFromFloat(e.Price),
		Category:     e.Category,
		LastUpdated:  time.Unix(e.Timestamp, 0).UTC(),
	})
}

func (m *MemoryInventory) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(func(models.InventoryItem) bool { return true }), nil
}

func (m *MemoryInventory) ListByStore(ctx context.Context, storeID string) ([]models.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(func(it models.InventoryItem) bool { return it.StoreID == storeID }), nil
}

func (m *MemoryInventory) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(func(it models.InventoryItem) bool { return it.IsLowStock() }), nil
}

func (m *MemoryInventory) Health(ctx context.Context) error { return nil }

// sorted must be called with the lock held.
func (m *MemoryInventory) sorted(keep func(models.InventoryItem) bool) []models.InventoryItem {
	out := make([]models.InventoryItem, 0, len(m.items))
	for _, it := range m.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].StoreID != out[b].StoreID {
			return out[a].StoreID < out[b].StoreID
		}
		return out[a].ProductID < out[b].ProductID
	})
	return out
}
