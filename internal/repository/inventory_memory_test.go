package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"StockCast/internal/domain/models"
)

func TestMemoryInventoryUpsertAndList(t *testing.T) {
	inv := NewMemoryInventory()
	inv.Upsert(models.InventoryItem{StoreID: "s2", ProductID: "b", ProductName: "Bread", CurrentStock: 4, MinimumStock: 10})
	inv.Upsert(models.InventoryItem{StoreID: "s1", ProductID: "a", ProductName: "Apples", CurrentStock: 50, MinimumStock: 10})
	inv.Upsert(models.InventoryItem{StoreID: "s1", ProductID: "c", ProductName: "Cheese", CurrentStock: 8, MinimumStock: 10})

	items, err := inv.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	// Deterministic store/product ordering.
	if items[0].ProductID != "a" || items[1].ProductID != "c" || items[2].ProductID != "b" {
		t.Fatalf("unexpected order: %s %s %s", items[0].ProductID, items[1].ProductID, items[2].ProductID)
	}

	s1, err := inv.ListByStore(context.Background(), "s1")
	if err != nil {
		t.Fatalf("ListByStore: %v", err)
	}
	if len(s1) != 2 {
		t.Fatalf("s1 items = %d, want 2", len(s1))
	}

	low, err := inv.ListLowStock(context.Background())
	if err != nil {
		t.Fatalf("ListLowStock: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("low stock items = %d, want 2", len(low))
	}
	for _, it := range low {
		if !it.IsLowStock() {
			t.Fatalf("item %s not low stock", it.ProductID)
		}
	}
}

func TestMemoryInventoryUpsertReplaces(t *testing.T) {
	inv := NewMemoryInventory()
	inv.Upsert(models.InventoryItem{StoreID: "s1", ProductID: "a", CurrentStock: 10, PricePoint: decimal.NewFromInt(5)})
	inv.Upsert(models.InventoryItem{StoreID: "s1", ProductID: "a", CurrentStock: 3, PricePoint: decimal.NewFromInt(6)})

	items, _ := inv.ListItems(context.Background())
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	if items[0].CurrentStock != 3 || !items[0].PricePoint.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("item not replaced: stock=%d price=%s", items[0].CurrentStock, items[0].PricePoint)
	}
}

func TestMemoryInventoryApplyEvent(t *testing.T) {
	inv := NewMemoryInventory()
	inv.Apply(&models.StockEvent{
		StoreID:      "s1",
		ProductID:    "a",
		ProductName:  "Apples",
		NewStock:     12,
		MinimumStock: 5,
		Price:        3.25,
		Category:     "produce",
		Timestamp:    1756600000,
	})

	items, _ := inv.ListItems(context.Background())
	if len(items) != 1 {
		t.Fatalf("len = %d, want 1", len(items))
	}
	it := items[0]
	if it.CurrentStock != 12 || it.ProductName != "Apples" {
		t.Fatalf("unexpected item: %+v", it)
	}
	if !it.PricePoint.Equal(decimal.NewFromFloat(3.25)) {
		t.Fatalf("price = %s, want 3.25", it.PricePoint)
	}
	if it.LastUpdated.Unix() != 1756600000 {
		t.Fatalf("lastUpdated = %v", it.LastUpdated)
	}
}
