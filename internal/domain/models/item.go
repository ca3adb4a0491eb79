package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a read-only view of one product's stock position at one
// store. Records are owned by the external store service; this service only
// reads them to score demand.
type InventoryItem struct {
	StoreID      string          `json:"storeId"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	CurrentStock int             `json:"currentStock"`
	MinimumStock int             `json:"minimumStock"`
	PricePoint   decimal.Decimal `json:"pricePoint"`
	Category     string          `json:"category"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// IsLowStock reports whether current stock is at or below the minimum level.
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}
