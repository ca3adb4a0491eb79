package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
)

// ClickHouseInventory reads the current inventory view off the stock events
// table: the latest event per store/product wins.
type ClickHouseInventory struct {
	db    *sql.DB
	table string
}

func NewClickHouseInventory(db *sql.DB, table string) repository.InventorySource {
	return &ClickHouseInventory{db: db, table: table}
}

const inventoryColumns = `
	store_id,
	product_id,
	argMax(product_name, ts) AS product_name,
	argMax(stock, ts) AS stock,
	argMax(min_stock, ts) AS min_stock,
	argMax(price, ts) AS price,
	argMax(category, ts) AS category,
	max(ts) AS last_updated`

func (r *ClickHouseInventory) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s GROUP BY store_id, product_id ORDER BY store_id, product_id`,
		inventoryColumns, r.table)
	return r.query(ctx, q)
}

func (r *ClickHouseInventory) ListByStore(ctx context.Context, storeID string) ([]models.InventoryItem, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE store_id = ? GROUP BY store_id, product_id ORDER BY product_id`,
		inventoryColumns, r.table)
	return r.query(ctx, q, storeID)
}

func (r *ClickHouseInventory) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s GROUP BY store_id, product_id HAVING stock <= min_stock ORDER BY store_id, product_id`,
		inventoryColumns, r.table)
	return r.query(ctx, q)
}

func (r *ClickHouseInventory) query(ctx context.Context, q string, args ...interface{}) ([]models.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("inventory query: %w", err)
	}
	defer rows.Close()

	var items []models.InventoryItem
	for rows.Next() {
		var it models.InventoryItem
		var price float64
		var ts time.Time
		if err := rows.Scan(&it.StoreID, &it.ProductID, &it.ProductName,
			&it.CurrentStock, &it.MinimumStock, &price, &it.Category, &ts); err != nil {
			return nil, fmt.Errorf("inventory scan: %w", err)
		}
		it.PricePoint = decimal.NewFromFloat(price)
		it.LastUpdated = ts
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *ClickHouseInventory) Health(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
