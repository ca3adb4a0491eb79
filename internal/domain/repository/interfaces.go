package repository

import (
	"context"

	"StockCast/internal/domain/models"
)

// InventorySource provides read-only access to current inventory state.
type InventorySource interface {
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	ListByStore(ctx context.Context, storeID string) ([]models.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
	Health(ctx context.Context) error // ping
}

// StoreStream is a live feed of stock events pushed by the store service.
type StoreStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.StockEvent, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher publishes stock events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, e *models.StockEvent) error
	PublishBatch(ctx context.Context, events []*models.StockEvent) error
	Close() error
}

// EventStorage persists the stock event stream.
type EventStorage interface {
	Store(ctx context.Context, e *models.StockEvent) error
	StoreBatch(ctx context.Context, events []*models.StockEvent) error
	Health(ctx context.Context) error // ping
	Close() error
}

// Notifier fans out inventory alerts to subscribers of the update channel.
type Notifier interface {
	NotifyStockUpdate(ctx context.Context, a *models.StockUpdateAlert) error
	NotifyNewProduct(ctx context.Context, a *models.NewProductAlert) error
	NotifyLowStock(ctx context.Context, a *models.LowStockAlert) error
}

type Metrics interface {
	RecordEventSent(backend, productID string)
	RecordError(kind string)
	RecordStockLevel(productID string, stock int)
	RecordLatency(op string, seconds float64)
	RecordForecast(risk string)
	RecordTrainingDuration(seconds float64)
}
