package usecase

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"
)

// EventProcessor routes stock events to the configured backend and fans out
// alerts. Alert delivery is best effort: a failed notification is counted
// but never fails the event.
type EventProcessor struct {
	pub      drepo.Publisher
	store    drepo.EventStorage
	notifier drepo.Notifier
	metrics  drepo.Metrics
	backend  string
}

func NewEventProcessor(
	pub drepo.Publisher,
	store drepo.EventStorage,
	notifier drepo.Notifier,
	metrics drepo.Metrics,
	backend string,
) *EventProcessor {
	return &EventProcessor{
		pub:      pub,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		backend:  backend,
	}
}

// Process routes a single stock event to the configured backend.
func (p *EventProcessor) Process(ctx context.Context, e *models.StockEvent) error {
	if e == nil {
		return fmt.Errorf("stock event is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, e)
	case "clickhouse":
		err = p.store.Store(ctx, e)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process stock event: %w", err)
	}

	p.metrics.RecordEventSent(p.backend, e.ProductID)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	p.notify(ctx, e)
	return nil
}

// ProcessBatch routes multiple stock events in one backend call.
func (p *EventProcessor) ProcessBatch(ctx context.Context, events []*models.StockEvent) error {
	if len(events) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, events)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, events)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, e := range events {
		p.metrics.RecordEventSent(p.backend, e.ProductID)
		p.notify(ctx, e)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

func (p *EventProcessor) notify(ctx context.Context, e *models.StockEvent) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.NotifyStockUpdate(ctx, &models.StockUpdateAlert{
		ProductName: e.ProductName,
		NewStock:    e.NewStock,
		StoreID:     e.StoreID,
	}); err != nil {
		p.metrics.RecordError("notify_stock_update")
	}
	if e.IsNew {
		if err := p.notifier.NotifyNewProduct(ctx, &models.NewProductAlert{
			ProductName: e.ProductName,
			StoreID:     e.StoreID,
		}); err != nil {
			p.metrics.RecordError("notify_new_product")
		}
	}
	if e.NewStock <= e.MinimumStock {
		if err := p.notifier.NotifyLowStock(ctx, &models.LowStockAlert{
			ProductName:  e.ProductName,
			CurrentStock: e.NewStock,
			MinimumStock: e.MinimumStock,
		}); err != nil {
			p.metrics.RecordError("notify_low_stock")
		}
	}
}

// Close closes underlying resources if available.
func (p *EventProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
