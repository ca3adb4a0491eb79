package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
	pkgkafka "StockCast/pkg/kafka"
)

// ClickHouseEventStore implements EventStorage for ClickHouse.
type ClickHouseEventStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseEventStore creates ClickHouse event storage.
func NewClickHouseEventStore(db *sql.DB, table string) repository.EventStorage {
	return &ClickHouseEventStore{db: db, table: table}
}

func (s *ClickHouseEventStore) Store(ctx context.Context, e *models.StockEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, store_id, product_id, product_name, stock, min_stock, price, category, is_new, event_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	// Idempotency key derived from store+product+timestamp
	eventID := fmt.Sprintf("%s-%s-%d", e.StoreID, e.ProductID, e.Timestamp)
	_, err := s.db.ExecContext(ctx, q,
		time.Unix(e.Timestamp, 0),
		e.StoreID,
		e.ProductID,
		e.ProductName,
		e.NewStock,
		e.MinimumStock,
		e.Price,
		e.Category,
		e.IsNew,
		eventID,
	)
	return err
}

func (s *ClickHouseEventStore) StoreBatch(ctx context.Context, events []*models.StockEvent) error {
	if len(events) == 0 {
		return nil
	}
	// Multi-row VALUES insert to reduce round-trips, chunked at 2000 rows.
	const chunkSize = 2000
	for start := 0; start < len(events); start += chunkSize {
		end := start + chunkSize
		if end > len(events) {
			end = len(events)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*10)
		for _, e := range events[start:end] {
			if e == nil || e.StoreID == "" || e.ProductID == "" || e.Timestamp == 0 {
				continue
			}
			eventID := fmt.Sprintf("%s-%s-%d", e.StoreID, e.ProductID, e.Timestamp)
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(e.Timestamp, 0),
				e.StoreID,
				e.ProductID,
				e.ProductName,
				e.NewStock,
				e.MinimumStock,
				e.Price,
				e.Category,
				e.IsNew,
				eventID,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, store_id, product_id, product_name, stock, min_stock, price, category, is_new, event_id) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseEventStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseEventStore) Close() error {
	return nil // Managed by pkg
}

// KafkaEventPublisher implements Publisher for Kafka.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a Kafka publisher for stock events.
func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func eventPayload(e *models.StockEvent) map[string]interface{} {
	return map[string]interface{}{
		"storeId":     e.StoreID,
		"productId":   e.ProductID,
		"productName": e.ProductName,
		"stock":       e.NewStock,
		"minStock":    e.MinimumStock,
		"price":       e.Price,
		"category":    e.Category,
		"new":         e.IsNew,
		"t":           e.Timestamp,
	}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, e *models.StockEvent) error {
	key := []byte(e.StoreID + "/" + e.ProductID)
	return p.producer.Publish(ctx, p.topic, key, eventPayload(e))
}

func (p *KafkaEventPublisher) PublishBatch(ctx context.Context, events []*models.StockEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(events))
	for i, e := range events {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(e.StoreID + "/" + e.ProductID),
			Value: eventPayload(e),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// KafkaNotifier implements Notifier over the alerts topic. Consumers push
// the alerts out to whatever client transport they serve.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaNotifier(producer *pkgkafka.Producer, topic string) repository.Notifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) publish(ctx context.Context, kind string, payload interface{}) error {
	return n.producer.Publish(ctx, n.topic, []byte(kind), map[string]interface{}{
		"kind": kind,
		"data": payload,
	})
}

func (n *KafkaNotifier) NotifyStockUpdate(ctx context.Context, a *models.StockUpdateAlert) error {
	return n.publish(ctx, "StockUpdate", a)
}

func (n *KafkaNotifier) NotifyNewProduct(ctx context.Context, a *models.NewProductAlert) error {
	return n.publish(ctx, "NewProduct", a)
}

func (n *KafkaNotifier) NotifyLowStock(ctx context.Context, a *models.LowStockAlert) error {
	return n.publish(ctx, "LowStockAlert", a)
}
