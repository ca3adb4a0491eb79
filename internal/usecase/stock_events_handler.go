package usecase

import (
	"context"
	"encoding/json"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	pkgkafka "StockCast/pkg/kafka"
)

// StockEventsHandler consumes stock events from Kafka and writes them to
// storage, keeping the inventory view current.
type StockEventsHandler struct {
	topic   string
	storage domrepo.EventStorage
	metrics domrepo.Metrics
}

func NewStockEventsHandler(topic string, storage domrepo.EventStorage, metrics domrepo.Metrics) *StockEventsHandler {
	return &StockEventsHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *StockEventsHandler) Topic() string { return h.topic }

// incoming message schema: {storeId, productId, productName, stock, minStock, price, category, new, t}
func (h *StockEventsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		StoreID     string  `json:"storeId"`
		ProductID   string  `json:"productId"`
		ProductName string  `json:"productName"`
		Stock       int     `json:"stock"`
		MinStock    int     `json:"minStock"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		New         bool    `json:"new"`
		T           int64   `json:"t"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.StockEvent{
		StoreID:      m.StoreID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		NewStock:     m.Stock,
		MinimumStock: m.MinStock,
		Price:        m.Price,
		Category:     m.Category,
		IsNew:        m.New,
		Timestamp:    m.T,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordEventSent("clickhouse", m.ProductID)
	h.metrics.RecordStockLevel(m.ProductID, m.Stock)
	return nil
}

var _ pkgkafka.MessageHandler = (*StockEventsHandler)(nil)
