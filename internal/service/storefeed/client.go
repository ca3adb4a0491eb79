package storefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"StockCast/internal/domain/models"
	drepo "StockCast/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a StoreStream backed by the store service's stock
// WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	storeIDs       []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a StoreStream over the stock feed.
func New(apiKey, websocketURL string, storeIDs []string, reconnectDelay, pingInterval time.Duration) drepo.StoreStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		storeIDs:       storeIDs,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("storefeed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("storefeed: connected")
	return nil
}

// Subscribe subscribes to configured stores.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("storefeed not connected")
	}
	for _, s := range c.storeIDs {
		msg := map[string]string{"type": "subscribe", "storeId": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		log.Printf("storefeed: subscribed %s", s)
	}
	return nil
}

type feedEvent struct {
	StoreID     string  `json:"storeId"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"minStock"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	New         bool    `json:"new"`
	T           int64   `json:"t"` // ms
}

type feedMessage struct {
	Type string      `json:"type"`
	Data []feedEvent `json:"data"`
}

// Read streams StockEvents and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.StockEvent, <-chan error) {
	events := make(chan *models.StockEvent, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(events)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("storefeed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("storefeed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-stock frames
					continue
				}
				if m.Type != "stock" {
					continue
				}
				for _, d := range m.Data {
					ev := &models.StockEvent{
						StoreID:      d.StoreID,
						ProductID:    d.ProductID,
						ProductName:  d.ProductName,
						NewStock:     d.Stock,
						MinimumStock: d.MinStock,
						Price:        d.Price,
						Category:     d.Category,
						IsNew:        d.New,
						Timestamp:    d.T / 1000,
					}
					select {
					case events <- ev:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return events, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
