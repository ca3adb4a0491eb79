package models

// StockEvent is one stock-affecting mutation pushed by the store service
// feed. Timestamp is unix seconds.
type StockEvent struct {
	StoreID      string
	ProductID    string
	ProductName  string
	NewStock     int
	MinimumStock int
	Price        float64
	Category     string
	IsNew        bool // first event ever seen for this product at this store
	Timestamp    int64
}

// Alert payloads fanned out to subscribers on the notification channel after
// a stock-affecting mutation. The forecasting engine itself never publishes
// or consumes these; they belong to the ingest path.

type StockUpdateAlert struct {
	ProductName string `json:"productName"`
	NewStock    int    `json:"newStock"`
	StoreID     string `json:"storeId"`
}

type NewProductAlert struct {
	ProductName string `json:"productName"`
	StoreID     string `json:"storeId"`
}

type LowStockAlert struct {
	ProductName  string `json:"productName"`
	CurrentStock int    `json:"currentStock"`
	MinimumStock int    `json:"minimumStock"`
}
