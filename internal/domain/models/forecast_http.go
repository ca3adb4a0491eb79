package models

// Requests for the forecasting HTTP endpoints. Defined in domain for
// consistency and reuse.

type ForecastsRequest struct {
	StoreID string `query:"storeId" json:"storeId"`
	Refresh bool   `query:"refresh" json:"refresh"`
}

type ItemsRequest struct {
	StoreID      string `query:"storeId" json:"storeId"`
	LowStock     bool   `query:"lowStock" json:"lowStock"`
	UpdatedSince string `query:"updatedSince" json:"updatedSince"`
	Limit        int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}

type RetrainRequest struct {
	Examples int   `json:"examples" default:"1000" validate:"gte=10,lte=100000"`
	Seed     int64 `json:"seed"`
}
