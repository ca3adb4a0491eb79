package models

import (
	"encoding/json"
	"time"
)

// RiskLevel is the stockout risk tier derived from days-until-stockout.
// The numeric value doubles as the severity used to order forecast reports.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

func (r RiskLevel) String() string {
	switch r {
	case RiskCritical:
		return "Critical"
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	default:
		return "Low"
	}
}

// Severity orders tiers for report sorting; higher is worse.
func (r RiskLevel) Severity() int { return int(r) }

func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RiskLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch s {
	case "Critical":
		*r = RiskCritical
	case "High":
		*r = RiskHigh
	case "Medium":
		*r = RiskMedium
	default:
		*r = RiskLow
	}
	return nil
}

// DailyForecast is one step of the projected stock trajectory.
type DailyForecast struct {
	Date            time.Time `json:"date"`
	PredictedDemand float64   `json:"predictedDemand"`
	ProjectedStock  float64   `json:"projectedStock"`
}

// ForecastResult is the per-item output of the forecasting engine.
type ForecastResult struct {
	ProductName                string          `json:"productName"`
	StoreID                    string          `json:"storeId"`
	CurrentStock               int             `json:"currentStock"`
	PredictedDemand            float64         `json:"predictedDemand"`
	DaysUntilStockout          int             `json:"daysUntilStockout"`
	RiskLevel                  RiskLevel       `json:"riskLevel"`
	RecommendedReorderQuantity int             `json:"recommendedReorderQuantity"`
	DailyForecasts             []DailyForecast `json:"dailyForecasts"`
}
