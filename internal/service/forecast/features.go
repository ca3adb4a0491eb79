package forecast

import (
	"fmt"
	"math"
	"time"

	"StockCast/internal/domain/models"
)

// FeatureNames is the fixed column order of the design matrix. Trained models
// carry it as a schema fingerprint; prediction refuses vectors built against
// a different order.
var FeatureNames = []string{
	"dayOfYear",
	"isWeekend",
	"isHoliday",
	"seasonalIndex",
	"movingAverage7Days",
	"movingAverage30Days",
	"pricePoint",
	"currentStock",
}

// NumFeatures is the model input dimensionality.
const NumFeatures = 8

// FeatureVector is the fixed-shape input to the demand model.
type FeatureVector struct {
	DayOfYear           float64
	IsWeekend           float64
	IsHoliday           float64
	SeasonalIndex       float64
	MovingAverage7Days  float64
	MovingAverage30Days float64
	PricePoint          float64
	CurrentStock        float64
}

// Values returns the features in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.DayOfYear,
		v.IsWeekend,
		v.IsHoliday,
		v.SeasonalIndex,
		v.MovingAverage7Days,
		v.MovingAverage30Days,
		v.PricePoint,
		v.CurrentStock,
	}
}

// Validate rejects non-finite values and out-of-domain fields.
func (v FeatureVector) Validate() error {
	for i, x := range v.Values() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("feature %s is not finite", FeatureNames[i])
		}
	}
	if v.DayOfYear < 1 || v.DayOfYear > 366 {
		return fmt.Errorf("dayOfYear out of range: %v", v.DayOfYear)
	}
	if v.PricePoint < 0 {
		return fmt.Errorf("negative pricePoint: %v", v.PricePoint)
	}
	if v.CurrentStock < 0 {
		return fmt.Errorf("negative currentStock: %v", v.CurrentStock)
	}
	if v.MovingAverage7Days < 0 || v.MovingAverage30Days < 0 {
		return fmt.Errorf("negative moving average")
	}
	return nil
}

// SeasonalIndex approximates yearly demand seasonality as a cyclical
// multiplier: 0.8 + 0.4*sin(2*pi*month/12).
func SeasonalIndex(t time.Time) float64 {
	return 0.8 + 0.4*math.Sin(2*math.Pi*float64(t.Month())/12)
}

// NewInferenceVector builds the model input for one item using now as the
// reference date. With no historical demand ledger available, the moving
// averages are derived from current stock (factors 0.1 and 0.05), matching
// what the model saw in training.
func NewInferenceVector(item models.InventoryItem, now time.Time) (FeatureVector, error) {
	if item.CurrentStock < 0 {
		return FeatureVector{}, fmt.Errorf("item %s: negative stock %d", item.ProductID, item.CurrentStock)
	}
	if item.PricePoint.IsNegative() {
		return FeatureVector{}, fmt.Errorf("item %s: negative price %s", item.ProductID, item.PricePoint)
	}

	price, _ := item.PricePoint.Float64()
	stock := float64(item.CurrentStock)

	v := FeatureVector{
		DayOfYear:           float64(now.YearDay()),
		IsWeekend:           boolToFloat(isWeekend(now)),
		IsHoliday:           0,
		SeasonalIndex:       SeasonalIndex(now),
		MovingAverage7Days:  stock * 0.1,
		MovingAverage30Days: stock * 0.05,
		PricePoint:          price,
		CurrentStock:        stock,
	}
	if err := v.Validate(); err != nil {
		return FeatureVector{}, fmt.Errorf("item %s: %w", item.ProductID, err)
	}
	return v, nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
