package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"StockCast/internal/domain/models"
)

func TestSeasonalIndex(t *testing.T) {
	march := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	got := SeasonalIndex(march)
	want := 0.8 + 0.4*math.Sin(2*math.Pi*3/12)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("SeasonalIndex(march) = %v, want %v", got, want)
	}

	// Every month stays inside the design envelope [0.4, 1.2].
	for m := time.January; m <= time.December; m++ {
		v := SeasonalIndex(time.Date(2026, m, 1, 0, 0, 0, 0, time.UTC))
		if v < 0.4 || v > 1.2 {
			t.Fatalf("SeasonalIndex(%v) = %v out of [0.4, 1.2]", m, v)
		}
	}
}

func TestFeatureVectorValuesOrder(t *testing.T) {
	v := FeatureVector{
		DayOfYear:           1,
		IsWeekend:           2,
		IsHoliday:           3,
		SeasonalIndex:       4,
		MovingAverage7Days:  5,
		MovingAverage30Days: 6,
		PricePoint:          7,
		CurrentStock:        8,
	}
	vals := v.Values()
	if len(vals) != NumFeatures {
		t.Fatalf("len(Values()) = %d, want %d", len(vals), NumFeatures)
	}
	for i, want := range []float64{1, 2, 3, 4, 5, 6, 7, 8} {
		if vals[i] != want {
			t.Fatalf("Values()[%d] = %v, want %v (column %s)", i, vals[i], want, FeatureNames[i])
		}
	}
}

func TestFeatureVectorValidate(t *testing.T) {
	good := FeatureVector{DayOfYear: 100, SeasonalIndex: 1, PricePoint: 5, CurrentStock: 10}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() on good vector: %v", err)
	}

	bad := good
	bad.PricePoint = -1
	if err := bad.Validate(); err == nil {
		t.Fatal("Validate() accepted negative pricePoint")
	}

	bad = good
	bad.MovingAverage7Days = math.NaN()
	if err := bad.Validate(); err == nil {
		t.Fatal("Validate() accepted NaN feature")
	}
}

func TestNewInferenceVector(t *testing.T) {
	saturday := time.Date(2026, time.June, 6, 12, 0, 0, 0, time.UTC)
	item := models.InventoryItem{
		StoreID:      "s1",
		ProductID:    "p1",
		CurrentStock: 200,
		PricePoint:   decimal.NewFromFloat(25.5),
	}

	v, err := NewInferenceVector(item, saturday)
	if err != nil {
		t.Fatalf("NewInferenceVector: %v", err)
	}
	if v.IsWeekend != 1 {
		t.Fatalf("IsWeekend = %v on a Saturday", v.IsWeekend)
	}
	if v.IsHoliday != 0 {
		t.Fatalf("IsHoliday = %v, want 0 at inference", v.IsHoliday)
	}
	if v.MovingAverage7Days != 20 || v.MovingAverage30Days != 10 {
		t.Fatalf("moving averages = (%v, %v), want (20, 10)", v.MovingAverage7Days, v.MovingAverage30Days)
	}
	if v.CurrentStock != 200 || v.PricePoint != 25.5 {
		t.Fatalf("stock/price = (%v, %v)", v.CurrentStock, v.PricePoint)
	}

	item.CurrentStock = -1
	if _, err := NewInferenceVector(item, saturday); err == nil {
		t.Fatal("NewInferenceVector accepted negative stock")
	}
}
