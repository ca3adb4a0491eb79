package forecast

import (
	"errors"
	"math"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
}

func validSchema() []string {
	s := make([]string, NumFeatures)
	copy(s, FeatureNames)
	return s
}

func TestPredictDotProduct(t *testing.T) {
	m := &Model{
		Weights: []float64{1, 2, 3, 4, 5, 6, 7, 8},
		Bias:    10,
		Schema:  validSchema(),
	}
	v := FeatureVector{
		DayOfYear:           1,
		IsWeekend:           1,
		IsHoliday:           1,
		SeasonalIndex:       1,
		MovingAverage7Days:  1,
		MovingAverage30Days: 1,
		PricePoint:          1,
		CurrentStock:        1,
	}
	got, err := m.Predict(v)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if want := 46.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("Predict = %v, want %v", got, want)
	}
}

func TestPredictSchemaMismatch(t *testing.T) {
	m := &Model{Weights: make([]float64, NumFeatures), Schema: validSchema()}
	m.Schema[3] = "somethingElse"
	if _, err := m.Predict(FeatureVector{DayOfYear: 1}); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}

	short := &Model{Weights: make([]float64, 3), Schema: validSchema()[:3]}
	if _, err := short.Predict(FeatureVector{DayOfYear: 1}); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}
}

func TestPredictRejectsInvalidVector(t *testing.T) {
	m := &Model{Weights: make([]float64, NumFeatures), Schema: validSchema()}
	bad := FeatureVector{DayOfYear: 1, CurrentStock: -5}
	if _, err := m.Predict(bad); err == nil {
		t.Fatal("Predict accepted invalid vector")
	}
}
