package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/forecast"
	"StockCast/pkg/cache"
	"StockCast/pkg/logger"
)

type fakeInventory struct {
	items []models.InventoryItem
}

func (f *fakeInventory) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return f.items, nil
}

func (f *fakeInventory) ListByStore(ctx context.Context, storeID string) ([]models.InventoryItem, error) {
	var out []models.InventoryItem
	for _, it := range f.items {
		if it.StoreID == storeID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeInventory) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	return nil, nil
}

func (f *fakeInventory) Health(ctx context.Context) error { return nil }

type fakeMetrics struct {
	forecasts map[string]int
	trainings int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{forecasts: make(map[string]int)} }

func (m *fakeMetrics) RecordEventSent(backend, productID string)    {}
func (m *fakeMetrics) RecordError(kind string)                      {}
func (m *fakeMetrics) RecordStockLevel(productID string, stock int) {}
func (m *fakeMetrics) RecordLatency(op string, seconds float64)     {}
func (m *fakeMetrics) RecordForecast(risk string)                   { m.forecasts[risk]++ }
func (m *fakeMetrics) RecordTrainingDuration(seconds float64)       { m.trainings++ }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return lgr
}

func biasOnlyModel(bias float64) *forecast.Model {
	schema := make([]string, forecast.NumFeatures)
	copy(schema, forecast.FeatureNames)
	return &forecast.Model{
		Weights:   make([]float64, forecast.NumFeatures),
		Bias:      bias,
		Schema:    schema,
		TrainedAt: time.Now().UTC(),
	}
}

func newTestForecaster(t *testing.T, inv *fakeInventory, store forecast.ModelStore) (*Forecaster, *fakeMetrics) {
	t.Helper()
	metrics := newFakeMetrics()
	f := NewForecaster(inv, store, cache.NewMemoryCache(), metrics, testLogger(t),
		500, 42, 7, time.Minute)
	return f, metrics
}

func TestGetAllForecastsWithPersistedModel(t *testing.T) {
	store := forecast.NewFileStore(filepath.Join(t.TempDir(), "model.json"))
	if err := store.Save(biasOnlyModel(3.0)); err != nil {
		t.Fatalf("seed model: %v", err)
	}

	inv := &fakeInventory{items: []models.InventoryItem{{
		StoreID:      "s1",
		ProductID:    "p1",
		ProductName:  "Oat Milk",
		CurrentStock: 5,
		MinimumStock: 2,
		PricePoint:   decimal.NewFromFloat(20),
	}}}

	f, metrics := newTestForecaster(t, inv, store)
	report, err := f.GetAllForecasts(context.Background(), "", false)
	if err != nil {
		t.Fatalf("GetAllForecasts: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("len(report) = %d, want 1", len(report))
	}

	r := report[0]
	if r.PredictedDemand != 3.0 {
		t.Fatalf("predicted demand = %v, want 3", r.PredictedDemand)
	}
	if r.DaysUntilStockout != 1 {
		t.Fatalf("days until stockout = %d, want 1", r.DaysUntilStockout)
	}
	if r.RiskLevel != models.RiskCritical {
		t.Fatalf("risk = %v, want Critical", r.RiskLevel)
	}
	if r.RecommendedReorderQuantity != 42 {
		t.Fatalf("reorder = %d, want 42", r.RecommendedReorderQuantity)
	}
	if len(r.DailyForecasts) != 7 {
		t.Fatalf("daily forecasts = %d, want 7", len(r.DailyForecasts))
	}
	if metrics.forecasts["Critical"] != 1 {
		t.Fatalf("forecast metric recorded %v", metrics.forecasts)
	}
	if metrics.trainings != 0 {
		t.Fatal("trained despite a persisted model")
	}
}

func TestGetAllForecastsSortsBySeverity(t *testing.T) {
	store := forecast.NewFileStore(filepath.Join(t.TempDir(), "model.json"))
	if err := store.Save(biasOnlyModel(10.0)); err != nil {
		t.Fatalf("seed model: %v", err)
	}

	inv := &fakeInventory{items: []models.InventoryItem{
		{StoreID: "s1", ProductID: "calm", ProductName: "Calm", CurrentStock: 5000, PricePoint: decimal.NewFromInt(5)},
		{StoreID: "s1", ProductID: "urgent", ProductName: "Urgent", CurrentStock: 8, PricePoint: decimal.NewFromInt(5)},
		{StoreID: "s1", ProductID: "soon", ProductName: "Soon", CurrentStock: 60, PricePoint: decimal.NewFromInt(5)},
	}}

	f, _ := newTestForecaster(t, inv, store)
	report, err := f.GetAllForecasts(context.Background(), "s1", false)
	if err != nil {
		t.Fatalf("GetAllForecasts: %v", err)
	}
	if len(report) != 3 {
		t.Fatalf("len(report) = %d, want 3", len(report))
	}
	for i := 1; i < len(report); i++ {
		if report[i-1].RiskLevel.Severity() < report[i].RiskLevel.Severity() {
			t.Fatalf("report not sorted by severity: %v before %v",
				report[i-1].RiskLevel, report[i].RiskLevel)
		}
	}
	if report[0].ProductName != "Urgent" {
		t.Fatalf("most urgent item = %s, want Urgent", report[0].ProductName)
	}
}

func TestGetAllForecastsReturnsItemFailures(t *testing.T) {
	store := forecast.NewFileStore(filepath.Join(t.TempDir(), "model.json"))
	if err := store.Save(biasOnlyModel(3.0)); err != nil {
		t.Fatalf("seed model: %v", err)
	}

	inv := &fakeInventory{items: []models.InventoryItem{
		{StoreID: "s1", ProductID: "good", ProductName: "Good", CurrentStock: 40, PricePoint: decimal.NewFromInt(5)},
		{StoreID: "s1", ProductID: "bad", ProductName: "Bad", CurrentStock: -7, PricePoint: decimal.NewFromInt(5)},
	}}

	f, _ := newTestForecaster(t, inv, store)
	report, err := f.GetAllForecasts(context.Background(), "", false)
	if err == nil {
		t.Fatal("invalid item did not surface an error")
	}
	var ferr *ForecastError
	if !errors.As(err, &ferr) {
		t.Fatalf("error %v does not unwrap to ForecastError", err)
	}
	if ferr.ProductID != "bad" {
		t.Fatalf("failed product = %s, want bad", ferr.ProductID)
	}
	if len(report) != 1 || report[0].ProductName != "Good" {
		t.Fatalf("partial report = %v, want the one valid item", report)
	}

	// The partial report must not have been cached.
	report, err = f.GetAllForecasts(context.Background(), "", false)
	if err == nil {
		t.Fatal("second call served a cached partial report")
	}
	if len(report) != 1 {
		t.Fatalf("len(report) = %d on recompute, want 1", len(report))
	}
}

func TestEnsureModelSurfacesCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	store := forecast.NewFileStore(path)

	inv := &fakeInventory{items: []models.InventoryItem{{
		StoreID: "s1", ProductID: "p1", ProductName: "Tea",
		CurrentStock: 10, PricePoint: decimal.NewFromInt(4),
	}}}

	f, metrics := newTestForecaster(t, inv, store)
	if _, err := f.GetAllForecasts(context.Background(), "", false); err == nil {
		t.Fatal("corrupt model artifact did not surface an error")
	}
	if metrics.trainings != 0 {
		t.Fatalf("trainings = %d, want 0: corrupt artifact must not trigger retraining", metrics.trainings)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(b) != "{not json" {
		t.Fatal("corrupt artifact was overwritten")
	}
}

func TestEnsureModelTrainsWhenArtifactMissing(t *testing.T) {
	store := forecast.NewFileStore(filepath.Join(t.TempDir(), "model.json"))
	inv := &fakeInventory{items: []models.InventoryItem{{
		StoreID:      "s1",
		ProductID:    "p1",
		ProductName:  "Beans",
		CurrentStock: 120,
		PricePoint:   decimal.NewFromFloat(12.5),
	}}}

	f, metrics := newTestForecaster(t, inv, store)
	if _, err := f.GetAllForecasts(context.Background(), "", false); err != nil {
		t.Fatalf("GetAllForecasts: %v", err)
	}
	if metrics.trainings != 1 {
		t.Fatalf("trainings = %d, want 1", metrics.trainings)
	}
	if _, err := store.Load(); err != nil {
		t.Fatalf("model not persisted after lazy training: %v", err)
	}

	// Second call reuses the in-memory model.
	if _, err := f.GetAllForecasts(context.Background(), "", true); err != nil {
		t.Fatalf("second GetAllForecasts: %v", err)
	}
	if metrics.trainings != 1 {
		t.Fatalf("trainings = %d after second call, want 1", metrics.trainings)
	}
}

func TestRetrainSwapsModelAndInvalidatesCache(t *testing.T) {
	store := forecast.NewFileStore(filepath.Join(t.TempDir(), "model.json"))
	if err := store.Save(biasOnlyModel(3.0)); err != nil {
		t.Fatalf("seed model: %v", err)
	}
	inv := &fakeInventory{items: []models.InventoryItem{{
		StoreID: "s1", ProductID: "p1", ProductName: "Rice",
		CurrentStock: 50, PricePoint: decimal.NewFromInt(8),
	}}}

	f, metrics := newTestForecaster(t, inv, store)
	if _, err := f.GetAllForecasts(context.Background(), "", false); err != nil {
		t.Fatalf("warm up: %v", err)
	}

	if err := f.Retrain(context.Background(), 300, 7); err != nil {
		t.Fatalf("Retrain: %v", err)
	}
	if metrics.trainings != 1 {
		t.Fatalf("trainings = %d, want 1", metrics.trainings)
	}

	// The cached report was invalidated, so the next call recomputes with
	// the new model rather than serving the bias-only predictions.
	report, err := f.GetAllForecasts(context.Background(), "", false)
	if err != nil {
		t.Fatalf("GetAllForecasts after retrain: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("len(report) = %d, want 1", len(report))
	}
	if report[0].PredictedDemand == 3.0 {
		t.Fatal("report still served by the pre-retrain model")
	}
}
