package forecast

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "models", "demand.json"))

	want := &Model{
		Weights:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8},
		Bias:      1.25,
		Schema:    validSchema(),
		TrainedAt: time.Date(2026, time.April, 2, 10, 30, 0, 0, time.UTC),
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := range want.Weights {
		if math.Abs(got.Weights[i]-want.Weights[i]) > 1e-6 {
			t.Fatalf("weight %d = %v, want %v", i, got.Weights[i], want.Weights[i])
		}
	}
	if math.Abs(got.Bias-want.Bias) > 1e-6 {
		t.Fatalf("bias = %v, want %v", got.Bias, want.Bias)
	}
	if !got.TrainedAt.Equal(want.TrainedAt) {
		t.Fatalf("trainedAt = %v, want %v", got.TrainedAt, want.TrainedAt)
	}
}

func TestFileStoreNotFound(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := store.Load(); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("Load error = %v, want ErrModelNotFound", err)
	}
}

func TestFileStoreRejectsForeignSchema(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "demand.json"))
	m := &Model{Weights: make([]float64, NumFeatures), Schema: validSchema()}
	m.Schema[0] = "temperature"
	if err := store.Save(m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("Load error = %v, want ErrSchemaMismatch", err)
	}
}
