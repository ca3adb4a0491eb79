package forecast

import (
	"math/rand"
	"testing"
)

func TestSimulateShape(t *testing.T) {
	now := fixedNow()
	rng := rand.New(rand.NewSource(5))

	days := Simulate(100, 8, 7, now, rng)
	if len(days) != 7 {
		t.Fatalf("len = %d, want 7", len(days))
	}
	for i, d := range days {
		want := now.AddDate(0, 0, i)
		if !d.Date.Equal(want) {
			t.Fatalf("day %d date = %v, want %v", i, d.Date, want)
		}
		if d.PredictedDemand < 8*0.85-1e-9 || d.PredictedDemand > 8*1.15+1e-9 {
			t.Fatalf("day %d demand %v outside ±15%% band around 8", i, d.PredictedDemand)
		}
	}
}

func TestSimulateStockNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	days := Simulate(10, 50, 7, fixedNow(), rng)

	prev := 10.0
	for i, d := range days {
		if d.ProjectedStock < 0 {
			t.Fatalf("day %d projected stock %v below zero", i, d.ProjectedStock)
		}
		if d.ProjectedStock > prev {
			t.Fatalf("day %d stock rose from %v to %v", i, prev, d.ProjectedStock)
		}
		prev = d.ProjectedStock
	}
	if days[len(days)-1].ProjectedStock != 0 {
		t.Fatalf("final stock = %v, want 0 under heavy demand", days[len(days)-1].ProjectedStock)
	}
}

func TestSimulateZeroDemand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i, d := range Simulate(40, 0, 7, fixedNow(), rng) {
		if d.PredictedDemand != 0 || d.ProjectedStock != 40 {
			t.Fatalf("day %d = (%v, %v), want (0, 40)", i, d.PredictedDemand, d.ProjectedStock)
		}
	}
}

func TestSimulateReproducible(t *testing.T) {
	a := Simulate(100, 8, 7, fixedNow(), rand.New(rand.NewSource(3)))
	b := Simulate(100, 8, 7, fixedNow(), rand.New(rand.NewSource(3)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("day %d differs under the same seed", i)
		}
	}
}
