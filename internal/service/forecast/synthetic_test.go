package forecast

import (
	"testing"
	"time"
)

func TestGenerateDeterministic(t *testing.T) {
	now := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	g := NewGenerator(now)

	a := g.Generate(200, 42)
	b := g.Generate(200, 42)
	if len(a) != 200 || len(b) != 200 {
		t.Fatalf("corpus sizes = %d, %d, want 200", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("example %d differs between runs with the same seed", i)
		}
	}

	c := g.Generate(200, 43)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical corpora")
	}
}

func TestGenerateRanges(t *testing.T) {
	now := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	corpus := NewGenerator(now).Generate(1000, 7)

	for i, ex := range corpus {
		if ex.Demand < 1 {
			t.Fatalf("example %d: demand %v below floor of 1", i, ex.Demand)
		}
		f := ex.Features
		if f.CurrentStock < 10 || f.CurrentStock > 999 {
			t.Fatalf("example %d: stock %v outside [10, 999]", i, f.CurrentStock)
		}
		if f.PricePoint < 10 || f.PricePoint >= 110 {
			t.Fatalf("example %d: price %v outside [10, 110)", i, f.PricePoint)
		}
		if err := f.Validate(); err != nil {
			t.Fatalf("example %d: %v", i, err)
		}
	}
}
