package forecast

import (
	"testing"

	"StockCast/internal/domain/models"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		name        string
		stock       int
		demand      float64
		wantDays    int
		wantLevel   models.RiskLevel
		wantReorder int
	}{
		{"critical at one day", 10, 10, 1, models.RiskCritical, 140},
		{"high at seven days", 70, 10, 7, models.RiskHigh, 70},
		{"medium at thirty days", 300, 10, 30, models.RiskMedium, 30},
		{"low past thirty days", 310, 10, 31, models.RiskLow, 0},
		{"zero demand is low with sentinel", 100, 0, StockoutSentinel, models.RiskLow, 0},
		{"negative demand clamps to zero", 100, -5, StockoutSentinel, models.RiskLow, 0},
		{"empty shelf is critical", 0, 3, 0, models.RiskCritical, 42},
		{"fractional horizon floors", 25, 10, 2, models.RiskHigh, 70},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, level, reorder := Classify(tc.stock, tc.demand)
			if days != tc.wantDays {
				t.Fatalf("days = %d, want %d", days, tc.wantDays)
			}
			if level != tc.wantLevel {
				t.Fatalf("level = %v, want %v", level, tc.wantLevel)
			}
			if reorder != tc.wantReorder {
				t.Fatalf("reorder = %d, want %d", reorder, tc.wantReorder)
			}
		})
	}
}

func TestClassifySeverityOrdering(t *testing.T) {
	_, critical, _ := Classify(5, 10)
	_, high, _ := Classify(50, 10)
	_, medium, _ := Classify(200, 10)
	_, low, _ := Classify(1000, 10)

	if !(critical.Severity() > high.Severity() &&
		high.Severity() > medium.Severity() &&
		medium.Severity() > low.Severity()) {
		t.Fatalf("severity ordering broken: %d %d %d %d",
			critical.Severity(), high.Severity(), medium.Severity(), low.Severity())
	}
}
