package forecast

import (
	"math"

	"StockCast/internal/domain/models"
)

// StockoutSentinel is the days-until-stockout value reported when predicted
// demand is zero (no depletion expected).
const StockoutSentinel = 999

// Classify turns current stock and predicted daily demand into a stockout
// horizon, a risk level, and a recommended reorder quantity. Negative demand
// predictions are clamped to zero before classification.
func Classify(currentStock int, predictedDemand float64) (days int, level models.RiskLevel, reorder int) {
	if predictedDemand < 0 {
		predictedDemand = 0
	}

	if predictedDemand > 0 {
		days = int(math.Floor(float64(currentStock) / predictedDemand))
	} else {
		days = StockoutSentinel
	}

	switch {
	case days <= 1:
		level = models.RiskCritical
		reorder = int(math.Round(predictedDemand * 14))
	case days <= 7:
		level = models.RiskHigh
		reorder = int(math.Round(predictedDemand * 7))
	case days <= 30:
		level = models.RiskMedium
		reorder = int(math.Round(predictedDemand * 3))
	default:
		level = models.RiskLow
		reorder = 0
	}
	return days, level, reorder
}
