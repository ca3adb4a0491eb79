package forecast

import (
	"math/rand"
	"time"

	"StockCast/internal/domain/models"
)

// Simulate projects stock depletion over horizon days. Each day draws a
// demand sample uniformly within ±15% of avgDemand; projected stock never
// goes below zero. The caller owns the rng, which makes runs reproducible
// under a fixed seed.
func Simulate(currentStock int, avgDemand float64, horizon int, now time.Time, rng *rand.Rand) []models.DailyForecast {
	out := make([]models.DailyForecast, 0, horizon)
	stock := float64(currentStock)

	for i := 0; i < horizon; i++ {
		daily := avgDemand + (rng.Float64()-0.5)*avgDemand*0.3
		if daily < 0 {
			daily = 0
		}
		stock -= daily
		if stock < 0 {
			stock = 0
		}
		out = append(out, models.DailyForecast{
			Date:            now.AddDate(0, 0, i),
			PredictedDemand: daily,
			ProjectedStock:  stock,
		})
	}
	return out
}
