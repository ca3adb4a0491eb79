package forecast

import (
	"math"
	"math/rand"
	"time"
)

// Example is one labeled training row.
type Example struct {
	Features FeatureVector
	Demand   float64
}

// Corpus is a labeled training set.
type Corpus []Example

// Generator produces synthetic demand histories for bootstrapping a model
// when no real sales ledger exists yet.
type Generator struct {
	now time.Time
}

// NewGenerator anchors synthetic dates to the given reference time; sample
// dates fall uniformly within the trailing 365 days.
func NewGenerator(now time.Time) *Generator {
	return &Generator{now: now}
}

// Generate returns n labeled examples. The same seed always yields the same
// corpus for a fixed reference time.
func (g *Generator) Generate(n int, seed int64) Corpus {
	rng := rand.New(rand.NewSource(seed))
	corpus := make(Corpus, 0, n)

	for i := 0; i < n; i++ {
		date := g.now.AddDate(0, 0, -rng.Intn(365))
		baseStock := float64(10 + rng.Intn(990))
		price := rng.Float64()*100 + 10
		isHoliday := rng.Float64() < 0.05

		seasonal := SeasonalIndex(date)
		weekendFactor := 1.0
		if isWeekend(date) {
			weekendFactor = 0.7
		}
		priceFactor := math.Max(0.1, 2.0-price/50)

		demand := math.Max(1, baseStock*0.05*seasonal*weekendFactor*priceFactor+gaussian(rng)*5)

		corpus = append(corpus, Example{
			Features: FeatureVector{
				DayOfYear:           float64(date.YearDay()),
				IsWeekend:           boolToFloat(isWeekend(date)),
				IsHoliday:           boolToFloat(isHoliday),
				SeasonalIndex:       seasonal,
				MovingAverage7Days:  math.Max(0, demand*0.9+gaussian(rng)*2),
				MovingAverage30Days: math.Max(0, demand*0.8+gaussian(rng)*3),
				PricePoint:          price,
				CurrentStock:        baseStock,
			},
			Demand: demand,
		})
	}
	return corpus
}

// gaussian draws a standard normal sample via Box-Muller.
func gaussian(rng *rand.Rand) float64 {
	u1 := 1.0 - rng.Float64()
	u2 := 1.0 - rng.Float64()
	return math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
}
