package forecast

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestTrainEmptyCorpus(t *testing.T) {
	if _, err := Train(nil); !errors.Is(err, ErrTraining) {
		t.Fatalf("Train(nil) error = %v, want ErrTraining", err)
	}
}

func TestTrainSingular(t *testing.T) {
	// Identical rows make the normal equations rank deficient.
	row := Example{
		Features: FeatureVector{DayOfYear: 50, SeasonalIndex: 1, PricePoint: 20, CurrentStock: 100},
		Demand:   5,
	}
	corpus := Corpus{row, row, row}
	if _, err := Train(corpus); !errors.Is(err, ErrTraining) {
		t.Fatalf("Train on degenerate corpus error = %v, want ErrTraining", err)
	}
}

func TestTrainRecoversLinearRelation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	wantWeights := []float64{0.5, -2, 3, 1.5, 0.25, -0.75, 0.1, 0.02}
	wantBias := 4.0

	corpus := make(Corpus, 0, 500)
	for i := 0; i < 500; i++ {
		f := FeatureVector{
			DayOfYear:           1 + rng.Float64()*9,
			IsWeekend:           rng.Float64() * 10,
			IsHoliday:           rng.Float64() * 10,
			SeasonalIndex:       rng.Float64() * 10,
			MovingAverage7Days:  rng.Float64() * 10,
			MovingAverage30Days: rng.Float64() * 10,
			PricePoint:          rng.Float64() * 10,
			CurrentStock:        rng.Float64() * 10,
		}
		y := wantBias
		for j, x := range f.Values() {
			y += wantWeights[j] * x
		}
		y += rng.NormFloat64() * 0.01
		corpus = append(corpus, Example{Features: f, Demand: y})
	}

	m, err := Train(corpus)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	for i, w := range m.Weights {
		if math.Abs(w-wantWeights[i]) > math.Abs(wantWeights[i])*0.05 {
			t.Fatalf("weight %s = %v, want about %v", FeatureNames[i], w, wantWeights[i])
		}
	}
	if math.Abs(m.Bias-wantBias) > wantBias*0.05 {
		t.Fatalf("bias = %v, want about %v", m.Bias, wantBias)
	}
}

func TestTrainOnSyntheticCorpus(t *testing.T) {
	corpus := NewGenerator(fixedNow()).Generate(2000, 99)
	m, err := Train(corpus)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if len(m.Weights) != NumFeatures {
		t.Fatalf("len(Weights) = %d, want %d", len(m.Weights), NumFeatures)
	}

	// Predictions on training rows should land in a sane band.
	var sumAbs float64
	for _, ex := range corpus[:100] {
		p, err := m.Predict(ex.Features)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		sumAbs += math.Abs(p - ex.Demand)
	}
	if mae := sumAbs / 100; mae > 15 {
		t.Fatalf("mean absolute error %v too large for synthetic fit", mae)
	}
}
