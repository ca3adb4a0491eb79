package forecast

import (
	"errors"
	"fmt"
	"time"
)

// ErrSchemaMismatch is returned when a model artifact was trained against a
// different feature layout than the running binary expects.
var ErrSchemaMismatch = errors.New("forecast: model schema mismatch")

// Model is a trained linear demand model. Predict is pure: no I/O, no
// clock, no shared state, so a loaded model is safe for concurrent use.
type Model struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Schema    []string  `json:"schema"`
	TrainedAt time.Time `json:"trainedAt"`
}

// Predict returns the estimated daily demand for one feature vector.
func (m *Model) Predict(v FeatureVector) (float64, error) {
	if err := m.checkSchema(); err != nil {
		return 0, err
	}
	if err := v.Validate(); err != nil {
		return 0, err
	}
	sum := m.Bias
	for i, x := range v.Values() {
		sum += m.Weights[i] * x
	}
	return sum, nil
}

func (m *Model) checkSchema() error {
	if len(m.Weights) != NumFeatures || len(m.Schema) != NumFeatures {
		return fmt.Errorf("%w: got %d weights, %d schema entries, want %d",
			ErrSchemaMismatch, len(m.Weights), len(m.Schema), NumFeatures)
	}
	for i, name := range m.Schema {
		if name != FeatureNames[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i, name, FeatureNames[i])
		}
	}
	return nil
}
