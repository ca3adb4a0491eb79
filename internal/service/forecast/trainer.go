package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrTraining marks a corpus the solver cannot fit (empty, degenerate, or
// numerically singular normal equations).
var ErrTraining = errors.New("forecast: training failed")

// Train fits a linear demand model by ordinary least squares. The normal
// equations are accumulated in one pass over the corpus and solved by
// Gaussian elimination with partial pivoting; the last column of the design
// matrix is the bias term.
func Train(corpus Corpus) (*Model, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("%w: empty corpus", ErrTraining)
	}

	dim := NumFeatures + 1
	xtx := make([][]float64, dim)
	for i := range xtx {
		xtx[i] = make([]float64, dim)
	}
	xty := make([]float64, dim)

	row := make([]float64, dim)
	for _, ex := range corpus {
		if err := ex.Features.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTraining, err)
		}
		copy(row, ex.Features.Values())
		row[dim-1] = 1
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * ex.Demand
		}
	}

	theta, err := solve(xtx, xty)
	if err != nil {
		return nil, err
	}

	schema := make([]string, NumFeatures)
	copy(schema, FeatureNames)

	return &Model{
		Weights:   theta[:NumFeatures],
		Bias:      theta[NumFeatures],
		Schema:    schema,
		TrainedAt: time.Now().UTC(),
	}, nil
}

// solve runs Gaussian elimination with partial pivoting on a [b] in place.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-10 {
			return nil, fmt.Errorf("%w: singular system at column %d", ErrTraining, col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}
