package prep

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes numeric columns to zero mean and unit variance.
type Scaler struct {
	mean  []float64
	scale []float64
}

// FitScaler learns mean and population standard deviation of every
// column, ignoring NaN. A constant column gets scale 1.
func FitScaler(cols [][]float64) *Scaler {
	res := Scaler{
		mean:  make([]float64, len(cols)),
		scale: make([]float64, len(cols)),
	}
	for j, col := range cols {
		vals := make([]float64, 0, len(col))
		for _, v := range col {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		res.scale[j] = 1
		if len(vals) == 0 {
			continue
		}
		m, sd := stat.PopMeanStdDev(vals, nil)
		res.mean[j] = m
		if sd > 0 && !math.IsNaN(sd) {
			res.scale[j] = sd
		}
	}
	return &res
}

// Transform writes standardized values of row i into dst. Missing values
// become 0, the mean of the column.
func (s *Scaler) Transform(cols [][]float64, i int, dst []float64) {
	for j := range s.mean {
		v := cols[j][i]
		if math.IsNaN(v) {
			dst[j] = 0
			continue
		}
		dst[j] = (v - s.mean[j]) / s.scale[j]
	}
}

// Mean returns learned means.
func (s *Scaler) Mean() []float64 {
	return s.mean
}

// Scale returns learned standard deviations.
func (s *Scaler) Scale() []float64 {
	return s.scale
}
