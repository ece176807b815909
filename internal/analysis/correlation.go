package analysis

import (
	"errors"
	"math"
)

// Pearson computes the Pearson correlation coefficient of two equal-length
// samples.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, errors.New("sample lengths differ")
	}
	if len(x) < 2 {
		return 0, errors.New("not enough observations for correlation")
	}

	n := float64(len(x))
	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	den := math.Sqrt(varX * varY)
	if den == 0 {
		return 0, errors.New("zero variance sample")
	}
	return cov / den, nil
}

// RollingMean returns the trailing arithmetic mean of values over a fixed
// window. Entries before the window first fills are nil.
func RollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			mean := sum / float64(window)
			out[i] = &mean
		}
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
