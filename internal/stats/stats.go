// Package stats provides the small set of descriptive statistics the
// pipeline and analytics API need: mean, population standard deviation,
// Pearson correlation, and histogram binning.
//
// Standard deviation is always the population form (divide by N, not N-1),
// matching the z-score convention used by the cleaning pipeline.
package stats

import "math"

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopStdDev returns the population standard deviation of values, or 0 for
// an empty slice.
func PopStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// MinMax returns the smallest and largest value. Both are 0 for an empty slice.
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV
}

// Pearson returns the Pearson correlation coefficient between x and y.
// Returns 0 when the slices differ in length, are shorter than two
// elements, or either side has zero variance.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	meanX := Mean(x)
	meanY := Mean(y)
	var cov, varX, varY float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// Bin is one histogram bucket over the half-open interval [Low, High); the
// final bucket is closed on both ends so the maximum value is counted.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram buckets values into count equal-width bins spanning
// [min, max]. NaN values are ignored. Returns nil when no finite values
// remain or the bin count is not positive. A degenerate range (min == max)
// yields a single bin holding everything.
func Histogram(values []float64, count int) []Bin {
	if count <= 0 {
		return nil
	}
	finite := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil
	}

	minV, maxV := MinMax(finite)
	if minV == maxV {
		return []Bin{{Low: minV, High: maxV, Count: len(finite)}}
	}

	width := (maxV - minV) / float64(count)
	bins := make([]Bin, count)
	for i := range bins {
		bins[i].Low = minV + float64(i)*width
		bins[i].High = minV + float64(i+1)*width
	}
	bins[count-1].High = maxV

	for _, v := range finite {
		i := int((v - minV) / width)
		if i >= count {
			i = count - 1
		}
		bins[i].Count++
	}
	return bins
}
