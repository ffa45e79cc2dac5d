package dataset

import "math"

// Numeric returns the float values of every non-missing, numerically
// coercible cell, and whether the column is numeric in the strict sense
// (every non-missing cell coerced).
func (c *Column) Numeric() ([]float64, bool) {
	out := make([]float64, 0, len(c.Values))

	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}

		f, ok := v.Float()
		if !ok {
			return nil, false
		}

		out = append(out, f)
	}

	return out, true
}

// Mean returns the arithmetic mean of values; 0 for an empty slice.
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

// Std returns the population standard deviation of values.
func Std(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)

	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)))
}
