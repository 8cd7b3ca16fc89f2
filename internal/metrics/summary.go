package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize describes a series of observations. An empty series yields a
// zero Summary.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(series, nil)
	if len(series) == 1 {
		std = 0
	}
	return Summary{
		Count:  len(series),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(series),
		Max:    floats.Max(series),
	}
}

// RelativeDrift returns |s[i]-s[0]|/|s[0]| for each element of s.
func RelativeDrift(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, len(series))
	copy(out, series)
	floats.AddConst(-series[0], out)
	for i, v := range out {
		out[i] = math.Abs(v)
	}
	if series[0] != 0 {
		floats.Scale(1/math.Abs(series[0]), out)
	}
	return out
}
