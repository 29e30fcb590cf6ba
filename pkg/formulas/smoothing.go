package formulas

import (
	"github.com/markcheno/go-talib"
)

// SmoothSMA returns the simple moving average of the series with the
// given period. Leading values without a full window are dropped, so the
// result has len(values)-period+1 entries. Returns nil when the series
// is shorter than the period.
func SmoothSMA(values []float64, period int) []float64 {
	if period < 2 || len(values) < period {
		return nil
	}

	sma := talib.Sma(values, period)

	// talib pads the warm-up region with zeros; keep only full windows
	out := make([]float64, 0, len(sma)-period+1)
	for i := period - 1; i < len(sma); i++ {
		if !isNaN(sma[i]) {
			out = append(out, sma[i])
		}
	}
	return out
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
