package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Moving-average periods drawn on the chart.
const (
	ShortMAPeriod = 20
	MidMAPeriod   = 50
	LongMAPeriod  = 200
)

// SMASeries returns the trailing simple moving average of prices. Entries
// before period points of history are NaN.
func SMASeries(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}
	sma := talib.Sma(prices, period)
	for i := period - 1; i < len(prices); i++ {
		out[i] = sma[i]
	}
	return out
}

// RollingMean averages up to period trailing prices, producing a value as
// soon as minPeriods points are available. Full windows come from talib.Sma;
// the partial leading windows, which talib does not produce, are cumulative
// means.
func RollingMean(prices []float64, period, minPeriods int) []float64 {
	out := nanSlice(len(prices))
	if period <= 0 {
		return out
	}
	if minPeriods < 1 {
		minPeriods = 1
	}
	sum := 0.0
	for i := 0; i < len(prices) && i < period-1; i++ {
		sum += prices[i]
		if i+1 >= minPeriods {
			out[i] = sum / float64(i+1)
		}
	}
	if len(prices) >= period && period >= minPeriods {
		full := SMASeries(prices, period)
		copy(out[period-1:], full[period-1:])
	}
	return out
}

// SMA200Series computes the long moving average. When the history is too
// short for a single full-period value it falls back to a one-point minimum
// so the chart still shows a partial curve.
func SMA200Series(prices []float64) []float64 {
	out := SMASeries(prices, LongMAPeriod)
	if countAvailable(out) > 0 {
		return out
	}
	return RollingMean(prices, LongMAPeriod, 1)
}

func countAvailable(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}
