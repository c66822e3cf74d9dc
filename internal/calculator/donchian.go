package calculator

import (
	"github.com/markcheno/go-talib"
)

// DefaultDonchianWindow is the channel lookback in bars.
const DefaultDonchianWindow = 20

// DonchianChannel holds the three channel lines, aligned with the input.
type DonchianChannel struct {
	Upper  []float64
	Lower  []float64
	Middle []float64
}

// Donchian computes the trailing max-high / min-low channel. The first
// window-1 entries of every line are NaN.
func Donchian(highs, lows []float64, window int) DonchianChannel {
	n := len(highs)
	if len(lows) < n {
		n = len(lows)
	}
	ch := DonchianChannel{Upper: nanSlice(n), Lower: nanSlice(n), Middle: nanSlice(n)}
	if window <= 0 || n < window {
		return ch
	}

	var upper, lower []float64
	if window == 1 {
		upper, lower = highs[:n], lows[:n]
	} else {
		upper = talib.Max(highs[:n], window)
		lower = talib.Min(lows[:n], window)
	}
	for i := window - 1; i < n; i++ {
		ch.Upper[i] = upper[i]
		ch.Lower[i] = lower[i]
		ch.Middle[i] = (upper[i] + lower[i]) / 2
	}
	return ch
}
