package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// RSIPeriod is the lookback used for the oscillator panel.
const RSIPeriod = 14

// RSISeries computes the relative strength index for every close using simple
// rolling means of gains and losses over the trailing period changes.
// The first period entries are NaN. A window without losses yields 100.
func RSISeries(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	// lossDays counts down moves; integer sums stay exact, so a window
	// without losses is detected without relying on float residue.
	lossDays := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else if change < 0 {
			losses[i] = -change
			lossDays[i] = 1
		}
	}

	sumGains := talib.Sum(gains, period)
	sumLosses := talib.Sum(losses, period)
	lossCount := talib.Sum(lossDays, period)
	for i := period; i < len(closes); i++ {
		if lossCount[i] == 0 {
			out[i] = 100.0
			continue
		}
		out[i] = rsiFromSums(math.Max(0, sumGains[i]), sumLosses[i], period)
	}
	return out
}

func rsiFromSums(sumGain, sumLoss float64, period int) float64 {
	if sumLoss == 0 {
		return 100.0
	}
	avgGain := sumGain / float64(period)
	avgLoss := sumLoss / float64(period)
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
