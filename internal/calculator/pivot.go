package calculator

import "ChartSentinel/internal/model"

// Pivots returns the floor-trader pivot, resistance and support levels for a
// single bar.
func Pivots(bar model.OHLCV) model.PivotLevels {
	pivot := (bar.High + bar.Low + bar.Close) / 3
	spread := bar.High - bar.Low
	return model.PivotLevels{
		Pivot: pivot,
		R1:    2*pivot - bar.Low,
		S1:    2*pivot - bar.High,
		R2:    pivot + spread,
		S2:    pivot - spread,
	}
}
