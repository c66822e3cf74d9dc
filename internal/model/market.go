package model

import (
	"math"
	"time"
)

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PivotLevels are classic floor-trader levels taken from one bar.
type PivotLevels struct {
	Pivot float64
	R1    float64
	R2    float64
	S1    float64
	S2    float64
}

// Series holds daily bars and the indicator columns derived from them.
// Every column has the same length as Bars; NaN marks "not enough history".
type Series struct {
	Symbol string
	Days   int
	Bars   []OHLCV

	RSI            []float64
	SMA20          []float64
	SMA50          []float64
	SMA200         []float64
	DonchianUpper  []float64
	DonchianLower  []float64
	DonchianMiddle []float64

	Pivots    PivotLevels
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// Closes returns the close column.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column.
func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func (s *Series) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Since returns a copy of the series restricted to bars on or after t.
// Derived columns are sliced with the same bounds so they stay aligned.
func (s *Series) Since(t time.Time) *Series {
	start := len(s.Bars)
	for i, b := range s.Bars {
		if !b.Time.Before(t) {
			start = i
			break
		}
	}
	out := &Series{
		Symbol:    s.Symbol,
		Days:      s.Days,
		Bars:      append([]OHLCV(nil), s.Bars[start:]...),
		Pivots:    s.Pivots,
		FetchedAt: s.FetchedAt,
	}
	out.RSI = sliceColumn(s.RSI, start)
	out.SMA20 = sliceColumn(s.SMA20, start)
	out.SMA50 = sliceColumn(s.SMA50, start)
	out.SMA200 = sliceColumn(s.SMA200, start)
	out.DonchianUpper = sliceColumn(s.DonchianUpper, start)
	out.DonchianLower = sliceColumn(s.DonchianLower, start)
	out.DonchianMiddle = sliceColumn(s.DonchianMiddle, start)
	return out
}

func sliceColumn(col []float64, start int) []float64 {
	if col == nil {
		return nil
	}
	return append([]float64(nil), col[start:]...)
}

// Available reports whether v holds a computed value.
func Available(v float64) bool { return !math.IsNaN(v) }
