package collector

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/model"
)

// MockFetcher returns controllable synthetic data for development and testing.
type MockFetcher struct {
	Price float64
	// Bars overrides generated data for every symbol when set.
	Bars []model.OHLCV
	// Missing lists symbols that have no data.
	Missing map[string]bool

	mu       sync.Mutex
	Requests []MockRequest
}

// MockRequest records one FetchDailyRange call.
type MockRequest struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyRange(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, MockRequest{Symbol: symbol, Start: start, End: end})
	m.mu.Unlock()

	if m.Missing[symbol] {
		return nil, fmt.Errorf("mock: %s: %w", symbol, customerrors.ErrDataUnavailable)
	}
	if m.Bars != nil {
		var out []model.OHLCV
		for _, b := range m.Bars {
			if !b.Time.Before(start) && b.Time.Before(end) {
				out = append(out, b)
			}
		}
		return out, nil
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return GenerateTradingBars(price, dayOf(start), dayOf(end)), nil
}

// GenerateTradingBars builds one bar per weekday in [start, end) following a
// gentle wave around basePrice.
func GenerateTradingBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.08*math.Sin(float64(i)/9) + 0.0005*float64(i))
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.998,
			High:   p * 1.01,
			Low:    p * 0.99,
			Close:  p * (1 + 0.004*math.Cos(float64(i)/3)),
			Volume: 1000000 + float64(i%10)*50000,
		})
		i++
	}
	return bars
}
