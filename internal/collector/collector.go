package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"ChartSentinel/internal/calculator"
	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/model"
)

const (
	// WarmupBufferDays is added in front of the display window so the
	// 200-period average is warmed up before the first visible bar.
	WarmupBufferDays = 260
	// MinInternalDays is the smallest internal window ever fetched.
	MinInternalDays = 420
)

// InternalWindowDays returns the calendar span fetched for a display window.
func InternalWindowDays(days int) int {
	if n := days + WarmupBufferDays; n > MinInternalDays {
		return n
	}
	return MinInternalDays
}

// Collector orchestrates data fetching, windowing and indicator computation.
type Collector struct {
	Fetcher        Fetcher
	DonchianWindow int
	// Now is the clock used to anchor windows; defaults to time.Now.
	Now func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, donchianWindow int) *Collector {
	if donchianWindow <= 0 {
		donchianWindow = calculator.DefaultDonchianWindow
	}
	return &Collector{Fetcher: fetcher, DonchianWindow: donchianWindow, Now: time.Now}
}

func (c *Collector) today() time.Time {
	if c.Now == nil {
		return dayOf(time.Now())
	}
	return dayOf(c.Now())
}

// Collect fetches the internal window for symbol, computes every indicator
// over it and returns the display window of the last days calendar days
// with pivots taken from its final bar.
func (c *Collector) Collect(ctx context.Context, symbol string, days int) (*model.Series, error) {
	today := c.today()
	internalStart := today.AddDate(0, 0, -InternalWindowDays(days))
	displayStart := today.AddDate(0, 0, -days)
	end := today.AddDate(0, 0, 1)

	raw, err := c.Fetcher.FetchDailyRange(ctx, symbol, internalStart, end)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	full := &model.Series{Symbol: symbol, Days: days, FetchedAt: time.Now()}
	for _, b := range raw {
		if !b.Time.Before(internalStart) {
			full.Bars = append(full.Bars, b)
		}
	}
	calculator.Apply(full, c.DonchianWindow)

	display := full.Since(displayStart)
	if display.Len() == 0 {
		return nil, fmt.Errorf("no data returned for %s in the last %d days: %w", symbol, days, customerrors.ErrDataUnavailable)
	}
	display.Pivots = calculator.Pivots(display.Bars[display.Len()-1])

	log.Debug().
		Str("symbol", symbol).
		Int("days", days).
		Int("internal_bars", full.Len()).
		Int("display_bars", display.Len()).
		Msg("series collected")
	return display, nil
}
