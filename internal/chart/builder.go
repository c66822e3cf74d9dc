package chart

import (
	"context"
	"time"

	"ChartSentinel/internal/collector"
	"ChartSentinel/internal/model"
)

// Observer is told about every chart render attempt.
type Observer func(symbol string, days int, elapsed time.Duration, err error)

// Builder fetches, windows and renders a chart for one symbol.
type Builder struct {
	Collector *collector.Collector
	Config    Config
	Observer  Observer
}

// NewBuilder creates a Builder around a configured collector.
func NewBuilder(col *collector.Collector, cfg Config) *Builder {
	return &Builder{Collector: col, Config: cfg}
}

// Chart renders the last days calendar days of symbol.
func (b *Builder) Chart(ctx context.Context, symbol string, days int) (*model.ChartArtifact, error) {
	start := time.Now()
	art, err := b.chart(ctx, symbol, days)
	if b.Observer != nil {
		b.Observer(symbol, days, time.Since(start), err)
	}
	return art, err
}

func (b *Builder) chart(ctx context.Context, symbol string, days int) (*model.ChartArtifact, error) {
	series, err := b.Collector.Collect(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	return Render(series, b.Config)
}
