package chart

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"math"
	"testing"
	"time"

	"ChartSentinel/internal/calculator"
	"ChartSentinel/internal/collector"
	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/model"
)

func syntheticSeries(n int) *model.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := collector.GenerateTradingBars(120, start, start.AddDate(0, 0, n*2))[:n]
	s := &model.Series{Symbol: "TEST.NS", Days: n, Bars: bars}
	calculator.Apply(s, calculator.DefaultDonchianWindow)
	s.Pivots = calculator.Pivots(bars[len(bars)-1])
	return s
}

func TestRender_PNGSize(t *testing.T) {
	art, err := Render(syntheticSeries(120), DefaultConfig())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if art.Kind != model.ArtifactPNG {
		t.Errorf("kind = %s, want png", art.Kind)
	}
	img, err := png.Decode(bytes.NewReader(art.Data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1600 || b.Dy() != 800 {
		t.Errorf("image is %dx%d, want 1600x800", b.Dx(), b.Dy())
	}
}

func TestRender_CustomSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 800, 400
	art, err := Render(syntheticSeries(40), cfg)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(art.Data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 400 {
		t.Errorf("image is %dx%d, want 800x400", b.Dx(), b.Dy())
	}
}

func TestRender_ShortHistoryWithGaps(t *testing.T) {
	// Fewer bars than the Donchian window and the 50-period average.
	if _, err := Render(syntheticSeries(8), DefaultConfig()); err != nil {
		t.Fatalf("render short series: %v", err)
	}
}

func TestRender_SingleBar(t *testing.T) {
	if _, err := Render(syntheticSeries(1), DefaultConfig()); err != nil {
		t.Fatalf("render single bar: %v", err)
	}
}

func TestRender_EmptySeries(t *testing.T) {
	_, err := Render(&model.Series{Symbol: "NONE"}, DefaultConfig())
	if !errors.Is(err, customerrors.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	_, err = Render(nil, DefaultConfig())
	if !errors.Is(err, customerrors.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable for nil series, got %v", err)
	}
}

func TestAvailableRange_SkipsNaN(t *testing.T) {
	lo, hi, ok := availableRange([]float64{math.NaN(), 3, 1, math.NaN(), 7})
	if !ok || lo != 1 || hi != 7 {
		t.Errorf("got lo=%f hi=%f ok=%v", lo, hi, ok)
	}
	if _, _, ok := availableRange([]float64{math.NaN()}); ok {
		t.Error("expected ok=false for all-NaN input")
	}
}

func TestSeriesLine_OmitsLeadingGaps(t *testing.T) {
	line := seriesLine([]float64{math.NaN(), math.NaN(), 1, 2, 3}, DefaultConfig().RSIColor, 1)
	if line == nil {
		t.Fatal("expected a line")
	}
	if line.XYs[0].X != 2 {
		t.Errorf("line starts at x=%f, want 2", line.XYs[0].X)
	}
	if seriesLine([]float64{math.NaN(), 5}, DefaultConfig().RSIColor, 1) != nil {
		t.Error("a single available point should not produce a line")
	}
}

func TestDateTicks_Categorical(t *testing.T) {
	labels := make([]string, 25)
	for i := range labels {
		labels[i] = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	}
	ticks := dateTicks{labels: labels}.Ticks(-0.5, 24.5)
	if len(ticks) == 0 || len(ticks) > maxDateLabels {
		t.Fatalf("got %d ticks", len(ticks))
	}
	for _, tk := range ticks {
		if tk.Value != math.Trunc(tk.Value) {
			t.Errorf("tick at non-integer position %f", tk.Value)
		}
	}
}

func TestBuilder_ObservesRender(t *testing.T) {
	col := collector.NewCollector(&collector.MockFetcher{Missing: map[string]bool{"BAD": true}}, 0)
	b := NewBuilder(col, DefaultConfig())
	var seen []string
	b.Observer = func(symbol string, _ int, _ time.Duration, err error) {
		if err != nil {
			seen = append(seen, symbol+":err")
			return
		}
		seen = append(seen, symbol+":ok")
	}
	if _, err := b.Chart(context.Background(), "GOOD", 60); err != nil {
		t.Fatalf("chart: %v", err)
	}
	if _, err := b.Chart(context.Background(), "BAD", 60); !errors.Is(err, customerrors.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
	if len(seen) != 2 || seen[0] != "GOOD:ok" || seen[1] != "BAD:err" {
		t.Errorf("observer saw %v", seen)
	}
}

func constSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func assertRange(t *testing.T, name string, gotLo, gotHi, wantLo, wantHi float64) {
	t.Helper()
	if math.Abs(gotLo-wantLo) > 1e-9 || math.Abs(gotHi-wantHi) > 1e-9 {
		t.Errorf("%s y range = [%f, %f], want [%f, %f]", name, gotLo, gotHi, wantLo, wantHi)
	}
}

func TestPricePanel_RangeFromLowsAndHighs(t *testing.T) {
	s := syntheticSeries(60)
	for i := range s.Bars {
		s.Bars[i].Low, s.Bars[i].High = 100, 110
	}
	s.Bars[7].Low = 90
	s.Bars[30].High = 130

	p := pricePanel(s, DefaultConfig())
	assertRange(t, "price", p.Y.Min, p.Y.Max, 90*0.98, 130*1.02)
}

func TestRSIPanel_RangeClampedToScale(t *testing.T) {
	s := syntheticSeries(60)
	s.RSI = constSeries(60, 40)
	for i := 0; i < calculator.RSIPeriod; i++ {
		s.RSI[i] = math.NaN()
	}
	s.RSI[20], s.RSI[40] = 20, 60

	p := rsiPanel(s, DefaultConfig())
	assertRange(t, "rsi", p.Y.Min, p.Y.Max, 20*0.98, 60*1.02)

	// near the bounds the padding is cut at 0 and 100
	s.RSI[20], s.RSI[40] = 0, 99.5
	p = rsiPanel(s, DefaultConfig())
	assertRange(t, "rsi at bounds", p.Y.Min, p.Y.Max, 0, 100)

	s.RSI = constSeries(60, math.NaN())
	p = rsiPanel(s, DefaultConfig())
	assertRange(t, "rsi unavailable", p.Y.Min, p.Y.Max, 0, 100)
}

func TestMAPanel_RangeSkipsUnavailableValues(t *testing.T) {
	s := syntheticSeries(60)
	s.SMA20 = constSeries(60, 150)
	s.SMA20[10], s.SMA20[50] = 140, 160
	s.SMA50 = constSeries(60, 150)
	s.SMA200 = constSeries(60, 120)
	for i := 0; i < 40; i++ {
		s.SMA200[i] = math.NaN()
	}

	p := maPanel(s, DefaultConfig())
	assertRange(t, "ma", p.Y.Min, p.Y.Max, 120*0.98, 160*1.02)

	// with no long average at all only the short ones count
	s.SMA200 = constSeries(60, math.NaN())
	p = maPanel(s, DefaultConfig())
	assertRange(t, "ma without sma200", p.Y.Min, p.Y.Max, 140*0.98, 160*1.02)
}
