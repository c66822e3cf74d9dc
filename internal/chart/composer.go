package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"ChartSentinel/internal/calculator"
	"ChartSentinel/internal/customerrors"
	"ChartSentinel/internal/model"
)

// Render composes the four-panel chart for a windowed series and encodes it
// as PNG. It fails with customerrors.ErrDataUnavailable on an empty series
// and customerrors.ErrRender on any drawing or encoding problem.
func Render(s *model.Series, cfg Config) (art *model.ChartArtifact, err error) {
	if s == nil || s.Len() == 0 {
		symbol := ""
		if s != nil {
			symbol = s.Symbol
		}
		return nil, fmt.Errorf("render %s: empty series: %w", symbol, customerrors.ErrDataUnavailable)
	}
	cfg = cfg.withDefaults()

	defer func() {
		if r := recover(); r != nil {
			art = nil
			err = fmt.Errorf("render %s: %v: %w", s.Symbol, r, customerrors.ErrRender)
		}
	}()

	panels := []*plot.Plot{
		pricePanel(s, cfg),
		rsiPanel(s, cfg),
		volumePanel(s, cfg),
		maPanel(s, cfg),
	}

	dpi := float64(cfg.DPI)
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(cfg.Width)*vg.Inch/vg.Length(dpi), vg.Length(cfg.Height)*vg.Inch/vg.Length(dpi)),
		vgimg.UseDPI(cfg.DPI),
	)
	dc := draw.New(img)
	for i, c := range stackPanels(dc, panels, cfg.PanelRatios[:]) {
		panels[i].Draw(c)
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %s: %v: %w", s.Symbol, err, customerrors.ErrRender)
	}

	return &model.ChartArtifact{
		Kind:     model.ArtifactPNG,
		Data:     buf.Bytes(),
		Symbols:  []string{s.Symbol},
		Days:     s.Days,
		Filename: fmt.Sprintf("%s_%dd.png", s.Symbol, s.Days),
		Caption:  Caption(s),
	}, nil
}

// Caption summarises the pivot levels shown on the chart.
func Caption(s *model.Series) string {
	lv := s.Pivots
	return fmt.Sprintf("%s | Pivot=%.2f R1=%.2f S1=%.2f R2=%.2f S2=%.2f",
		s.Symbol, lv.Pivot, lv.R1, lv.S1, lv.R2, lv.S2)
}

func newPanel(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Legend.Top = true
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)
	return p
}

func addLine(p *plot.Plot, name string, line *plotter.Line) {
	if line == nil {
		return
	}
	p.Add(line)
	if name != "" {
		p.Legend.Add(name, line)
	}
}

func pricePanel(s *model.Series, cfg Config) *plot.Plot {
	n := s.Len()
	p := newPanel(fmt.Sprintf("%s - Last %d Days", s.Symbol, s.Days))
	p.HideX()
	p.Y.Label.Text = "Price"

	p.Add(&candlesticks{bars: s.Bars, upColor: cfg.UpColor, downColor: cfg.DownColor})
	addLine(p, "Donchian Upper", seriesLine(s.DonchianUpper, cfg.ChannelColor, vg.Points(1)))
	addLine(p, "Donchian Lower", seriesLine(s.DonchianLower, cfg.ChannelColor, vg.Points(1)))
	addLine(p, "Donchian Mid", seriesLine(s.DonchianMiddle, cfg.ChannelColor, vg.Points(1), dotted()...))

	lv := s.Pivots
	levels := []struct {
		value float64
		color color.Color
	}{
		{lv.R2, cfg.DownColor},
		{lv.R1, cfg.DownColor},
		{lv.Pivot, color.Gray{Y: 0x60}},
		{lv.S1, cfg.UpColor},
		{lv.S2, cfg.UpColor},
	}
	for _, l := range levels {
		addLine(p, "", hline(l.value, n, l.color, dashed()...))
	}
	p.Add(newLevelBox(lv, p.Legend.TextStyle))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range s.Bars {
		lo = math.Min(lo, b.Low)
		hi = math.Max(hi, b.High)
	}
	setRange(&p.Y, lo*0.98, hi*1.02)
	setCategoryRange(p, n)
	return p
}

func rsiPanel(s *model.Series, cfg Config) *plot.Plot {
	n := s.Len()
	p := newPanel(fmt.Sprintf("RSI (%d)", calculator.RSIPeriod))
	p.HideX()

	addLine(p, "RSI", seriesLine(s.RSI, cfg.RSIColor, vg.Points(1)))
	addLine(p, "", hline(70, n, cfg.DownColor, dashed()...))
	addLine(p, "", hline(30, n, cfg.UpColor, dashed()...))

	lo, hi, ok := availableRange(s.RSI)
	if !ok {
		lo, hi = 0, 100
	}
	setRange(&p.Y, math.Max(0, lo*0.98), math.Min(100, hi*1.02))
	setCategoryRange(p, n)
	return p
}

func volumePanel(s *model.Series, cfg Config) *plot.Plot {
	n := s.Len()
	p := newPanel("Volume")
	p.HideX()
	p.Y.Tick.Marker = volumeTicks{}

	volumes := make([]float64, n)
	for i, b := range s.Bars {
		volumes[i] = b.Volume
	}
	vb := &columns{values: volumes, color: cfg.VolumeColor}
	p.Add(vb)
	_, _, _, top := vb.DataRange()
	setRange(&p.Y, 0, top*1.05)
	setCategoryRange(p, n)
	return p
}

func maPanel(s *model.Series, cfg Config) *plot.Plot {
	n := s.Len()
	p := newPanel("Moving Averages")
	labels := make([]string, n)
	for i, b := range s.Bars {
		labels[i] = b.Time.Format("2006-01-02")
	}
	p.X.Tick.Marker = dateTicks{labels: labels}

	averages := []struct {
		name   string
		values []float64
	}{
		{fmt.Sprintf("SMA %d", calculator.ShortMAPeriod), s.SMA20},
		{fmt.Sprintf("SMA %d", calculator.MidMAPeriod), s.SMA50},
		{fmt.Sprintf("SMA %d", calculator.LongMAPeriod), s.SMA200},
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, ma := range averages {
		addLine(p, ma.name, seriesLine(ma.values, cfg.MAColors[i], vg.Points(1.2)))
		if l, h, ok := availableRange(ma.values); ok {
			lo = math.Min(lo, l)
			hi = math.Max(hi, h)
		}
	}
	if !math.IsInf(lo, 0) {
		setRange(&p.Y, lo*0.98, hi*1.02)
	}
	setCategoryRange(p, n)
	return p
}

// availableRange returns the min and max of the non-NaN values.
func availableRange(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}

// setRange fixes an axis range, widening degenerate spans.
func setRange(ax *plot.Axis, lo, hi float64) {
	if hi <= lo {
		pad := math.Max(math.Abs(lo)*0.01, 1)
		lo, hi = lo-pad, hi+pad
	}
	ax.Min, ax.Max = lo, hi
}

func setCategoryRange(p *plot.Plot, n int) {
	p.X.Min = -0.5
	p.X.Max = float64(n) - 0.5
}
