package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"ChartSentinel/internal/model"
)

// candlesticks draws one OHLC candle per bar index.
type candlesticks struct {
	bars      []model.OHLCV
	upColor   color.Color
	downColor color.Color
}

func (c *candlesticks) Plot(cv draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&cv)
	half := (trX(1) - trX(0)) * 0.35
	if half < 0.5 {
		half = 0.5
	}
	for i, b := range c.bars {
		clr := c.upColor
		if b.Close < b.Open {
			clr = c.downColor
		}
		x := trX(float64(i))
		cv.StrokeLine2(draw.LineStyle{Color: clr, Width: vg.Points(0.8)}, x, trY(b.Low), x, trY(b.High))

		top := trY(math.Max(b.Open, b.Close))
		bottom := trY(math.Min(b.Open, b.Close))
		if top-bottom < 0.5 {
			top = bottom + 0.5
		}
		cv.FillPolygon(clr, []vg.Point{
			{X: x - half, Y: bottom},
			{X: x + half, Y: bottom},
			{X: x + half, Y: top},
			{X: x - half, Y: top},
		})
	}
}

func (c *candlesticks) DataRange() (xmin, xmax, ymin, ymax float64) {
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, b := range c.bars {
		ymin = math.Min(ymin, b.Low)
		ymax = math.Max(ymax, b.High)
	}
	return -0.5, float64(len(c.bars)) - 0.5, ymin, ymax
}

// columns draws a vertical bar from zero for each value.
type columns struct {
	values []float64
	color  color.Color
}

func (b *columns) Plot(cv draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&cv)
	half := (trX(1) - trX(0)) * 0.4
	if half < 0.5 {
		half = 0.5
	}
	base := trY(0)
	for i, v := range b.values {
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		x := trX(float64(i))
		cv.FillPolygon(b.color, []vg.Point{
			{X: x - half, Y: base},
			{X: x + half, Y: base},
			{X: x + half, Y: trY(v)},
			{X: x - half, Y: trY(v)},
		})
	}
}

func (b *columns) DataRange() (xmin, xmax, ymin, ymax float64) {
	ymax = 0
	for _, v := range b.values {
		if !math.IsNaN(v) {
			ymax = math.Max(ymax, v)
		}
	}
	return -0.5, float64(len(b.values)) - 0.5, 0, ymax
}

// levelBox prints the pivot levels in the top-left corner of the data area.
type levelBox struct {
	lines []string
	style text.Style
}

func newLevelBox(lv model.PivotLevels, sty text.Style) *levelBox {
	sty.XAlign = text.XLeft
	sty.YAlign = text.YTop
	return &levelBox{
		style: sty,
		lines: []string{
			fmt.Sprintf("R2: %.2f", lv.R2),
			fmt.Sprintf("R1: %.2f", lv.R1),
			fmt.Sprintf("Pivot: %.2f", lv.Pivot),
			fmt.Sprintf("S1: %.2f", lv.S1),
			fmt.Sprintf("S2: %.2f", lv.S2),
		},
	}
}

func (l *levelBox) Plot(cv draw.Canvas, _ *plot.Plot) {
	pad := vg.Points(5)
	var width vg.Length
	for _, line := range l.lines {
		if w := l.style.Width(line); w > width {
			width = w
		}
	}
	lineHeight := l.style.Height("Pivot")
	height := lineHeight * vg.Length(len(l.lines))

	x0 := cv.Min.X + pad
	y1 := cv.Max.Y - pad
	box := []vg.Point{
		{X: x0, Y: y1 - height - 2*pad},
		{X: x0 + width + 2*pad, Y: y1 - height - 2*pad},
		{X: x0 + width + 2*pad, Y: y1},
		{X: x0, Y: y1},
	}
	cv.FillPolygon(color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xdd}, box)
	cv.StrokeLines(draw.LineStyle{Color: color.Gray{Y: 0x80}, Width: vg.Points(0.5)}, append(box, box[0]))

	y := y1 - pad
	for _, line := range l.lines {
		cv.FillText(l.style, vg.Point{X: x0 + pad, Y: y}, line)
		y -= lineHeight
	}
}

// seriesLine builds a line over the available points of values, skipping
// NaN entries. It returns nil when fewer than two points are available.
func seriesLine(values []float64, clr color.Color, width vg.Length, dashes ...vg.Length) *plotter.Line {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	if len(pts) < 2 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil
	}
	line.LineStyle.Color = clr
	line.LineStyle.Width = width
	line.LineStyle.Dashes = dashes
	return line
}

// hline spans the whole category axis at y.
func hline(y float64, n int, clr color.Color, dashes ...vg.Length) *plotter.Line {
	line, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: y}, {X: float64(n) - 0.5, Y: y}})
	if err != nil {
		return nil
	}
	line.LineStyle.Color = clr
	line.LineStyle.Width = vg.Points(0.8)
	line.LineStyle.Dashes = dashes
	return line
}

func dashed() []vg.Length { return []vg.Length{vg.Points(4), vg.Points(3)} }
func dotted() []vg.Length { return []vg.Length{vg.Points(1), vg.Points(2)} }
