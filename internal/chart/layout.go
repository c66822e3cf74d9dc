package chart

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// stackPanels splits dc vertically by ratios (top to bottom) and then trims
// each slot so that every panel's data area starts and ends at the same x,
// keeping the shared category axis aligned.
func stackPanels(dc draw.Canvas, panels []*plot.Plot, ratios []float64) []draw.Canvas {
	total := 0.0
	for _, r := range ratios[:len(panels)] {
		total += r
	}
	height := dc.Max.Y - dc.Min.Y
	top := dc.Max.Y

	slots := make([]draw.Canvas, len(panels))
	for i := range panels {
		h := height * vg.Length(ratios[i]/total)
		slots[i] = draw.Canvas{
			Canvas: dc.Canvas,
			Rectangle: vg.Rectangle{
				Min: vg.Point{X: dc.Min.X, Y: top - h},
				Max: vg.Point{X: dc.Max.X, Y: top},
			},
		}
		top -= h
	}

	lefts := make([]vg.Length, len(panels))
	rights := make([]vg.Length, len(panels))
	var maxLeft, maxRight vg.Length
	for i, p := range panels {
		da := p.DataCanvas(slots[i])
		lefts[i] = da.Min.X - slots[i].Min.X
		rights[i] = slots[i].Max.X - da.Max.X
		if lefts[i] > maxLeft {
			maxLeft = lefts[i]
		}
		if rights[i] > maxRight {
			maxRight = rights[i]
		}
	}
	for i := range slots {
		slots[i].Min.X += maxLeft - lefts[i]
		slots[i].Max.X -= maxRight - rights[i]
	}
	return slots
}
