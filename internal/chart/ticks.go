package chart

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
)

const maxDateLabels = 10

// dateTicks labels bar indices with their trading dates. The axis is
// categorical: only trading days have positions.
type dateTicks struct {
	labels []string
}

func (d dateTicks) Ticks(min, max float64) []plot.Tick {
	n := len(d.labels)
	if n == 0 {
		return nil
	}
	step := int(math.Ceil(float64(n) / maxDateLabels))
	if step < 1 {
		step = 1
	}
	var ticks []plot.Tick
	for i := 0; i < n; i++ {
		v := float64(i)
		if v < min || v > max {
			continue
		}
		if i%step == 0 {
			ticks = append(ticks, plot.Tick{Value: v, Label: d.labels[i]})
		}
	}
	return ticks
}

// volumeTicks abbreviates large volume numbers (1.5 M, 300 k).
type volumeTicks struct{}

func (volumeTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = strings.TrimSpace(humanize.SIWithDigits(ticks[i].Value, 1, ""))
	}
	return ticks
}
