package chart

import "image/color"

// Config controls the rendered image.
type Config struct {
	Width  int // pixels
	Height int // pixels
	DPI    int

	// PanelRatios are the relative heights of the price, RSI, volume and
	// moving-average panels, top to bottom.
	PanelRatios [4]float64

	UpColor      color.Color
	DownColor    color.Color
	ChannelColor color.Color
	RSIColor     color.Color
	VolumeColor  color.Color
	MAColors     [3]color.Color
}

// DefaultConfig returns the 1600x800 layout used for chat delivery.
func DefaultConfig() Config {
	return Config{
		Width:        1600,
		Height:       800,
		DPI:          96,
		PanelRatios:  [4]float64{0.52, 0.18, 0.12, 0.18},
		UpColor:      color.RGBA{R: 0x2e, G: 0x9e, B: 0x44, A: 0xff},
		DownColor:    color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		ChannelColor: color.RGBA{R: 0x1f, G: 0x4e, B: 0xd8, A: 0xff},
		RSIColor:     color.RGBA{R: 0x1f, G: 0x4e, B: 0xd8, A: 0xff},
		VolumeColor:  color.RGBA{R: 0x80, G: 0x00, B: 0x80, A: 0x80},
		MAColors: [3]color.Color{
			color.RGBA{R: 0xff, G: 0x8c, B: 0x00, A: 0xff},
			color.RGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff},
			color.RGBA{R: 0x8b, G: 0x00, B: 0x00, A: 0xff},
		},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.DPI <= 0 {
		c.DPI = d.DPI
	}
	sum := 0.0
	for _, r := range c.PanelRatios {
		sum += r
	}
	if sum <= 0 {
		c.PanelRatios = d.PanelRatios
	}
	if c.UpColor == nil {
		c.UpColor = d.UpColor
	}
	if c.DownColor == nil {
		c.DownColor = d.DownColor
	}
	if c.ChannelColor == nil {
		c.ChannelColor = d.ChannelColor
	}
	if c.RSIColor == nil {
		c.RSIColor = d.RSIColor
	}
	if c.VolumeColor == nil {
		c.VolumeColor = d.VolumeColor
	}
	for i := range c.MAColors {
		if c.MAColors[i] == nil {
			c.MAColors[i] = d.MAColors[i]
		}
	}
	return c
}
