// Package raster draws the particle field and the fallback gradient in
// software, into plain image.RGBA buffers.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Glow is one elliptical radial layer of the gradient.
type Glow struct {
	CenterX, CenterY float64 // in [0,1] of the tile
	Color            colorful.Color
	Alpha            float64 // alpha at the centre
	Stop             float64 // fully transparent from this fraction of the radius on
}

// Gradient is the decorative background used when the particle field cannot
// be drawn: two soft glows over a dark vertical ramp, panning back and forth.
type Gradient struct {
	Top, Bottom colorful.Color
	Glows       []Glow
	Period      float64 // seconds for a full pan cycle
	TileW       int
	TileH       int
}

var purple = colorful.Color{R: 157 / 255.0, G: 78 / 255.0, B: 221 / 255.0}

func DefaultGradient() Gradient {
	return Gradient{
		Top:    render.Background,
		Bottom: colorful.Color{R: 0x1a / 255.0, G: 0x1a / 255.0, B: 0x2e / 255.0},
		Glows: []Glow{
			{CenterX: 0.5, CenterY: 0, Color: render.Cyan, Alpha: 0.15, Stop: 0.5},
			{CenterX: 0.5, CenterY: 1, Color: purple, Alpha: 0.15, Stop: 0.5},
		},
		Period: 15,
		TileW:  96,
		TileH:  54,
	}
}

// Phase is the pan position in [0,1] at elapsed seconds: out to 1 over the
// first half of the period and back to 0 over the second, eased both ways.
func (g Gradient) Phase(elapsed float64) float64 {
	if g.Period <= 0 || !(elapsed > 0) {
		return 0
	}
	p := math.Mod(elapsed, g.Period) / g.Period
	if p < 0.5 {
		return field.Ease.At(p * 2)
	}
	return 1 - field.Ease.At((p-0.5)*2)
}

// ColorAt samples the static gradient at tile coordinates u,v in [0,1].
func (g Gradient) ColorAt(u, v float64) colorful.Color {
	c := g.Top.BlendRgb(g.Bottom, clamp01(v))
	for _, glow := range g.Glows {
		a := glow.alphaAt(u, v)
		if a > 0 {
			c = c.BlendRgb(glow.Color, a)
		}
	}
	return c
}

// alphaAt sizes the ellipse to the farthest corner, as CSS radial gradients do.
func (glow Glow) alphaAt(u, v float64) float64 {
	rx := math.Max(glow.CenterX, 1-glow.CenterX) * math.Sqrt2
	ry := math.Max(glow.CenterY, 1-glow.CenterY) * math.Sqrt2
	dx := (u - glow.CenterX) / rx
	dy := (v - glow.CenterY) / ry
	d := math.Sqrt(dx*dx + dy*dy)
	if glow.Stop <= 0 || d >= glow.Stop {
		return 0
	}
	return glow.Alpha * (1 - d/glow.Stop)
}

// Tile renders the gradient at twice the tile width so Render can pan across it.
func (g Gradient) Tile() *image.RGBA {
	w, h := g.TileW, g.TileH
	if w <= 0 {
		w = 96
	}
	if h <= 0 {
		h = 54
	}
	tile := image.NewRGBA(image.Rect(0, 0, w*2, h))
	for y := 0; y < h; y++ {
		v := (float64(y) + 0.5) / float64(h)
		for x := 0; x < w*2; x++ {
			u := (float64(x) + 0.5) / float64(w)
			// mirror the second half so the pan never shows a seam
			if u > 1 {
				u = 2 - u
			}
			tile.Set(x, y, toRGBA(g.ColorAt(u, v), 1))
		}
	}
	return tile
}

// Render scales the panned window of tile onto dst. Below full opacity the
// result is blended over render.Background.
func (g Gradient) Render(dst *image.RGBA, tile *image.RGBA, elapsed float64, opacity float64) {
	w := tile.Bounds().Dx() / 2
	off := int(math.Round(g.Phase(elapsed) * float64(w)))
	src := image.Rect(off, 0, off+w, tile.Bounds().Dy())
	draw.BiLinear.Scale(dst, dst.Bounds(), tile, src, draw.Src, nil)

	opacity = clamp01(opacity)
	if opacity == 1 {
		return
	}
	bg := toRGBA(render.Background, 1)
	under := [3]float64{float64(bg.R), float64(bg.G), float64(bg.B)}
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := under[c] + (float64(dst.Pix[i+c])-under[c])*opacity
			dst.Pix[i+c] = uint8(math.Round(v))
		}
	}
}

func toRGBA(c colorful.Color, alpha float64) color.RGBA {
	c = c.Clamped()
	return color.RGBA{
		R: uint8(math.Round(c.R * alpha * 255)),
		G: uint8(math.Round(c.G * alpha * 255)),
		B: uint8(math.Round(c.B * alpha * 255)),
		A: uint8(math.Round(alpha * 255)),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
