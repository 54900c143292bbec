package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Sink rasterises each frame into Image: a clear to the fog colour, then one
// alpha-blended disc per particle.
type Sink struct {
	Image    *image.RGBA
	Camera   render.Camera
	Fog      render.Fog
	Material render.Material

	// MinRadius keeps far particles visible as at least a pixel.
	MinRadius float32

	drawn int
}

func NewSink(width, height int, camera render.Camera, fog render.Fog) *Sink {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 360
	}
	return &Sink{
		Image:     image.NewRGBA(image.Rect(0, 0, width, height)),
		Camera:    camera,
		Fog:       fog,
		Material:  render.DefaultMaterial(),
		MinRadius: 0.75,
	}
}

// Drawn is the number of discs that survived culling in the last frame.
func (s *Sink) Drawn() int { return s.drawn }

func (s *Sink) Draw(frame *field.Frame) error {
	b := s.Image.Bounds()
	w, h := b.Dx(), b.Dy()
	s.clear(toRGBA(s.Fog.Color, 1))
	s.drawn = 0

	viewProj := s.Camera.ViewProj(float32(w) / float32(h))
	model := frame.Rotation.Mat4()

	for i := range frame.Instances {
		inst := &frame.Instances[i]
		center := model.Mul4x1(vec4(inst.Pos)).Vec3()
		p, ok := s.Camera.Project(viewProj, center, inst.Size, w, h)
		if !ok {
			continue
		}

		fog := float64(s.Fog.Factor(p.Depth))
		lit := s.Material.Shade(colorful.Color{
			R: float64(inst.Color[0]),
			G: float64(inst.Color[1]),
			B: float64(inst.Color[2]),
		})
		c := lit.BlendRgb(s.Fog.Color, fog)
		alpha := float64(s.Material.Opacity) * float64(inst.Color[3]) * float64(frame.Opacity)
		if alpha <= 0 {
			continue
		}

		r := p.Radius
		if r < s.MinRadius {
			r = s.MinRadius
		}
		s.disc(p.X, p.Y, r, c, alpha)
		s.drawn++
	}
	return nil
}

func (s *Sink) clear(c color.RGBA) {
	pix := s.Image.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// disc blends a sphere-shaded circle centred at cx,cy.
func (s *Sink) disc(cx, cy, r float32, c colorful.Color, alpha float64) {
	b := s.Image.Bounds()
	x0 := max(b.Min.X, int(math.Floor(float64(cx-r))))
	x1 := min(b.Max.X-1, int(math.Ceil(float64(cx+r))))
	y0 := max(b.Min.Y, int(math.Floor(float64(cy-r))))
	y1 := min(b.Max.Y-1, int(math.Ceil(float64(cy+r))))
	r2 := float64(r * r)

	for y := y0; y <= y1; y++ {
		dy := float64(y) + 0.5 - float64(cy)
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - float64(cx)
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			shade := 0.3 + 0.7*math.Sqrt(1-d2/r2)
			s.blend(x, y, colorful.Color{R: c.R * shade, G: c.G * shade, B: c.B * shade}, alpha)
		}
	}
}

func (s *Sink) blend(x, y int, c colorful.Color, alpha float64) {
	i := s.Image.PixOffset(x, y)
	pix := s.Image.Pix[i : i+4 : i+4]
	dst := colorful.Color{R: float64(pix[0]) / 255, G: float64(pix[1]) / 255, B: float64(pix[2]) / 255}
	out := toRGBA(dst.BlendRgb(c, alpha), 1)
	pix[0], pix[1], pix[2], pix[3] = out.R, out.G, out.B, 255
}

func vec4(p [3]float32) mgl32.Vec4 {
	return mgl32.Vec4{p[0], p[1], p[2], 1}
}
