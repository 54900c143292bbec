// Package term draws the particle field on a terminal through tcell. Each
// cell is treated as twice as tall as it is wide.
package term

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/gekko3d/backdrop/render/raster"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// CellAspect is the height of a terminal cell over its width.
const CellAspect = 2.0

// glyphs from nearest to farthest
var glyphs = []rune{'●', '•', '∙', '·'}

type Sink struct {
	Screen   tcell.Screen
	Camera   render.Camera
	Fog      render.Fog
	Material render.Material

	depth []float32
	drawn int
}

func NewSink(screen tcell.Screen, camera render.Camera, fog render.Fog) *Sink {
	return &Sink{
		Screen:   screen,
		Camera:   camera,
		Fog:      fog,
		Material: render.DefaultMaterial(),
	}
}

func (s *Sink) Drawn() int { return s.drawn }

// Draw paints the frame and shows it. Particles sharing a cell keep the
// nearest one.
func (s *Sink) Draw(frame *field.Frame) error {
	cols, rows := s.Screen.Size()
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("terminal has no cells (%dx%d)", cols, rows)
	}
	bg := tcell.StyleDefault.Background(toTcell(s.Fog.Color))
	s.Screen.Fill(' ', bg)

	if need := cols * rows; cap(s.depth) < need {
		s.depth = make([]float32, need)
	} else {
		s.depth = s.depth[:need]
	}
	for i := range s.depth {
		s.depth[i] = s.Camera.Far
	}
	s.drawn = 0

	// project onto a virtual pixel grid with square pixels, one cell wide and
	// CellAspect pixels tall
	pw, ph := cols, int(float64(rows)*CellAspect)
	viewProj := s.Camera.ViewProj(float32(pw) / float32(ph))
	model := frame.Rotation.Mat4()

	for i := range frame.Instances {
		inst := &frame.Instances[i]
		center := model.Mul4x1(mgl32.Vec4{inst.Pos[0], inst.Pos[1], inst.Pos[2], 1}).Vec3()
		p, ok := s.Camera.Project(viewProj, center, inst.Size, pw, ph)
		if !ok {
			continue
		}
		x := int(p.X)
		y := int(p.Y / CellAspect)
		if x < 0 || x >= cols || y < 0 || y >= rows {
			continue
		}
		if p.Depth >= s.depth[y*cols+x] {
			continue
		}
		s.depth[y*cols+x] = p.Depth

		fog := s.Fog.Factor(p.Depth)
		lit := s.Material.Shade(colorful.Color{
			R: float64(inst.Color[0]),
			G: float64(inst.Color[1]),
			B: float64(inst.Color[2]),
		})
		alpha := float64(s.Material.Opacity * inst.Color[3] * frame.Opacity)
		c := s.Fog.Color.BlendRgb(lit.BlendRgb(s.Fog.Color, float64(fog)), alpha)

		s.Screen.SetContent(x, y, glyphFor(fog), nil, bg.Foreground(toTcell(c)))
		s.drawn++
	}

	s.Screen.Show()
	return nil
}

func glyphFor(fog float32) rune {
	i := int(fog * float32(len(glyphs)))
	if i >= len(glyphs) {
		i = len(glyphs) - 1
	}
	return glyphs[i]
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// GradientPresenter paints the fallback gradient as cell backgrounds.
type GradientPresenter struct {
	Screen   tcell.Screen
	Gradient raster.Gradient

	tile *image.RGBA
	img  *image.RGBA
}

func NewGradientPresenter(screen tcell.Screen, gradient raster.Gradient) *GradientPresenter {
	return &GradientPresenter{Screen: screen, Gradient: gradient}
}

func (g *GradientPresenter) Present(elapsed float64) error {
	cols, rows := g.Screen.Size()
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("terminal has no cells (%dx%d)", cols, rows)
	}
	if g.tile == nil {
		g.tile = g.Gradient.Tile()
	}
	if g.img == nil || g.img.Bounds().Dx() != cols || g.img.Bounds().Dy() != rows {
		g.img = image.NewRGBA(image.Rect(0, 0, cols, rows))
	}
	g.Gradient.Render(g.img, g.tile, elapsed, float64(field.FadeIn(elapsed)))

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			px := g.img.RGBAAt(x, y)
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(px.R), int32(px.G), int32(px.B)))
			g.Screen.SetContent(x, y, ' ', nil, style)
		}
	}
	g.Screen.Show()
	return nil
}
