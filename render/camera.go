// Package render holds what every particle sink shares: the camera, fog and
// particle material the field is drawn with.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	Fov      float32 // vertical, degrees
	Near     float32
	Far      float32
}

func DefaultCamera() Camera {
	return Camera{
		Position: mgl32.Vec3{0, 0, 5},
		Target:   mgl32.Vec3{0, 0, 0},
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      75,
		Near:     0.1,
		Far:      1000,
	}
}

func (c Camera) View() mgl32.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.LookAtV(c.Position, c.Target, up)
}

func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

func (c Camera) ViewProj(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}

// Projected is a world point mapped onto a width x height viewport.
type Projected struct {
	X, Y   float32 // pixels, origin top-left
	Depth  float32 // distance from the camera
	Radius float32 // pixels covered by a sphere of the given world radius
}

// Project maps the world point p (already transformed by the field model
// matrix) onto the viewport. ok is false for points behind the near plane or
// past the far plane.
func (c Camera) Project(viewProj mgl32.Mat4, p mgl32.Vec3, radius float32, width, height int) (Projected, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= c.Near || w >= c.Far {
		return Projected{}, false
	}
	ndcX := clip.X() / w
	ndcY := clip.Y() / w

	halfH := float32(height) / 2
	focal := halfH / float32(math.Tan(float64(mgl32.DegToRad(c.Fov))/2))
	return Projected{
		X:      (ndcX + 1) * float32(width) / 2,
		Y:      (1 - ndcY) * halfH,
		Depth:  p.Sub(c.Position).Len(),
		Radius: radius * focal / w,
	}, true
}

// Fog fades particles linearly towards Color between Near and Far.
type Fog struct {
	Color colorful.Color
	Near  float32
	Far   float32
}

var Background = colorful.Color{R: 0x0a / 255.0, G: 0x0a / 255.0, B: 0x0f / 255.0}

func DefaultFog() Fog {
	return Fog{Color: Background, Near: 5, Far: 20}
}

// Factor is 0 at Near and closer, 1 at Far and beyond.
func (f Fog) Factor(depth float32) float32 {
	if f.Far <= f.Near {
		return 0
	}
	return mgl32.Clamp((depth-f.Near)/(f.Far-f.Near), 0, 1)
}

// Material is the look of a single particle sphere.
type Material struct {
	Emissive          colorful.Color
	EmissiveIntensity float32
	Opacity           float32
}

var Cyan = colorful.Color{R: 0, G: 0xf0 / 255.0, B: 1}

func DefaultMaterial() Material {
	return Material{
		Emissive:          Cyan,
		EmissiveIntensity: 0.5,
		Opacity:           0.8,
	}
}

// Shade returns the lit colour of a particle before fog.
func (m Material) Shade(base colorful.Color) colorful.Color {
	k := float64(m.EmissiveIntensity) * 0.5
	return colorful.Color{
		R: base.R + m.Emissive.R*k,
		G: base.G + m.Emissive.G*k,
		B: base.B + m.Emissive.B*k,
	}.Clamped()
}
