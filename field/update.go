package field

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	pointerInfluence = 0.1
	scrollInfluence  = 2.0
	wobbleXY         = 0.1
	wobbleZ          = 0.2

	Saturation = 0.8
	Lightness  = 0.6

	DefaultParticleSize float32 = 0.05
)

// Instance is what a sink draws for one particle. Layout matches the WGSL
// instance struct: vec3 pos, f32 size, vec4 color.
type Instance struct {
	Pos   [3]float32
	Size  float32
	Color [4]float32
}

// Rotation is applied to the whole field, not to single particles.
type Rotation struct {
	X, Y float32
}

// Mat4 composes the rotation in XYZ Euler order.
func (r Rotation) Mat4() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(r.X).Mul4(mgl32.HomogRotate3DY(r.Y))
}

// Frame is everything a sink needs to draw one refresh.
// Instances is only valid until the next Step on the same Updater.
type Frame struct {
	Instances []Instance
	Rotation  Rotation
	Elapsed   float64
	Opacity   float32
}

// Integrate advances the particle by one frame and wraps it back into the cube.
func (p *Particle) Integrate() {
	p.Position = Wrap(p.Position.Add(p.Velocity))
}

// Wrap teleports each axis that left [-Bound,Bound] to the opposite face.
func Wrap(v mgl32.Vec3) mgl32.Vec3 {
	for i := range v {
		v[i] = wrapAxis(v[i])
	}
	return v
}

func wrapAxis(a float32) float32 {
	if a > Bound {
		a = -Bound
	}
	if a < -Bound {
		a = Bound
	}
	return a
}

// RenderPosition derives the drawn position of particle index from its stored
// position. The result is never written back.
func RenderPosition(pos mgl32.Vec3, elapsed float64, index int, in Input) mgl32.Vec3 {
	i := float64(index)
	return mgl32.Vec3{
		float32(float64(pos.X()) + float64(in.Pointer.X())*pointerInfluence + math.Sin(elapsed+i)*wobbleXY),
		float32(float64(pos.Y()) + float64(in.Pointer.Y())*pointerInfluence + math.Cos(elapsed+i)*wobbleXY),
		float32(float64(pos.Z()) - float64(in.Scroll)*scrollInfluence + math.Sin(elapsed*0.5+i)*wobbleZ),
	}
}

// Hue sweeps the cyan..purple band, always within [0.5, 0.8].
func Hue(elapsed float64, index int) float64 {
	return (math.Sin(elapsed*0.5+float64(index)*0.1)*0.5+0.5)*0.3 + 0.5
}

func RenderColor(elapsed float64, index int) colorful.Color {
	return colorful.Hsl(Hue(elapsed, index)*360, Saturation, Lightness)
}

func FieldRotation(elapsed float64) Rotation {
	return Rotation{
		X: float32(math.Sin(elapsed*0.1) * 0.1),
		Y: float32(elapsed * 0.05),
	}
}

// Updater runs the per-frame transform and keeps the instance buffer between
// frames so a steady field allocates nothing.
type Updater struct {
	ParticleSize float32
	instances    []Instance
}

func NewUpdater(particleSize float32) *Updater {
	if particleSize <= 0 {
		particleSize = DefaultParticleSize
	}
	return &Updater{ParticleSize: particleSize}
}

// Step integrates every particle in place and returns the derived frame.
func (u *Updater) Step(particles []Particle, elapsed float64, in Input) Frame {
	u.instances = u.instances[:0]
	for i := range particles {
		p := &particles[i]
		p.Integrate()

		pos := RenderPosition(p.Position, elapsed, i, in)
		c := RenderColor(elapsed, i)
		u.instances = append(u.instances, Instance{
			Pos:   [3]float32{pos.X(), pos.Y(), pos.Z()},
			Size:  u.ParticleSize,
			Color: [4]float32{float32(c.R), float32(c.G), float32(c.B), 1},
		})
	}

	return Frame{
		Instances: u.instances,
		Rotation:  FieldRotation(elapsed),
		Elapsed:   elapsed,
		Opacity:   FadeIn(elapsed),
	}
}
