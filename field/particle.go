package field

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Bound is the half extent of the cube every particle lives in.
	Bound float32 = 10
	// MaxSpeed is the largest per-axis velocity, in units per frame.
	MaxSpeed float32 = 0.01

	DefaultCount = 800
	SimpleCount  = 500
)

// Particle is a point with a constant velocity. Position is mutated once per
// frame by Integrate; Velocity never changes after Initialize.
type Particle struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
}

// Initialize allocates count particles with positions uniform in [-Bound,Bound]
// and velocities uniform in [-MaxSpeed,MaxSpeed] on every axis.
// A nil rng falls back to a time-seeded source.
func Initialize(count int, rng *rand.Rand) []Particle {
	if count <= 0 {
		return []Particle{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	particles := make([]Particle, count)
	for i := range particles {
		particles[i] = Particle{
			Position: randomVec3(rng, Bound),
			Velocity: randomVec3(rng, MaxSpeed),
		}
	}
	return particles
}

func randomVec3(rng *rand.Rand, extent float32) mgl32.Vec3 {
	return mgl32.Vec3{
		(rng.Float32() - 0.5) * 2 * extent,
		(rng.Float32() - 0.5) * 2 * extent,
		(rng.Float32() - 0.5) * 2 * extent,
	}
}

// Store owns the particle slice for the lifetime of one field.
// Changing the count means re-initialising everything through Reset.
type Store struct {
	particles []Particle
	rng       *rand.Rand
}

func NewStore(count int, rng *rand.Rand) *Store {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{
		particles: Initialize(count, rng),
		rng:       rng,
	}
}

// Reset drops every particle and samples count new ones.
func (s *Store) Reset(count int) {
	s.particles = Initialize(count, s.rng)
}

func (s *Store) Len() int { return len(s.particles) }

// Particles returns the live slice; callers mutate it in place.
func (s *Store) Particles() []Particle { return s.particles }
