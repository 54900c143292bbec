package backdrop

import (
	"fmt"
	"os"
	"time"

	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend  RendererName   `yaml:"backend"`
	Debug    bool           `yaml:"debug"`
	Window   WindowConfig   `yaml:"window"`
	Field    FieldConfig    `yaml:"field"`
	Camera   CameraConfig   `yaml:"camera"`
	Fog      FogConfig      `yaml:"fog"`
	Terminal TerminalConfig `yaml:"terminal"`
	Image    ImageConfig    `yaml:"image"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type FieldConfig struct {
	Count int `yaml:"count"`
	// MouseInfluence defaults to true when left out.
	MouseInfluence *bool   `yaml:"mouse_influence"`
	ParticleSize   float32 `yaml:"particle_size"`
}

func (c FieldConfig) MouseEnabled() bool {
	return c.MouseInfluence == nil || *c.MouseInfluence
}

type CameraConfig struct {
	Position []float32 `yaml:"position"`
	Fov      float32   `yaml:"fov"`
	Near     float32   `yaml:"near"`
	Far      float32   `yaml:"far"`
}

func (c CameraConfig) Camera() render.Camera {
	cam := render.DefaultCamera()
	if len(c.Position) == 3 {
		cam.Position = mgl32.Vec3{c.Position[0], c.Position[1], c.Position[2]}
	}
	if c.Fov > 0 {
		cam.Fov = c.Fov
	}
	if c.Near > 0 {
		cam.Near = c.Near
	}
	if c.Far > cam.Near {
		cam.Far = c.Far
	}
	return cam
}

type FogConfig struct {
	Color string  `yaml:"color"`
	Near  float32 `yaml:"near"`
	Far   float32 `yaml:"far"`
}

// Fog assumes the colour was checked by validate.
func (c FogConfig) Fog() render.Fog {
	fog := render.DefaultFog()
	if col, err := colorful.Hex(c.Color); err == nil {
		fog.Color = col
	}
	if c.Far > c.Near {
		fog.Near, fog.Far = c.Near, c.Far
	}
	return fog
}

type TerminalConfig struct {
	FPS       int `yaml:"fps"`
	MinColors int `yaml:"min_colors"`
	// LogFile receives the log while tcell owns the tty; empty discards it.
	LogFile string `yaml:"log_file"`
}

type ImageConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Frames uint64  `yaml:"frames"`
	Step   float64 `yaml:"step"` // seconds per frame
	Every  uint64  `yaml:"every"`
	OutDir string  `yaml:"out_dir"`
}

func (c ImageConfig) FixedStep() time.Duration {
	return time.Duration(c.Step * float64(time.Second))
}

func DefaultConfig() Config {
	return Config{
		Backend: RendererGPU,
		Window:  WindowConfig{Width: 1280, Height: 720, Title: "backdrop"},
		Field:   FieldConfig{Count: field.DefaultCount, ParticleSize: field.DefaultParticleSize},
		Camera:  CameraConfig{Position: []float32{0, 0, 5}, Fov: 75, Near: 0.1, Far: 1000},
		Fog:     FogConfig{Color: "#0a0a0f", Near: 5, Far: 20},
		Terminal: TerminalConfig{
			FPS:       DefaultTerminalFPS,
			MinColors: 256,
		},
		Image: ImageConfig{
			Width:  640,
			Height: 360,
			Frames: 120,
			Step:   1.0 / 60,
			Every:  30,
			OutDir: "frames",
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig, so settings the file
// leaves out keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Window.Width <= 0 {
		c.Window.Width = def.Window.Width
	}
	if c.Window.Height <= 0 {
		c.Window.Height = def.Window.Height
	}
	if c.Window.Title == "" {
		c.Window.Title = def.Window.Title
	}
	// an explicit count of 0 is an empty field, not a request for the default
	if c.Field.Count < 0 {
		c.Field.Count = 0
	}
	if c.Field.ParticleSize <= 0 {
		c.Field.ParticleSize = def.Field.ParticleSize
	}
	if len(c.Camera.Position) == 0 {
		c.Camera.Position = def.Camera.Position
	}
	if c.Camera.Fov <= 0 {
		c.Camera.Fov = def.Camera.Fov
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = def.Camera.Near
	}
	if c.Camera.Far <= 0 {
		c.Camera.Far = def.Camera.Far
	}
	if c.Fog.Color == "" {
		c.Fog.Color = def.Fog.Color
	}
	if c.Fog.Near == 0 && c.Fog.Far == 0 {
		c.Fog.Near, c.Fog.Far = def.Fog.Near, def.Fog.Far
	}
	if c.Terminal.FPS <= 0 {
		c.Terminal.FPS = def.Terminal.FPS
	}
	if c.Terminal.MinColors <= 0 {
		c.Terminal.MinColors = def.Terminal.MinColors
	}
	if c.Image.Width <= 0 {
		c.Image.Width = def.Image.Width
	}
	if c.Image.Height <= 0 {
		c.Image.Height = def.Image.Height
	}
	if c.Image.Frames == 0 {
		c.Image.Frames = def.Image.Frames
	}
	if c.Image.Step <= 0 {
		c.Image.Step = def.Image.Step
	}
	if c.Image.OutDir == "" {
		c.Image.OutDir = def.Image.OutDir
	}
	return c
}

func (c Config) validate() error {
	switch c.Backend {
	case RendererGPU, RendererTerminal, RendererImage:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := colorful.Hex(c.Fog.Color); err != nil {
		return fmt.Errorf("fog color %q: %w", c.Fog.Color, err)
	}
	if len(c.Camera.Position) != 3 {
		return fmt.Errorf("camera position needs 3 components, got %d", len(c.Camera.Position))
	}
	if c.Fog.Far <= c.Fog.Near {
		return fmt.Errorf("fog far %v must be beyond near %v", c.Fog.Far, c.Fog.Near)
	}
	return nil
}
