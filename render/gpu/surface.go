// Package gpu draws the particle field with wgpu into a GLFW window, one
// instanced billboard per particle.
package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Probe asks wgpu for a high-performance adapter without a surface. Any
// failure means the field cannot be drawn here.
func Probe() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("wgpu probe panicked: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return fmt.Errorf("wgpu: no instance")
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("wgpu: request adapter: %w", err)
	}
	adapter.Release()
	return nil
}

// SurfaceSink owns the wgpu device and surface of one window.
type SurfaceSink struct {
	Camera   render.Camera
	Fog      render.Fog
	Material render.Material

	window        *glfw.Window
	instance      *wgpu.Instance
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration
	pass          *ParticlePass
}

func NewSurfaceSink(window *glfw.Window, camera render.Camera, fog render.Fog) (*SurfaceSink, error) {
	instance := wgpu.CreateInstance(nil)
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Backdrop Device",
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	width, height := window.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	surfaceConfig := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo, // vsync paces the frame loop
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, surfaceConfig)

	pass, err := NewParticlePass(device, surfaceConfig.Format)
	if err != nil {
		device.Release()
		adapter.Release()
		surface.Release()
		instance.Release()
		return nil, fmt.Errorf("particle pass: %w", err)
	}

	return &SurfaceSink{
		Camera:        camera,
		Fog:           fog,
		Material:      render.DefaultMaterial(),
		window:        window,
		instance:      instance,
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         device.GetQueue(),
		surfaceConfig: surfaceConfig,
		pass:          pass,
	}, nil
}

// Resize reconfigures the swapchain; zero sizes (minimised window) are ignored.
func (s *SurfaceSink) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.surfaceConfig.Width = uint32(width)
	s.surfaceConfig.Height = uint32(height)
	s.surface.Configure(s.adapter, s.device, s.surfaceConfig)
}

func (s *SurfaceSink) Draw(frame *field.Frame) error {
	aspect := float32(s.surfaceConfig.Width) / float32(s.surfaceConfig.Height)
	if err := s.pass.Update(s.queue, frame, BuildUniforms(frame, s.Camera, s.Fog, s.Material, aspect)); err != nil {
		return fmt.Errorf("particle pass update: %w", err)
	}

	nextTexture, err := s.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	fog := s.Fog.Color
	rPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: fog.R, G: fog.G, B: fog.B, A: 1},
		}},
	})
	s.pass.Draw(rPass)
	if err := rPass.End(); err != nil {
		return fmt.Errorf("particle pass end: %w", err)
	}
	rPass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()

	s.queue.Submit(cmd)
	s.surface.Present()
	return nil
}

func (s *SurfaceSink) Release() {
	if s.pass != nil {
		s.pass.Release()
	}
	s.device.Release()
	s.adapter.Release()
	s.surface.Release()
	s.instance.Release()
}
