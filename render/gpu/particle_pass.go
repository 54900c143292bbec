package gpu

import (
	_ "embed"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/backdrop/field"
	"github.com/gekko3d/backdrop/render"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed particles.wgsl
var ParticlesWGSL string

// QuadVertex is one corner of the unit billboard.
type QuadVertex struct {
	Corner [2]float32
}

// Uniforms matches the WGSL Uniforms struct.
type Uniforms struct {
	ViewProj mgl32.Mat4
	Model    mgl32.Mat4
	FogColor [4]float32
	Params   [4]float32
	Eye      [4]float32
	Emissive [4]float32
}

type ParticlePass struct {
	Pipeline       *wgpu.RenderPipeline
	BindGroup      *wgpu.BindGroup
	UniformBuffer  *wgpu.Buffer
	VertexBuffer   *wgpu.Buffer
	VertexCount    uint32
	InstanceBuffer *wgpu.Buffer
	InstanceCap    uint32
	InstanceCount  uint32
	Device         *wgpu.Device

	createBuffer func(*wgpu.BufferDescriptor) (*wgpu.Buffer, error)
}

var quad = []QuadVertex{
	{Corner: [2]float32{-1, -1}}, {Corner: [2]float32{1, -1}}, {Corner: [2]float32{1, 1}},
	{Corner: [2]float32{-1, -1}}, {Corner: [2]float32{1, 1}}, {Corner: [2]float32{-1, 1}},
}

func NewParticlePass(device *wgpu.Device, format wgpu.TextureFormat) (*ParticlePass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: ParticlesWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ParticleUniformBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					MinBindingSize:   uint64(unsafe.Sizeof(Uniforms{})),
					HasDynamicOffset: false,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ParticlePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(QuadVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: uint64(unsafe.Sizeof(field.Instance{})),
					StepMode:    wgpu.VertexStepModeInstance,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 2},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	p := &ParticlePass{
		Pipeline:     pipeline,
		Device:       device,
		createBuffer: device.CreateBuffer,
	}

	uSize := uint64(unsafe.Sizeof(Uniforms{}))
	p.UniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleUniformBuffer",
		Size:  uSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	p.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticleUniformBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.UniformBuffer, Size: uSize},
		},
	})
	if err != nil {
		return nil, err
	}

	p.VertexCount = uint32(len(quad))
	vSize := uint64(len(quad) * int(unsafe.Sizeof(QuadVertex{})))
	p.VertexBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleQuadBuffer",
		Size:  vSize,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	device.GetQueue().WriteBuffer(p.VertexBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&quad[0])), vSize))

	return p, nil
}

// BuildUniforms packs the camera, fog and material state for one frame.
func BuildUniforms(frame *field.Frame, camera render.Camera, fog render.Fog, mat render.Material, aspect float32) Uniforms {
	return Uniforms{
		ViewProj: camera.ViewProj(aspect),
		Model:    frame.Rotation.Mat4(),
		FogColor: [4]float32{float32(fog.Color.R), float32(fog.Color.G), float32(fog.Color.B), 1},
		Params:   [4]float32{fog.Near, fog.Far, mat.Opacity * frame.Opacity, mat.EmissiveIntensity},
		Eye:      [4]float32{camera.Position.X(), camera.Position.Y(), camera.Position.Z(), 1},
		Emissive: [4]float32{float32(mat.Emissive.R), float32(mat.Emissive.G), float32(mat.Emissive.B), 1},
	}
}

// Update uploads the frame's instances, growing the instance buffer when
// the field outgrows it. Nothing is written when the buffer cannot grow.
func (p *ParticlePass) Update(queue *wgpu.Queue, frame *field.Frame, u Uniforms) error {
	count := uint32(len(frame.Instances))
	if count > 0 && (p.InstanceBuffer == nil || p.InstanceCap < count) {
		capacity := count + 128
		buf, err := p.createBuffer(&wgpu.BufferDescriptor{
			Label: "ParticleInstanceBuffer",
			Size:  uint64(capacity) * uint64(unsafe.Sizeof(field.Instance{})),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.InstanceCount = 0
			return fmt.Errorf("instance buffer for %d particles: %w", count, err)
		}
		if p.InstanceBuffer != nil {
			p.InstanceBuffer.Release()
		}
		p.InstanceBuffer = buf
		p.InstanceCap = capacity
	}

	queue.WriteBuffer(p.UniformBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&u)), unsafe.Sizeof(u)))
	p.InstanceCount = count
	if count == 0 {
		return nil
	}
	sizeBytes := uint64(count) * uint64(unsafe.Sizeof(field.Instance{}))
	queue.WriteBuffer(p.InstanceBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&frame.Instances[0])), sizeBytes))
	return nil
}

func (p *ParticlePass) Draw(pass *wgpu.RenderPassEncoder) {
	if p.InstanceBuffer == nil || p.InstanceCount == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, p.VertexBuffer.GetSize())
	pass.SetVertexBuffer(1, p.InstanceBuffer, 0, p.InstanceBuffer.GetSize())
	pass.Draw(p.VertexCount, p.InstanceCount, 0, 0)
}

func (p *ParticlePass) Release() {
	for _, b := range []*wgpu.Buffer{p.InstanceBuffer, p.VertexBuffer, p.UniformBuffer} {
		if b != nil {
			b.Release()
		}
	}
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
