// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/scene.wgsl
var sceneShaderSource string

//go:embed shaders/dof.wgsl
var dofShaderSource string

const (
	// sceneVertexStride is clip position (vec4) plus color (vec4).
	sceneVertexStride = 32

	// blurUniformSize is step (vec2), focus and maxblur.
	blurUniformSize = 16
)

// pipelines holds the shader modules, layouts, samplers and render pipelines
// shared by every pass a Device executes.
type pipelines struct {
	sceneShader   hal.ShaderModule
	sceneLayout   hal.PipelineLayout
	scenePipeline hal.RenderPipeline

	blurShader     hal.ShaderModule
	blurBindLayout hal.BindGroupLayout
	blurLayout     hal.PipelineLayout
	blurPipeline   hal.RenderPipeline

	linear  hal.Sampler
	nearest hal.Sampler
}

func sceneVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: sceneVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // clip position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // color
			},
		},
	}
}

func colorTargets(format gputypes.TextureFormat) []gputypes.ColorTargetState {
	return []gputypes.ColorTargetState{
		{Format: format, WriteMask: gputypes.ColorWriteMaskAll},
	}
}

// create builds every pipeline object for targets of the given format. On
// failure whatever was created is destroyed.
func (p *pipelines) create(device hal.Device, format gputypes.TextureFormat) error {
	if err := p.createScene(device, format); err != nil {
		p.destroy(device)
		return err
	}
	if err := p.createBlur(device, format); err != nil {
		p.destroy(device)
		return err
	}
	return nil
}

func (p *pipelines) createScene(device hal.Device, format gputypes.TextureFormat) error {
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "scene_shader",
		Source: hal.ShaderSource{WGSL: sceneShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile scene shader: %w", err)
	}
	p.sceneShader = shader

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "scene_pipe_layout",
	})
	if err != nil {
		return fmt.Errorf("create scene pipeline layout: %w", err)
	}
	p.sceneLayout = layout

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "scene_pipeline",
		Layout: p.sceneLayout,
		Vertex: hal.VertexState{
			Module:     p.sceneShader,
			EntryPoint: "vs_main",
			Buffers:    sceneVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.sceneShader,
			EntryPoint: "fs_main",
			Targets:    colorTargets(format),
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("create scene pipeline: %w", err)
	}
	p.scenePipeline = pipeline
	return nil
}

func (p *pipelines) createBlur(device hal.Device, format gputypes.TextureFormat) error {
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "dof_shader",
		Source: hal.ShaderSource{WGSL: dofShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile dof shader: %w", err)
	}
	p.blurShader = shader

	// Binding 0: blur params, 1: color texture, 2: depth texture, 3: sampler.
	texEntry := func(binding uint32) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		}
	}
	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "dof_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			texEntry(1),
			texEntry(2),
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create dof bind layout: %w", err)
	}
	p.blurBindLayout = bindLayout

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "dof_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.blurBindLayout},
	})
	if err != nil {
		return fmt.Errorf("create dof pipeline layout: %w", err)
	}
	p.blurLayout = layout

	for _, s := range []struct {
		dst    *hal.Sampler
		label  string
		filter gputypes.FilterMode
	}{
		{&p.linear, "dof_linear_sampler", gputypes.FilterModeLinear},
		{&p.nearest, "dof_nearest_sampler", gputypes.FilterModeNearest},
	} {
		sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
			Label:        s.label,
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    s.filter,
			MinFilter:    s.filter,
			MipmapFilter: s.filter,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", s.label, err)
		}
		*s.dst = sampler
	}

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "dof_pipeline",
		Layout: p.blurLayout,
		Vertex: hal.VertexState{
			Module:     p.blurShader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.blurShader,
			EntryPoint: "fs_main",
			Targets:    colorTargets(format),
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("create dof pipeline: %w", err)
	}
	p.blurPipeline = pipeline
	return nil
}

// sampler returns the sampler matching a frame buffer filter.
func (p *pipelines) sampler(filter gputypes.FilterMode) hal.Sampler {
	if filter == gputypes.FilterModeNearest {
		return p.nearest
	}
	return p.linear
}

// destroy releases all pipeline resources in reverse creation order.
func (p *pipelines) destroy(device hal.Device) {
	if p.blurPipeline != nil {
		device.DestroyRenderPipeline(p.blurPipeline)
		p.blurPipeline = nil
	}
	if p.nearest != nil {
		device.DestroySampler(p.nearest)
		p.nearest = nil
	}
	if p.linear != nil {
		device.DestroySampler(p.linear)
		p.linear = nil
	}
	if p.blurLayout != nil {
		device.DestroyPipelineLayout(p.blurLayout)
		p.blurLayout = nil
	}
	if p.blurBindLayout != nil {
		device.DestroyBindGroupLayout(p.blurBindLayout)
		p.blurBindLayout = nil
	}
	if p.blurShader != nil {
		device.DestroyShaderModule(p.blurShader)
		p.blurShader = nil
	}
	if p.scenePipeline != nil {
		device.DestroyRenderPipeline(p.scenePipeline)
		p.scenePipeline = nil
	}
	if p.sceneLayout != nil {
		device.DestroyPipelineLayout(p.sceneLayout)
		p.sceneLayout = nil
	}
	if p.sceneShader != nil {
		device.DestroyShaderModule(p.sceneShader)
		p.sceneShader = nil
	}
}

// makeBlurUniform packs the blur params. step is the UV offset of one tap
// at a circle of confusion of one pixel.
func makeBlurUniform(stepX, stepY, focus, maxBlur float32) []byte {
	buf := make([]byte, blurUniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(stepX))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(stepY))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(focus))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(maxBlur))
	return buf
}
