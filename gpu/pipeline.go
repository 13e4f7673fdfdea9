// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Pipeline draws glyph vertex buffers with the glyph shader.
//
// Bind group layout:
//
//	Binding 0: uniforms (mat4x4 + atlas dimensions), vertex+fragment
//	Binding 1: curve buffer (read-only storage), fragment
//	Binding 2: grid texture (texture_2d), fragment
//
// One bind group is created per atlas group on first use. Groups are
// append-only and never resized, so bind groups stay valid until Destroy.
type Pipeline struct {
	dev *HALDevice

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	uniforms   hal.Buffer
	bindGroups []hal.BindGroup
}

// NewPipeline creates the glyph render pipeline targeting format.
func NewPipeline(dev *HALDevice, format gputypes.TextureFormat) (*Pipeline, error) {
	shader, err := dev.ShaderModule()
	if err != nil {
		return nil, err
	}
	p := &Pipeline{dev: dev}
	if err := p.create(shader, format); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) create(shader hal.ShaderModule, format gputypes.TextureFormat) error {
	device := p.dev.device

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "vtext_glyph_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "vtext_glyph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create glyph pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	uniforms, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "vtext_glyph_uniforms",
		Size:  UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create glyph uniform buffer: %w", err)
	}
	p.uniforms = uniforms

	blend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "vtext_glyph_pipeline",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []gputypes.VertexBufferLayout{VertexLayout()},
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

func (p *Pipeline) bindGroup(group int) (hal.BindGroup, error) {
	for len(p.bindGroups) <= group {
		p.bindGroups = append(p.bindGroups, nil)
	}
	if bg := p.bindGroups[group]; bg != nil {
		return bg, nil
	}
	curves := p.dev.CurveBuffer(group)
	view := p.dev.GridView(group)
	if curves == nil || view == nil {
		return nil, fmt.Errorf("gpu: atlas group %d was never uploaded", group)
	}
	bg, err := p.dev.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  fmt.Sprintf("vtext_glyph_bind_%d", group),
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: p.uniforms.NativeHandle(), Size: UniformSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: curves.NativeHandle()}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create glyph bind group %d: %w", group, err)
	}
	p.bindGroups[group] = bg
	return bg, nil
}

// Draw writes the uniform block and records one draw per vertex range into
// rp. vb must have been created by the pipeline's device.
func (p *Pipeline) Draw(rp hal.RenderPassEncoder, uniforms []byte, vb VertexBuffer, draws []DrawCall) error {
	hb, ok := vb.(*HALVertexBuffer)
	if !ok || hb.dev != p.dev {
		return fmt.Errorf("gpu: vertex buffer %T does not belong to this device", vb)
	}
	if hb.buf == nil {
		return ErrDeviceClosed
	}
	if len(uniforms) != UniformSize {
		return fmt.Errorf("gpu: uniform block is %d bytes, want %d", len(uniforms), UniformSize)
	}
	if err := p.dev.queue.WriteBuffer(p.uniforms, 0, uniforms); err != nil {
		return fmt.Errorf("gpu: write uniforms: %w", err)
	}

	rp.SetPipeline(p.pipeline)
	rp.SetVertexBuffer(0, hb.buf, 0)
	for _, d := range draws {
		bg, err := p.bindGroup(d.Group)
		if err != nil {
			return err
		}
		rp.SetBindGroup(0, bg, nil)
		for _, r := range d.Ranges {
			rp.Draw(uint32(r.Count), 1, uint32(r.First), 0)
		}
	}
	return nil
}

// Destroy releases pipeline resources in reverse creation order. The
// shader module belongs to the device.
func (p *Pipeline) Destroy() {
	device := p.dev.device
	for _, bg := range p.bindGroups {
		if bg != nil {
			device.DestroyBindGroup(bg)
		}
	}
	p.bindGroups = nil
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.uniforms != nil {
		device.DestroyBuffer(p.uniforms)
		p.uniforms = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
}
