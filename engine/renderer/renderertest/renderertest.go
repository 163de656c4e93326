// Package renderertest provides in-memory stand-ins for the renderer's Device, Queue, RenderPass and
// Context so that setup and draw code can be tested without a GPU.
//
// The objects the fake device hands out are zero-value wgpu handles. They are distinct pointers
// that can be compared, but they are not backed by a native object and must never be released.
package renderertest

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrInjected is the error returned by a fake when a call is configured to fail.
var ErrInjected = errors.New("injected failure")

// Device method names, used with Device.FailOn.
const (
	MethodCreateBuffer          = "CreateBuffer"
	MethodCreateBindGroupLayout = "CreateBindGroupLayout"
	MethodCreateBindGroup       = "CreateBindGroup"
	MethodCreateShaderModule    = "CreateShaderModule"
	MethodCreatePipelineLayout  = "CreatePipelineLayout"
	MethodCreateRenderPipeline  = "CreateRenderPipeline"
)

// Device records every creation call and returns fresh zero-value handles.
type Device struct {
	mu sync.Mutex

	// FailOn makes the named method return ErrInjected.
	FailOn string

	Calls             []string
	Buffers           []*wgpu.BufferDescriptor
	BindGroupLayouts  []*wgpu.BindGroupLayoutDescriptor
	BindGroups        []*wgpu.BindGroupDescriptor
	ShaderModules     []*wgpu.ShaderModuleDescriptor
	PipelineLayouts   []*wgpu.PipelineLayoutDescriptor
	RenderPipelines   []*wgpu.RenderPipelineDescriptor
	CreatedBuffers    []*wgpu.Buffer
	CreatedPipelines  []*wgpu.RenderPipeline
	CreatedBindGroups []*wgpu.BindGroup
}

var _ renderer.Device = &Device{}

func (d *Device) record(method string) error {
	d.Calls = append(d.Calls, method)
	if d.FailOn == method {
		return ErrInjected
	}
	return nil
}

func (d *Device) CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(MethodCreateBuffer); err != nil {
		return nil, err
	}
	d.Buffers = append(d.Buffers, descriptor)
	buf := &wgpu.Buffer{}
	d.CreatedBuffers = append(d.CreatedBuffers, buf)
	return buf, nil
}

func (d *Device) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(MethodCreateBindGroupLayout); err != nil {
		return nil, err
	}
	d.BindGroupLayouts = append(d.BindGroupLayouts, descriptor)
	return &wgpu.BindGroupLayout{}, nil
}

func (d *Device) CreateBindGroup(descriptor *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(MethodCreateBindGroup); err != nil {
		return nil, err
	}
	d.BindGroups = append(d.BindGroups, descriptor)
	bg := &wgpu.BindGroup{}
	d.CreatedBindGroups = append(d.CreatedBindGroups, bg)
	return bg, nil
}

func (d *Device) CreateShaderModule(descriptor *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(MethodCreateShaderModule); err != nil {
		return nil, err
	}
	d.ShaderModules = append(d.ShaderModules, descriptor)
	return &wgpu.ShaderModule{}, nil
}

func (d *Device) CreatePipelineLayout(descriptor *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(MethodCreatePipelineLayout); err != nil {
		return nil, err
	}
	d.PipelineLayouts = append(d.PipelineLayouts, descriptor)
	return &wgpu.PipelineLayout{}, nil
}

func (d *Device) CreateRenderPipeline(descriptor *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.record(MethodCreateRenderPipeline); err != nil {
		return nil, err
	}
	d.RenderPipelines = append(d.RenderPipelines, descriptor)
	rp := &wgpu.RenderPipeline{}
	d.CreatedPipelines = append(d.CreatedPipelines, rp)
	return rp, nil
}

// Write is one recorded Queue.WriteBuffer call. Data is a copy of the bytes written.
type Write struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Data   []byte
}

// Queue records every WriteBuffer call.
type Queue struct {
	mu sync.Mutex

	// Fail makes WriteBuffer return ErrInjected.
	Fail bool

	Writes []Write
}

var _ renderer.Queue = &Queue{}

func (q *Queue) WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Fail {
		return ErrInjected
	}
	q.Writes = append(q.Writes, Write{Buffer: buffer, Offset: bufferOffset, Data: append([]byte(nil), data...)})
	return nil
}

// WritesTo returns the writes made to buf in call order.
//
// Parameters:
//   - buf: the buffer to filter on
//
// Returns:
//   - []Write: the matching writes
func (q *Queue) WritesTo(buf *wgpu.Buffer) []Write {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Write
	for _, w := range q.Writes {
		if w.Buffer == buf {
			out = append(out, w)
		}
	}
	return out
}

// Command is one recorded RenderPass call with its arguments.
type Command struct {
	Name string
	Args []any
}

// RenderPass records the commands encoded into it.
type RenderPass struct {
	Commands []Command
}

var _ renderer.RenderPass = &RenderPass{}

func (p *RenderPass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.Commands = append(p.Commands, Command{Name: "SetPipeline", Args: []any{pipeline}})
}

func (p *RenderPass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset uint64, size uint64) {
	p.Commands = append(p.Commands, Command{Name: "SetVertexBuffer", Args: []any{slot, buffer, offset, size}})
}

func (p *RenderPass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset uint64, size uint64) {
	p.Commands = append(p.Commands, Command{Name: "SetIndexBuffer", Args: []any{buffer, format, offset, size}})
}

func (p *RenderPass) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32) {
	p.Commands = append(p.Commands, Command{Name: "SetBindGroup", Args: []any{groupIndex, group}})
}

func (p *RenderPass) DrawIndexed(indexCount uint32, instanceCount uint32, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.Commands = append(p.Commands, Command{Name: "DrawIndexed", Args: []any{indexCount, instanceCount, firstIndex, baseVertex, firstInstance}})
}

// Names returns the recorded command names in order.
//
// Returns:
//   - []string: the command names
func (p *RenderPass) Names() []string {
	names := make([]string, len(p.Commands))
	for i, c := range p.Commands {
		names[i] = c.Name
	}
	return names
}

// Context is a renderer.Context over a fake Device and Queue.
type Context struct {
	Dev    *Device
	Q      *Queue
	Format wgpu.TextureFormat
	Depth  wgpu.TextureFormat
	Width  int
	Height int
}

var _ renderer.Context = &Context{}

// NewContext returns a Context with an 800x600 BGRA8UnormSrgb target and a Depth24Plus depth attachment.
//
// Returns:
//   - *Context: the fake context
func NewContext() *Context {
	return &Context{
		Dev:    &Device{},
		Q:      &Queue{},
		Format: wgpu.TextureFormatBGRA8UnormSrgb,
		Depth:  wgpu.TextureFormatDepth24Plus,
		Width:  800,
		Height: 600,
	}
}

func (c *Context) Device() renderer.Device { return c.Dev }
func (c *Context) Queue() renderer.Queue { return c.Q }
func (c *Context) SurfaceFormat() wgpu.TextureFormat { return c.Format }
func (c *Context) DepthFormat() wgpu.TextureFormat { return c.Depth }
func (c *Context) Size() (int, int) { return c.Width, c.Height }
