package renderer

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-cube/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// headlessFormat is the color format of the offscreen target. It matches the byte order of image.RGBA.
const headlessFormat = wgpu.TextureFormatRGBA8UnormSrgb

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface // nil when headless

	surfaceFormat        wgpu.TextureFormat
	depthFormat          wgpu.TextureFormat
	clearColor           wgpu.Color
	width, height        int
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	// offscreen color target, headless only
	targetTexture *wgpu.Texture
	targetView    *wgpu.TextureView

	presentMode wgpu.PresentMode // defaults to PresentModeFifo (VSync)

	// Frame state between BeginFrame and Present
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// backendConfig carries the construction options from the renderer to the backend.
type backendConfig struct {
	forceFallbackAdapter bool
	presentMode          PresentMode
	clearColor           wgpu.Color
	depthFormat          wgpu.TextureFormat
}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, cfg backendConfig) (*wgpuRendererBackendImpl, error) {
	if surfaceDescriptor != nil {
		runtime.LockOSThread()
	}
	b := &wgpuRendererBackendImpl{
		mu:            &sync.Mutex{},
		instance:      wgpu.CreateInstance(nil),
		surfaceFormat: headlessFormat,
		depthFormat:   cfg.depthFormat,
		clearColor:    cfg.clearColor,
	}
	b.SetPresentMode(cfg.presentMode)

	if surfaceDescriptor != nil {
		b.surface = b.instance.CreateSurface(surfaceDescriptor)
	}

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w: %w", common.ErrResourceCreation, err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w: %w", common.ErrResourceCreation, err)
	}
	b.device = d
	b.queue = d.GetQueue()

	common.Logger().Info("gpu device ready",
		"headless", surfaceDescriptor == nil,
		"fallback_adapter", cfg.forceFallbackAdapter,
	)
	return b, nil
}

func (b *wgpuRendererBackendImpl) ConfigureTarget(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("configure target %dx%d: %w", width, height, common.ErrConfiguration)
	}

	if b.surface != nil {
		capabilities := b.surface.GetCapabilities(b.adapter)
		if len(capabilities.Formats) == 0 {
			return fmt.Errorf("surface reports no formats: %w", common.ErrResourceCreation)
		}
		b.surfaceFormat = capabilities.Formats[0]
		b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      b.surfaceFormat,
			Width:       uint32(width),
			Height:      uint32(height),
			PresentMode: b.presentMode,
			AlphaMode:   capabilities.AlphaModes[0],
		})
	} else {
		texture, view, err := b.createTargetTexture("Offscreen Target", width, height, b.surfaceFormat,
			wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageCopySrc)
		if err != nil {
			return err
		}
		b.releaseTarget()
		b.targetTexture, b.targetView = texture, view
	}

	depthTexture, depthView, err := b.createTargetTexture("Depth Texture", width, height, b.depthFormat,
		wgpu.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	b.releaseDepth()
	b.depthTexture, b.depthTextureView = depthTexture, depthView
	b.width, b.height = width, height

	// View is set per-frame in BeginFrame.
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView, // Persistent until resize
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

// createTargetTexture creates a single sampled 2D texture and its default view.
func (b *wgpuRendererBackendImpl) createTargetTexture(label string, width, height int, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w: %w", label, common.ErrResourceCreation, err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, nil, fmt.Errorf("create %s view: %w: %w", label, common.ErrResourceCreation, err)
	}
	return texture, view, nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() (*wgpu.RenderPassEncoder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderPassDescriptor == nil {
		return nil, errors.New("render target not configured")
	}
	if b.frameEncoder != nil || b.frameSurface != nil {
		return nil, errors.New("previous frame not yet ended")
	}

	view := b.targetView
	if b.surface != nil {
		surfaceTexture, err := b.surface.GetCurrentTexture()
		if err != nil {
			return nil, err
		}
		view, err = surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return nil, err
		}
		b.frameSurface = surfaceTexture
		b.frameView = view
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		b.releaseFrameSurface()
		return nil, err
	}

	b.renderPassDescriptor.ColorAttachments[0].View = view
	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	return b.framePass, nil
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return nil
	}
	defer func() {
		b.frameEncoder.Release()
		b.frameEncoder = nil
		b.framePass = nil
	}()

	b.framePass.End()
	b.framePass.Release()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.releaseFrameSurface()
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If no frame surface is held, nothing to present.
	if b.surface == nil || b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameSurface()
}

func (b *wgpuRendererBackendImpl) ReadFrame() (*image.RGBA, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface != nil || b.targetTexture == nil {
		return nil, errors.New("frame readback requires a configured headless renderer")
	}

	bytesPerRow := paddedBytesPerRow(b.width)
	size := uint64(bytesPerRow) * uint64(b.height)
	staging, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Readback Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w: %w", common.ErrResourceCreation, err)
	}
	defer staging.Release()

	err = b.submitCopy(func(encoder *wgpu.CommandEncoder) error {
		return encoder.CopyTextureToBuffer(
			&wgpu.ImageCopyTexture{
				Aspect:   wgpu.TextureAspectAll,
				Texture:  b.targetTexture,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
			},
			&wgpu.ImageCopyBuffer{
				Buffer: staging,
				Layout: wgpu.TextureDataLayout{
					Offset:       0,
					BytesPerRow:  bytesPerRow,
					RowsPerImage: uint32(b.height),
				},
			},
			&wgpu.Extent3D{
				Width:              uint32(b.width),
				Height:             uint32(b.height),
				DepthOrArrayLayers: 1,
			},
		)
	})
	if err != nil {
		return nil, err
	}

	data, err := b.mapRead(staging, size)
	if err != nil {
		return nil, err
	}
	return unpadRows(data, b.width, b.height, int(bytesPerRow)), nil
}

func (b *wgpuRendererBackendImpl) ReadBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	staging, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Buffer Readback",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create readback buffer: %w: %w", common.ErrResourceCreation, err)
	}
	defer staging.Release()

	err = b.submitCopy(func(encoder *wgpu.CommandEncoder) error {
		return encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	})
	if err != nil {
		return nil, err
	}
	return b.mapRead(staging, size)
}

// submitCopy records a single copy command and submits it.
func (b *wgpuRendererBackendImpl) submitCopy(record func(encoder *wgpu.CommandEncoder) error) error {
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	if err := record(encoder); err != nil {
		return fmt.Errorf("record copy: %w", err)
	}
	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()

	b.queue.Submit(commandBuffer)
	return nil
}

// mapRead maps buf for reading, blocks on the device until the mapping resolves and returns a copy
// of the first size bytes.
func (b *wgpuRendererBackendImpl) mapRead(buf *wgpu.Buffer, size uint64) ([]byte, error) {
	var status wgpu.BufferMapAsyncStatus
	err := buf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, err
	}
	b.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("map readback buffer: status %v", status)
	}

	mapped := buf.GetMappedRange(0, uint(size))
	out := make([]byte, len(mapped))
	copy(out, mapped)
	buf.Unmap()
	return out, nil
}

func (b *wgpuRendererBackendImpl) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) releaseTarget() {
	if b.targetView != nil {
		b.targetView.Release()
		b.targetView = nil
	}
	if b.targetTexture != nil {
		b.targetTexture.Release()
		b.targetTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) releaseDepth() {
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
		b.framePass = nil
	}
	b.releaseFrameSurface()
	b.releaseTarget()
	b.releaseDepth()
	b.renderPassDescriptor = nil

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) DepthFormat() wgpu.TextureFormat {
	return b.depthFormat
}

func (b *wgpuRendererBackendImpl) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// paddedBytesPerRow returns the RGBA8 row pitch for a texture-to-buffer copy, rounded up to
// wgpu.CopyBytesPerRowAlignment.
func paddedBytesPerRow(width int) uint32 {
	const bytesPerPixel = 4
	unpadded := uint32(width) * bytesPerPixel
	align := uint32(wgpu.CopyBytesPerRowAlignment)
	return (unpadded + align - 1) / align * align
}

// unpadRows repacks row-padded RGBA8 readback data into a tightly packed image.
func unpadRows(data []byte, width, height, bytesPerRow int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowLen := width * 4
	for y := range height {
		copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], data[y*bytesPerRow:y*bytesPerRow+rowLen])
	}
	return img
}
