package goopdraw

import (
	"fmt"

	"honnef.co/go/wgpu"
)

// A pickReader owns the off-screen identifier target and the staging
// buffer picks are read through. One pixel is copied per pick; the buffer
// is 256 bytes because texture-to-buffer copies require 256-byte row
// alignment.
type pickReader struct {
	width, height int
	tex           *wgpu.Texture
	view          *wgpu.TextureView
	buf           *wgpu.Buffer
}

func newPickReader(dev *wgpu.Device, width, height int) *pickReader {
	tex := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: "identifier target",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
		Format:        wgpu.TextureFormatRGBA8Unorm,
	})
	return &pickReader{
		width:  width,
		height: height,
		tex:    tex,
		view:   tex.CreateView(nil),
		buf: dev.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "pick staging",
			Size:  256,
			Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		}),
	}
}

// read renders one identifier frame via draw, copies the pixel at (x, y)
// out in the same submission, and blocks until the copy has landed. The
// receive on the map channel is the only synchronization with the GPU;
// nothing is read before it fires.
func (p *pickReader) read(dev *wgpu.Device, queue *wgpu.Queue, x, y int, draw func(pass *wgpu.RenderPassEncoder)) ([4]byte, error) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return [4]byte{}, fmt.Errorf("pick at (%d, %d) outside %d×%d target", x, y, p.width, p.height)
	}

	encoder := dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "identifier frame"})
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    p.view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				// Zero alpha, so unwritten pixels decode as no entity.
				ClearValue: wgpu.Color{},
			},
		},
	})
	draw(pass)
	pass.End()
	pass.Release()

	encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  p.tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: p.buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  256,
				RowsPerImage: 0,
			},
		},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)

	cmd := encoder.Finish(nil)
	defer cmd.Release()
	queue.Submit(cmd)

	if err := <-p.buf.Map(dev, wgpu.MapModeRead, 0, 4); err != nil {
		return [4]byte{}, fmt.Errorf("mapping pick staging buffer: %w", err)
	}
	var pixel [4]byte
	copy(pixel[:], p.buf.ReadOnlyMappedRange(0, 4))
	p.buf.Unmap()
	return pixel, nil
}
