package wgpugfx

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ring hands out fixed-size slots from a growing list of GPU buffers. Every
// write within a frame lands in its own slot, so queued writes never clobber
// data an earlier draw of the same frame still reads. reset rewinds it once
// the frame has been submitted.
type ring struct {
	device        *wgpu.Device
	label         string
	usage         wgpu.BufferUsage
	slotSize      uint64
	slotsPerChunk int

	chunks []*wgpu.Buffer
	cursor int
}

type ringSlot struct {
	chunk  int
	buffer *wgpu.Buffer
	offset uint64
}

func newRing(device *wgpu.Device, label string, usage wgpu.BufferUsage, slotSize uint64, slotsPerChunk int) *ring {
	if slotsPerChunk < 1 {
		slotsPerChunk = 1
	}
	return &ring{
		device:        device,
		label:         label,
		usage:         usage | wgpu.BufferUsageCopyDst,
		slotSize:      slotSize,
		slotsPerChunk: slotsPerChunk,
	}
}

func (r *ring) acquire() (ringSlot, error) {
	chunk, slot := ringPosition(r.cursor, r.slotsPerChunk)
	if chunk == len(r.chunks) {
		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s#%d", r.label, chunk),
			Size:  r.slotSize * uint64(r.slotsPerChunk),
			Usage: r.usage,
		})
		if err != nil {
			return ringSlot{}, fmt.Errorf("%s: %w", r.label, err)
		}
		r.chunks = append(r.chunks, buf)
	}
	r.cursor++
	return ringSlot{chunk: chunk, buffer: r.chunks[chunk], offset: uint64(slot) * r.slotSize}, nil
}

func (r *ring) reset() { r.cursor = 0 }

func (r *ring) release() {
	for _, c := range r.chunks {
		c.Release()
	}
	r.chunks = nil
	r.cursor = 0
}

func ringPosition(cursor, slotsPerChunk int) (chunk, slot int) {
	return cursor / slotsPerChunk, cursor % slotsPerChunk
}

func alignUp(n, align uint64) uint64 {
	if align == 0 {
		return n
	}
	return (n + align - 1) / align * align
}
