package gfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

type BufferUsage int

const (
	UsageStatic BufferUsage = iota
	UsageDynamic
)

type ElementType int

const (
	ElementFloat32 ElementType = iota
)

func (t ElementType) Size() int {
	switch t {
	case ElementFloat32:
		return 4
	}
	return 0
}

type VertexElement struct {
	Semantic   string
	Components int
	Type       ElementType
}

type VertexFormat struct {
	Elements []VertexElement
	Stride   int // bytes
}

// NewVertexFormat packs the elements tightly in declaration order.
func NewVertexFormat(elements ...VertexElement) VertexFormat {
	stride := 0
	for _, e := range elements {
		stride += e.Components * e.Type.Size()
	}
	return VertexFormat{Elements: elements, Stride: stride}
}

// FloatsPerVertex assumes an all-float32 layout.
func (f VertexFormat) FloatsPerVertex() int {
	return f.Stride / ElementFloat32.Size()
}

var (
	ErrBufferLocked    = errors.New("buffer already locked")
	ErrBufferNotLocked = errors.New("buffer not locked")
)

// Uploader receives the CPU copy of a buffer every time it is unlocked.
type Uploader interface {
	Upload(data []byte)
}

type UploaderFunc func(data []byte)

func (f UploaderFunc) Upload(data []byte) { f(data) }

// VertexBuffer keeps a CPU shadow copy of float32 vertex data. Writes happen
// between Lock and Unlock; Unlock forwards the bytes to the backend.
type VertexBuffer struct {
	format      VertexFormat
	numVertices int
	usage       BufferUsage
	data        []float32
	locked      bool
	uploader    Uploader

	// Backend is free for the owning device to stash its handle.
	Backend any
}

func NewVertexBuffer(format VertexFormat, numVertices int, usage BufferUsage, up Uploader) (*VertexBuffer, error) {
	if numVertices <= 0 {
		return nil, fmt.Errorf("vertex buffer: invalid vertex count %d", numVertices)
	}
	if format.Stride == 0 {
		return nil, fmt.Errorf("vertex buffer: empty vertex format")
	}
	return &VertexBuffer{
		format:      format,
		numVertices: numVertices,
		usage:       usage,
		data:        make([]float32, numVertices*format.FloatsPerVertex()),
		uploader:    up,
	}, nil
}

func (vb *VertexBuffer) Format() VertexFormat { return vb.format }
func (vb *VertexBuffer) NumVertices() int     { return vb.numVertices }
func (vb *VertexBuffer) Usage() BufferUsage   { return vb.usage }

// Data returns the CPU copy. Callers must not write to it outside Lock/Unlock.
func (vb *VertexBuffer) Data() []float32 { return vb.data }

func (vb *VertexBuffer) Lock() ([]float32, error) {
	if vb.locked {
		return nil, ErrBufferLocked
	}
	vb.locked = true
	return vb.data, nil
}

func (vb *VertexBuffer) Unlock() error {
	if !vb.locked {
		return ErrBufferNotLocked
	}
	vb.locked = false
	if vb.uploader != nil {
		vb.uploader.Upload(float32Bytes(vb.data))
	}
	return nil
}

// IndexBuffer holds uint16 indices.
type IndexBuffer struct {
	data     []uint16
	locked   bool
	uploader Uploader

	Backend any
}

func NewIndexBuffer(numIndices int, up Uploader) (*IndexBuffer, error) {
	if numIndices <= 0 {
		return nil, fmt.Errorf("index buffer: invalid index count %d", numIndices)
	}
	return &IndexBuffer{
		data:     make([]uint16, numIndices),
		uploader: up,
	}, nil
}

func (ib *IndexBuffer) NumIndices() int { return len(ib.data) }
func (ib *IndexBuffer) Data() []uint16  { return ib.data }

func (ib *IndexBuffer) Lock() ([]uint16, error) {
	if ib.locked {
		return nil, ErrBufferLocked
	}
	ib.locked = true
	return ib.data, nil
}

func (ib *IndexBuffer) Unlock() error {
	if !ib.locked {
		return ErrBufferNotLocked
	}
	ib.locked = false
	if ib.uploader != nil {
		ib.uploader.Upload(uint16Bytes(ib.data))
	}
	return nil
}

func float32Bytes(src []float32) []byte {
	out := make([]byte, len(src)*4)
	for i, f := range src {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// uint16Bytes pads to a multiple of 4 bytes, as required by queue writes.
func uint16Bytes(src []uint16) []byte {
	n := len(src) * 2
	if n%4 != 0 {
		n += 2
	}
	out := make([]byte, n)
	for i, v := range src {
		binary.LittleEndian.PutUint16(out[i*2:], v)
	}
	return out
}
