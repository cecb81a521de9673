package gfx

type PrimType int

const (
	PrimPoints PrimType = iota
	PrimLines
	PrimLineStrip
	PrimTriangles
)

func (p PrimType) String() string {
	switch p {
	case PrimPoints:
		return "points"
	case PrimLines:
		return "lines"
	case PrimLineStrip:
		return "line-strip"
	case PrimTriangles:
		return "triangles"
	}
	return "unknown"
}

// DrawCall describes a single submission. Base and Count are in indices when
// Indexed is set, otherwise in vertices.
type DrawCall struct {
	Type    PrimType
	Base    int
	Count   int
	Indexed bool
}

// Well-known shader parameter names resolved through the device Scope.
const (
	ParamModelMatrix          = "matrix_model"
	ParamViewProjectionMatrix = "matrix_viewProjection"
	ParamColor                = "uColor"
)

// Device is the rendering surface the engine talks to. Implementations are
// not safe for concurrent use; all calls happen on the render thread.
type Device interface {
	ProgramLibrary() *ProgramLibrary
	CreateVertexBuffer(format VertexFormat, numVertices int, usage BufferUsage) (*VertexBuffer, error)
	CreateIndexBuffer(numIndices int) (*IndexBuffer, error)

	SetProgram(p *Program)
	SetVertexBuffer(vb *VertexBuffer, stream int)
	SetIndexBuffer(ib *IndexBuffer)
	Scope() *Scope
	Draw(call DrawCall)
}

// FrameDevice is implemented by devices that present to a surface and need
// explicit frame boundaries.
type FrameDevice interface {
	Device
	BeginFrame() error
	EndFrame() error
}
