package gfx

import "fmt"

// DrawRecord is what a RecordingDevice captured for one Draw call.
type DrawRecord struct {
	Program  *Program
	Call     DrawCall
	Vertices []float32
	Stride   int // floats per vertex
	Indices  []uint16
	Params   map[string]any
}

// Vertex returns the i-th vertex of the captured data.
func (r DrawRecord) Vertex(i int) []float32 {
	return r.Vertices[i*r.Stride : (i+1)*r.Stride]
}

// RecordingDevice is a headless Device. It keeps every draw in memory, which
// is what tests and the preview tool need.
type RecordingDevice struct {
	library *ProgramLibrary
	scope   *Scope

	program      *Program
	vertexBuffer *VertexBuffer
	indexBuffer  *IndexBuffer

	Draws   []DrawRecord
	Uploads int
}

var _ Device = (*RecordingDevice)(nil)

func NewRecordingDevice() *RecordingDevice {
	d := &RecordingDevice{scope: NewScope()}
	d.library = NewProgramLibrary(func(name string, opts ProgramOptions) (any, error) {
		return fmt.Sprintf("recorded:%s", name), nil
	})
	return d
}

func (d *RecordingDevice) ProgramLibrary() *ProgramLibrary { return d.library }
func (d *RecordingDevice) Scope() *Scope                   { return d.scope }

func (d *RecordingDevice) upload(_ []byte) { d.Uploads++ }

func (d *RecordingDevice) CreateVertexBuffer(format VertexFormat, numVertices int, usage BufferUsage) (*VertexBuffer, error) {
	return NewVertexBuffer(format, numVertices, usage, UploaderFunc(d.upload))
}

func (d *RecordingDevice) CreateIndexBuffer(numIndices int) (*IndexBuffer, error) {
	return NewIndexBuffer(numIndices, UploaderFunc(d.upload))
}

func (d *RecordingDevice) SetProgram(p *Program)                   { d.program = p }
func (d *RecordingDevice) SetVertexBuffer(vb *VertexBuffer, _ int) { d.vertexBuffer = vb }
func (d *RecordingDevice) SetIndexBuffer(ib *IndexBuffer)          { d.indexBuffer = ib }

func (d *RecordingDevice) Draw(call DrawCall) {
	rec := DrawRecord{
		Program: d.program,
		Call:    call,
		Params:  d.scope.Snapshot(),
	}
	if d.vertexBuffer != nil {
		rec.Vertices = append([]float32(nil), d.vertexBuffer.Data()...)
		rec.Stride = d.vertexBuffer.Format().FloatsPerVertex()
	}
	if call.Indexed && d.indexBuffer != nil {
		rec.Indices = append([]uint16(nil), d.indexBuffer.Data()...)
	}
	d.Draws = append(d.Draws, rec)
}

// Reset drops the captured draws, keeping resources and bindings.
func (d *RecordingDevice) Reset() {
	d.Draws = d.Draws[:0]
}
