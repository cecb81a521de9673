package gfx

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var positionFormat = NewVertexFormat(VertexElement{Semantic: "vertex_position", Components: 3, Type: ElementFloat32})

func TestVertexFormat_Stride(t *testing.T) {
	assert.Equal(t, 12, positionFormat.Stride)
	assert.Equal(t, 3, positionFormat.FloatsPerVertex())
}

func TestVertexBuffer_LockUnlock(t *testing.T) {
	var uploaded []byte
	vb, err := NewVertexBuffer(positionFormat, 2, UsageDynamic, UploaderFunc(func(b []byte) { uploaded = b }))
	require.NoError(t, err)

	data, err := vb.Lock()
	require.NoError(t, err)
	require.Len(t, data, 6)
	data[3] = 1.5

	_, err = vb.Lock()
	assert.ErrorIs(t, err, ErrBufferLocked)

	require.NoError(t, vb.Unlock())
	assert.Len(t, uploaded, 24)
	assert.Equal(t, float32(1.5), vb.Data()[3])

	assert.ErrorIs(t, vb.Unlock(), ErrBufferNotLocked)
}

func TestVertexBuffer_InvalidSize(t *testing.T) {
	_, err := NewVertexBuffer(positionFormat, 0, UsageStatic, nil)
	assert.Error(t, err)

	_, err = NewVertexBuffer(VertexFormat{}, 4, UsageStatic, nil)
	assert.Error(t, err)
}

func TestIndexBuffer_UploadIsPadded(t *testing.T) {
	var uploaded []byte
	ib, err := NewIndexBuffer(3, UploaderFunc(func(b []byte) { uploaded = b }))
	require.NoError(t, err)

	inds, err := ib.Lock()
	require.NoError(t, err)
	inds[0], inds[1], inds[2] = 1, 2, 3
	require.NoError(t, ib.Unlock())

	assert.Len(t, uploaded, 8)
	assert.Equal(t, byte(3), uploaded[4])
}

func TestProgramLibrary_Caches(t *testing.T) {
	compiles := 0
	lib := NewProgramLibrary(func(name string, opts ProgramOptions) (any, error) {
		compiles++
		return name, nil
	})

	a, err := lib.GetProgram("basic", ProgramOptions{})
	require.NoError(t, err)
	b, err := lib.GetProgram("basic", ProgramOptions{})
	require.NoError(t, err)
	c, err := lib.GetProgram("basic", ProgramOptions{VertexColors: true})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, compiles)
	assert.Equal(t, 2, lib.Len())
}

func TestScope_Resolve(t *testing.T) {
	s := NewScope()
	p := s.Resolve(ParamColor)
	assert.Same(t, p, s.Resolve(ParamColor))
	assert.False(t, p.IsSet())
	assert.Empty(t, s.Snapshot())

	p.SetValue([4]float32{1, 0, 0, 1})
	assert.Equal(t, map[string]any{ParamColor: [4]float32{1, 0, 0, 1}}, s.Snapshot())
}

func TestRecordingDevice_CapturesDraw(t *testing.T) {
	d := NewRecordingDevice()
	prog, err := d.ProgramLibrary().GetProgram("basic", ProgramOptions{})
	require.NoError(t, err)

	vb, err := d.CreateVertexBuffer(positionFormat, 2, UsageDynamic)
	require.NoError(t, err)
	ib, err := d.CreateIndexBuffer(2)
	require.NoError(t, err)

	v, _ := vb.Lock()
	copy(v, []float32{0, 0, 0, 1, 2, 3})
	require.NoError(t, vb.Unlock())
	inds, _ := ib.Lock()
	inds[0], inds[1] = 0, 1
	require.NoError(t, ib.Unlock())

	d.SetProgram(prog)
	d.SetVertexBuffer(vb, 0)
	d.SetIndexBuffer(ib)
	d.Scope().Resolve(ParamColor).SetValue([4]float32{0, 1, 0, 1})
	d.Draw(DrawCall{Type: PrimLines, Count: 2, Indexed: true})

	// later writes must not leak into the captured draw
	v, _ = vb.Lock()
	v[3] = 99
	require.NoError(t, vb.Unlock())

	require.Len(t, d.Draws, 1)
	rec := d.Draws[0]
	assert.Same(t, prog, rec.Program)
	assert.Equal(t, []float32{1, 2, 3}, rec.Vertex(1))
	assert.Equal(t, []uint16{0, 1}, rec.Indices)
	assert.Equal(t, 3, d.Uploads)

	d.Reset()
	assert.Empty(t, d.Draws)
}

func TestRasterizeLines_DrawsColoredSegment(t *testing.T) {
	rec := DrawRecord{
		Call:     DrawCall{Type: PrimLines, Count: 2},
		Vertices: []float32{-0.5, 0, 0, 0.5, 0, 0},
		Stride:   3,
		Params: map[string]any{
			ParamModelMatrix: mgl32.Ident4(),
			ParamColor:       [4]float32{1, 0, 0, 1},
		},
	}

	img := RasterizeLines([]DrawRecord{rec}, SnapshotOptions{
		Width:          64,
		Height:         64,
		ViewProjection: mgl32.Ident4(),
		LineWidth:      3,
		Background:     color.Black,
	})

	r, g, _, _ := img.At(32, 32).RGBA()
	assert.Greater(t, r, uint32(0x8000))
	assert.Zero(t, g)

	r, _, _, _ = img.At(32, 5).RGBA()
	assert.Zero(t, r)
}
