package wgpugfx

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/spotlight/gfx"
	"github.com/gekko3d/spotlight/gfx/wgpugfx/shaders"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

func TestPackDrawUniforms(t *testing.T) {
	model := mgl32.Translate3D(1, 2, 3)
	buf := packDrawUniforms(map[string]any{
		gfx.ParamModelMatrix: model,
		gfx.ParamColor:       [4]float32{0.5, 0.25, 1, 1},
	})
	require.Len(t, buf, drawUniformSize)

	// view-projection defaults to identity
	assert.Equal(t, float32(1), floatAt(buf, 0))
	assert.Equal(t, float32(0), floatAt(buf, 1))
	assert.Equal(t, float32(1), floatAt(buf, 15))

	// model is column-major, translation in the last column
	assert.Equal(t, float32(1), floatAt(buf, 16+12))
	assert.Equal(t, float32(2), floatAt(buf, 16+13))
	assert.Equal(t, float32(3), floatAt(buf, 16+14))

	assert.Equal(t, float32(0.5), floatAt(buf, 32))
	assert.Equal(t, float32(0.25), floatAt(buf, 33))
}

func TestPackDrawUniforms_DefaultColor(t *testing.T) {
	buf := packDrawUniforms(map[string]any{gfx.ParamColor: "red"})
	for i := 32; i < 36; i++ {
		assert.Equal(t, float32(1), floatAt(buf, i))
	}
}

func TestVertexLayout(t *testing.T) {
	format := gfx.NewVertexFormat(
		gfx.VertexElement{Semantic: "position", Components: 3, Type: gfx.ElementFloat32},
		gfx.VertexElement{Semantic: "uv", Components: 2, Type: gfx.ElementFloat32},
	)
	layout, err := vertexLayout(format)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), layout.ArrayStride)
	require.Len(t, layout.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[0].Format)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Equal(t, uint32(1), layout.Attributes[1].ShaderLocation)

	_, err = vertexLayout(gfx.NewVertexFormat(gfx.VertexElement{Semantic: "bad", Components: 5}))
	assert.Error(t, err)
}

func TestTopology(t *testing.T) {
	top, err := topology(gfx.PrimLines)
	require.NoError(t, err)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, top)

	_, err = topology(gfx.PrimType(42))
	assert.Error(t, err)
}

func TestRingPosition(t *testing.T) {
	for _, tc := range []struct{ cursor, chunk, slot int }{
		{0, 0, 0},
		{3, 0, 3},
		{4, 1, 0},
		{9, 2, 1},
	} {
		chunk, slot := ringPosition(tc.cursor, 4)
		assert.Equal(t, tc.chunk, chunk, "cursor %d", tc.cursor)
		assert.Equal(t, tc.slot, slot, "cursor %d", tc.cursor)
	}
	assert.Equal(t, uint64(256), alignUp(drawUniformSize, uniformAlignment))
	assert.Equal(t, uint64(176), alignUp(176, 4))
	assert.Equal(t, uint64(180), alignUp(178, 4))
}

func TestBasicShaderEntryPoints(t *testing.T) {
	assert.Contains(t, shaders.BasicWGSL, "fn vs_main")
	assert.Contains(t, shaders.BasicWGSL, "fn fs_main")
	assert.Contains(t, programSources, "basic")
}
