package wgpugfx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/spotlight/gfx"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// view_proj + model + color, see shaders/basic.wgsl
	drawUniformSize = 16*4 + 16*4 + 4*4
	// minUniformBufferOffsetAlignment on every adapter we target
	uniformAlignment = 256
)

func topology(p gfx.PrimType) (wgpu.PrimitiveTopology, error) {
	switch p {
	case gfx.PrimPoints:
		return wgpu.PrimitiveTopologyPointList, nil
	case gfx.PrimLines:
		return wgpu.PrimitiveTopologyLineList, nil
	case gfx.PrimLineStrip:
		return wgpu.PrimitiveTopologyLineStrip, nil
	case gfx.PrimTriangles:
		return wgpu.PrimitiveTopologyTriangleList, nil
	}
	return 0, fmt.Errorf("unsupported primitive type %s", p)
}

func vertexLayout(format gfx.VertexFormat) (wgpu.VertexBufferLayout, error) {
	attrs := make([]wgpu.VertexAttribute, 0, len(format.Elements))
	var offset uint64
	for i, e := range format.Elements {
		if e.Type != gfx.ElementFloat32 {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("element %s: unsupported type %d", e.Semantic, e.Type)
		}
		var f wgpu.VertexFormat
		switch e.Components {
		case 1:
			f = wgpu.VertexFormatFloat32
		case 2:
			f = wgpu.VertexFormatFloat32x2
		case 3:
			f = wgpu.VertexFormatFloat32x3
		case 4:
			f = wgpu.VertexFormatFloat32x4
		default:
			return wgpu.VertexBufferLayout{}, fmt.Errorf("element %s: %d components", e.Semantic, e.Components)
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         f,
			Offset:         offset,
			ShaderLocation: uint32(i),
		})
		offset += uint64(e.Components * e.Type.Size())
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(format.Stride),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

// packDrawUniforms lays out the scope parameters the basic shader reads.
// Missing matrices read as identity, a missing color as opaque white.
func packDrawUniforms(params map[string]any) []byte {
	viewProj := matParam(params, gfx.ParamViewProjectionMatrix)
	model := matParam(params, gfx.ParamModelMatrix)
	color := colorParam(params, gfx.ParamColor)

	buf := make([]byte, 0, drawUniformSize)
	for _, f := range viewProj {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range model {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range color {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

func matParam(params map[string]any, name string) mgl32.Mat4 {
	if m, ok := params[name].(mgl32.Mat4); ok {
		return m
	}
	return mgl32.Ident4()
}

func colorParam(params map[string]any, name string) [4]float32 {
	switch c := params[name].(type) {
	case [4]float32:
		return c
	case mgl32.Vec4:
		return c
	}
	return [4]float32{1, 1, 1, 1}
}
