package gfx

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// SnapshotOptions controls RasterizeLines.
type SnapshotOptions struct {
	Width, Height  int
	ViewProjection mgl32.Mat4
	LineWidth      float32
	Background     color.Color
}

// RasterizeLines draws every captured line-list draw into an image, projecting
// vertices with matrix_model and the given view-projection.
func RasterizeLines(draws []DrawRecord, opts SnapshotOptions) *image.RGBA {
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1.5
	}
	if opts.Background == nil {
		opts.Background = color.RGBA{R: 24, G: 24, B: 24, A: 255}
	}

	bounds := image.Rect(0, 0, opts.Width, opts.Height)
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(opts.Background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(opts.Width, opts.Height)
	for _, rec := range draws {
		if rec.Call.Type != PrimLines || rec.Stride < 3 {
			continue
		}
		model := mgl32.Ident4()
		if m, ok := rec.Params[ParamModelMatrix].(mgl32.Mat4); ok {
			model = m
		}
		mvp := opts.ViewProjection.Mul4(model)
		src := image.NewUniform(recordColor(rec))

		for i := 0; i+1 < rec.Call.Count; i += 2 {
			a, okA := project(mvp, rec.Vertex(lineIndex(rec, i)), opts.Width, opts.Height)
			b, okB := project(mvp, rec.Vertex(lineIndex(rec, i+1)), opts.Width, opts.Height)
			if !okA || !okB {
				continue
			}
			z.Reset(opts.Width, opts.Height)
			segmentPath(z, a, b, opts.LineWidth)
			z.Draw(dst, bounds, src, image.Point{})
		}
	}
	return dst
}

func lineIndex(rec DrawRecord, i int) int {
	if rec.Call.Indexed {
		return int(rec.Indices[rec.Call.Base+i])
	}
	return rec.Call.Base + i
}

func recordColor(rec DrawRecord) color.Color {
	c, ok := rec.Params[ParamColor].([4]float32)
	if !ok {
		return color.White
	}
	return color.NRGBA{
		R: uint8(mgl32.Clamp(c[0], 0, 1) * 255),
		G: uint8(mgl32.Clamp(c[1], 0, 1) * 255),
		B: uint8(mgl32.Clamp(c[2], 0, 1) * 255),
		A: uint8(mgl32.Clamp(c[3], 0, 1) * 255),
	}
}

func project(mvp mgl32.Mat4, v []float32, w, h int) (mgl32.Vec2, bool) {
	clip := mvp.Mul4x1(mgl32.Vec4{v[0], v[1], v[2], 1})
	if clip.W() <= 1e-6 {
		return mgl32.Vec2{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	return mgl32.Vec2{
		(ndc.X() + 1) * 0.5 * float32(w),
		(1 - ndc.Y()) * 0.5 * float32(h),
	}, true
}

// segmentPath adds a thin quad from a to b.
func segmentPath(z *vector.Rasterizer, a, b mgl32.Vec2, width float32) {
	d := b.Sub(a)
	if d.Len() < 1e-4 {
		d = mgl32.Vec2{1, 0}
	}
	n := mgl32.Vec2{-d.Y(), d.X()}.Normalize().Mul(width * 0.5)

	z.MoveTo(a.X()+n.X(), a.Y()+n.Y())
	z.LineTo(b.X()+n.X(), b.Y()+n.Y())
	z.LineTo(b.X()-n.X(), b.Y()-n.Y())
	z.LineTo(a.X()-n.X(), a.Y()-n.Y())
	z.ClosePath()
}
