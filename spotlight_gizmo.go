package gekko

import (
	"fmt"
	"math"

	"github.com/gekko3d/spotlight/gfx"
	"github.com/gekko3d/spotlight/scene"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	SpotGizmoKind    = "spotlight.gizmo"
	SpotGizmoProgram = "basic"

	spotConeSegments    = 40
	SpotConeVertexCount = spotConeSegments + 2     // apex + closed rim
	SpotConeIndexCount  = 4*2 + spotConeSegments*2 // 4 slant edges + rim
)

var spotGizmoFormat = gfx.NewVertexFormat(gfx.VertexElement{
	Semantic:   "position",
	Components: 3,
	Type:       gfx.ElementFloat32,
})

// SpotConeVertices returns the cone outline in light space: the apex at the
// origin and a rim of attenuationEnd slant length around -Y. The last rim
// vertex repeats the first so the rim closes.
func SpotConeVertices(attenuationEnd, outerConeAngle float32) [SpotConeVertexCount]mgl32.Vec3 {
	var v [SpotConeVertexCount]mgl32.Vec3

	oca := math.Pi * float64(outerConeAngle) / 180
	ae := float64(attenuationEnd)
	r := ae * math.Sin(oca)
	y := -ae * math.Cos(oca)

	for i := 0; i <= spotConeSegments; i++ {
		theta := 2 * math.Pi * float64(i) / spotConeSegments
		v[i+1] = mgl32.Vec3{
			float32(r * math.Cos(theta)),
			float32(y),
			float32(r * math.Sin(theta)),
		}
	}
	return v
}

// SpotConeIndices connects the apex to four rim points a quarter turn apart,
// then walks the rim.
func SpotConeIndices() [SpotConeIndexCount]uint16 {
	var idx [SpotConeIndexCount]uint16
	n := 0
	for _, rim := range []uint16{1, 11, 21, 31} {
		idx[n], idx[n+1] = 0, rim
		n += 2
	}
	for i := 0; i < spotConeSegments; i++ {
		idx[n], idx[n+1] = uint16(i+1), uint16(i+2)
		n += 2
	}
	return idx
}

// SpotGizmoResources are the GPU objects shared by every cone gizmo. The
// vertex buffer is rewritten for each draw.
type SpotGizmoResources struct {
	Program      *gfx.Program
	VertexBuffer *gfx.VertexBuffer
	IndexBuffer  *gfx.IndexBuffer
}

func NewSpotGizmoResources(device gfx.Device) (*SpotGizmoResources, error) {
	program, err := device.ProgramLibrary().GetProgram(SpotGizmoProgram, gfx.ProgramOptions{})
	if err != nil {
		return nil, fmt.Errorf("spot gizmo program: %w", err)
	}
	vb, err := device.CreateVertexBuffer(spotGizmoFormat, SpotConeVertexCount, gfx.UsageDynamic)
	if err != nil {
		return nil, fmt.Errorf("spot gizmo vertex buffer: %w", err)
	}
	ib, err := device.CreateIndexBuffer(SpotConeIndexCount)
	if err != nil {
		return nil, fmt.Errorf("spot gizmo index buffer: %w", err)
	}

	indices, err := ib.Lock()
	if err != nil {
		return nil, err
	}
	cone := SpotConeIndices()
	copy(indices, cone[:])
	if err := ib.Unlock(); err != nil {
		return nil, err
	}

	return &SpotGizmoResources{Program: program, VertexBuffer: vb, IndexBuffer: ib}, nil
}

// Render draws one cone. Params[0] is the outer cone angle in degrees and
// Params[1] the attenuation end.
func (r *SpotGizmoResources) Render(device gfx.Device, cmd scene.DrawCommand) error {
	data, err := r.VertexBuffer.Lock()
	if err != nil {
		return err
	}
	for i, v := range SpotConeVertices(cmd.Params[1], cmd.Params[0]) {
		copy(data[i*3:i*3+3], v[:])
	}
	if err := r.VertexBuffer.Unlock(); err != nil {
		return err
	}

	scope := device.Scope()
	scope.Resolve(gfx.ParamModelMatrix).SetValue(cmd.Transform)
	scope.Resolve(gfx.ParamColor).SetValue(cmd.Color)

	device.SetProgram(r.Program)
	device.SetVertexBuffer(r.VertexBuffer, 0)
	device.SetIndexBuffer(r.IndexBuffer)
	device.Draw(gfx.DrawCall{
		Type:    gfx.PrimLines,
		Base:    0,
		Count:   SpotConeIndexCount,
		Indexed: true,
	})
	return nil
}

// EnableGizmos creates the cone resources on device and registers their
// renderer with the scene.
func (s *SpotLightSystem) EnableGizmos(device gfx.Device) error {
	res, err := NewSpotGizmoResources(device)
	if err != nil {
		return err
	}
	s.gizmo = res
	s.scene.RegisterRenderer(SpotGizmoKind, res)
	s.logger.Infof("spot light gizmos enabled (%d vertices, %d indices)", SpotConeVertexCount, SpotConeIndexCount)
	return nil
}

// SpotLightToolsSystem queues a cone gizmo for every spot light, tinted with
// the light color and placed at the owning entity.
func SpotLightToolsSystem(sys *SpotLightSystem, sc *scene.Scene, cmd *Commands) {
	if !sys.GizmosEnabled() {
		return
	}
	MakeQuery1[SpotLightComponent](cmd).Map(func(eid EntityId, c *SpotLightComponent) bool {
		light := c.Light
		if light == nil {
			return true
		}
		col := light.Color()
		sc.Enqueue(scene.QueueOpaque, scene.DrawCommand{
			Kind:      SpotGizmoKind,
			Transform: WorldTransform(sc, eid),
			Color:     [4]float32{col[0], col[1], col[2], 1},
			Params:    [4]float32{light.OuterConeAngle(), light.AttenuationEnd()},
		})
		return true
	})
}
