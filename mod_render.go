package gekko

import (
	"github.com/gekko3d/spotlight/gfx"
	"github.com/gekko3d/spotlight/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext is the resource through which systems reach the GPU device.
type RenderContext struct {
	Device gfx.Device
	Width  int
	Height int
}

func (rc *RenderContext) Aspect() float32 {
	if rc.Height <= 0 {
		return 1
	}
	return float32(rc.Width) / float32(rc.Height)
}

type CameraComponent struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32 // degrees
	Near     float32
	Far      float32
}

func NewCameraComponent(position, target mgl32.Vec3) CameraComponent {
	return CameraComponent{
		Position: position,
		Target:   target,
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     60,
		Near:     0.1,
		Far:      500,
	}
}

func (c CameraComponent) ViewProjection(aspect float32) mgl32.Mat4 {
	up := c.Up
	if up == (mgl32.Vec3{}) {
		up = mgl32.Vec3{0, 1, 0}
	}
	proj := mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
	view := mgl32.LookAtV(c.Position, c.Target, up)
	return proj.Mul4(view)
}

// RenderModule installs the device and drains the scene's render queues in
// the Render stage.
type RenderModule struct {
	Device gfx.Device
	Width  int
	Height int
}

func (m RenderModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&RenderContext{Device: m.Device, Width: m.Width, Height: m.Height})

	if _, ok := m.Device.(gfx.FrameDevice); ok {
		app.UseSystem(System(beginFrameSystem).InStage(PreRender))
		app.UseSystem(System(endFrameSystem).InStage(PostRender))
	}
	app.UseSystem(System(cameraSystem).InStage(PreRender))
	app.UseSystem(System(renderQueuesSystem).InStage(Render))
}

// cameraSystem feeds the first camera found into the view-projection parameter.
func cameraSystem(rc *RenderContext, cmd *Commands) {
	MakeQuery1[CameraComponent](cmd).Map(func(_ EntityId, cam *CameraComponent) bool {
		rc.Device.Scope().Resolve(gfx.ParamViewProjectionMatrix).SetValue(cam.ViewProjection(rc.Aspect()))
		return false
	})
}

func renderQueuesSystem(rc *RenderContext, sc *scene.Scene, cmd *Commands) {
	for _, queue := range []string{scene.QueueOpaque, scene.QueueTransparent} {
		if err := sc.Dispatch(queue, rc.Device); err != nil {
			cmd.App().Logger().Errorf("render queue %s: %v", queue, err)
		}
	}
}

func beginFrameSystem(rc *RenderContext, cmd *Commands) {
	if err := rc.Device.(gfx.FrameDevice).BeginFrame(); err != nil {
		cmd.App().Logger().Warnf("begin frame: %v", err)
	}
}

func endFrameSystem(rc *RenderContext, cmd *Commands) {
	if err := rc.Device.(gfx.FrameDevice).EndFrame(); err != nil {
		cmd.App().Logger().Warnf("end frame: %v", err)
	}
}
