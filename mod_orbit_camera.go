package gekko

import (
	"math"

	"github.com/gekko3d/spotlight/input"
	"github.com/gekko3d/spotlight/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCameraModule lets the editor camera circle its target. Every camera
// added after install gets an OrbitCameraComponent matching its pose.
//
// Controls: right mouse drag orbits, WASD pans the target, Q/E lowers and
// raises it, -/= zooms. F frames the first spot light.
type OrbitCameraModule struct{}

func (m OrbitCameraModule) Install(app *App, cmd *Commands) {
	OnAdd(app, func(cmd *Commands, eid EntityId, cam *CameraComponent) {
		if !HasComponent[OrbitCameraComponent](cmd, eid) {
			cmd.AddComponents(eid, NewOrbitCamera(*cam))
		}
	})
	app.UseSystem(
		System(OrbitCameraInputSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(OrbitCameraControlSystem).
			InStage(Update),
	)
}

type OrbitCameraComponent struct {
	Yaw         float32 // degrees around +Y
	Pitch       float32 // degrees above the horizon
	Distance    float32
	Speed       float32 // pan units per second
	Sensitivity float32 // degrees per pixel

	Look mgl32.Vec2
	Pan  mgl32.Vec3
	Zoom float32
}

// NewOrbitCamera derives the orbit angles from a camera's position and target.
func NewOrbitCamera(cam CameraComponent) OrbitCameraComponent {
	offset := cam.Position.Sub(cam.Target)
	dist := offset.Len()
	orbit := OrbitCameraComponent{Distance: dist, Speed: 5, Sensitivity: 0.2}
	if dist == 0 {
		orbit.Distance = 1
		return orbit
	}
	orbit.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(offset.Y() / dist))))
	orbit.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(offset.X()), float64(offset.Z()))))
	return orbit
}

// Offset is the camera position relative to its target.
func (o OrbitCameraComponent) Offset() mgl32.Vec3 {
	yaw, pitch := float64(mgl32.DegToRad(o.Yaw)), float64(mgl32.DegToRad(o.Pitch))
	return mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Cos(yaw) * math.Cos(pitch)),
	}.Mul(o.Distance)
}

func OrbitCameraInputSystem(in *input.State, cmd *Commands) {
	in.MouseCaptured = in.Pressed[input.MouseButtonRight]

	MakeQuery1[OrbitCameraComponent](cmd).Map(func(eid EntityId, orbit *OrbitCameraComponent) bool {
		orbit.Pan = mgl32.Vec3{
			in.Axis(input.KeyA, input.KeyD),
			in.Axis(input.KeyQ, input.KeyE),
			in.Axis(input.KeyS, input.KeyW),
		}
		orbit.Zoom = in.Axis(input.KeyEqual, input.KeyMinus)

		if in.MouseCaptured {
			orbit.Look = mgl32.Vec2{float32(in.MouseDeltaX), float32(in.MouseDeltaY)}
		} else {
			orbit.Look = mgl32.Vec2{}
		}

		if in.JustPressed[input.KeyF] {
			if cam := GetComponent[CameraComponent](cmd, eid); cam != nil {
				frameFirstSpotLight(cmd, cam)
			}
		}
		return true
	})
}

func frameFirstSpotLight(cmd *Commands, cam *CameraComponent) {
	sc, ok := Resource[scene.Scene](cmd.App())
	if !ok {
		return
	}
	if lights := sc.Lights(); len(lights) > 0 {
		cam.Target = lights[0].Position()
	}
}

func OrbitCameraControlSystem(cmd *Commands, time *Time) {
	dt := float32(time.Dt.Seconds())
	if dt <= 0 {
		return
	}

	MakeQuery2[CameraComponent, OrbitCameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent, orbit *OrbitCameraComponent) bool {
		orbit.Yaw -= orbit.Look[0] * orbit.Sensitivity
		orbit.Pitch += orbit.Look[1] * orbit.Sensitivity
		orbit.Pitch = mgl32.Clamp(orbit.Pitch, -89, 89)

		orbit.Distance *= float32(math.Pow(2, float64(orbit.Zoom*dt)))
		orbit.Distance = mgl32.Clamp(orbit.Distance, 0.5, 200)

		// pan in the ground plane relative to where the camera looks
		yaw := float64(mgl32.DegToRad(orbit.Yaw))
		forward := mgl32.Vec3{-float32(math.Sin(yaw)), 0, -float32(math.Cos(yaw))}
		right := forward.Cross(mgl32.Vec3{0, 1, 0})
		move := right.Mul(orbit.Pan[0]).
			Add(mgl32.Vec3{0, orbit.Pan[1], 0}).
			Add(forward.Mul(orbit.Pan[2]))
		if move.Len() > 0 {
			cam.Target = cam.Target.Add(move.Normalize().Mul(orbit.Speed * dt))
		}

		cam.Position = cam.Target.Add(orbit.Offset())
		cam.Up = mgl32.Vec3{0, 1, 0}
		return true
	})
}
