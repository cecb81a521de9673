package gekko

import (
	"github.com/gekko3d/spotlight/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is the entity pose relative to its Parent, or to the
// world for root entities. A zero Scale or Rotation reads as identity.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransformComponent(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t TransformComponent) local() scene.Transform {
	out := scene.Transform{Position: t.Position, Rotation: t.Rotation, Scale: t.Scale}
	if out.Rotation == (mgl32.Quat{}) {
		out.Rotation = mgl32.QuatIdent()
	}
	if out.Scale == (mgl32.Vec3{}) {
		out.Scale = mgl32.Vec3{1, 1, 1}
	}
	return out
}

type Parent struct {
	Entity EntityId
}

// SceneModule owns the scene graph. Every entity with a TransformComponent is
// mirrored by a scene node whose world matrix is refreshed in PostUpdate.
type SceneModule struct{}

func (SceneModule) Install(app *App, cmd *Commands) {
	sc := scene.New()
	cmd.AddResources(sc)

	OnRemove(app, func(cmd *Commands, eid EntityId, _ TransformComponent) {
		releaseEntityNode(sc, eid)
	})
	app.OnDespawn(func(cmd *Commands, eid EntityId) {
		sc.RemoveEntityNode(uint64(eid))
	})

	app.UseSystem(
		System(SceneHierarchySystem).
			InStage(PostUpdate),
	)
}

// releaseEntityNode drops the node of an entity losing its transform. A node
// still holding children stays in the graph at the world origin until the
// entity despawns.
func releaseEntityNode(sc *scene.Scene, eid EntityId) {
	node, ok := sc.LookupEntityNode(uint64(eid))
	if !ok {
		return
	}
	if len(node.Children()) == 0 {
		sc.RemoveEntityNode(uint64(eid))
		return
	}
	node.Local = scene.IdentityTransform()
	if node.Parent() != sc.Root() {
		sc.Root().AddChild(node)
	}
	node.UpdateWorld(sc.Root().WorldTransform())
}

func SceneHierarchySystem(sc *scene.Scene, cmd *Commands) {
	MakeQuery1[TransformComponent](cmd).Map(func(eid EntityId, tr *TransformComponent) bool {
		node := sc.EntityNode(uint64(eid))
		node.Local = tr.local()

		parentNode := sc.Root()
		if p := GetComponent[Parent](cmd, eid); p != nil {
			parentNode = sc.EntityNode(uint64(p.Entity))
		}
		if node.Parent() != parentNode {
			parentNode.AddChild(node)
		}
		return true
	})
	sc.UpdateWorldTransforms()
}

// WorldTransform returns the entity's last synchronized world matrix.
func WorldTransform(sc *scene.Scene, eid EntityId) mgl32.Mat4 {
	if n, ok := sc.LookupEntityNode(uint64(eid)); ok {
		return n.WorldTransform()
	}
	return mgl32.Ident4()
}
