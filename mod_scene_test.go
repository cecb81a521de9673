package gekko

import (
	"testing"

	"github.com/gekko3d/spotlight/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSceneApp(t *testing.T) (*App, *scene.Scene) {
	t.Helper()
	app := NewAppBuilder().UseModule(SceneModule{}).Build()
	sc, ok := Resource[scene.Scene](app)
	require.True(t, ok)
	return app, sc
}

func TestSceneHierarchy(t *testing.T) {
	app, sc := newSceneApp(t)
	cmd := app.Commands()

	parent := cmd.AddEntity(NewTransformComponent(mgl32.Vec3{10, 0, 0}))
	child := cmd.AddEntity(
		Parent{Entity: parent},
		NewTransformComponent(mgl32.Vec3{0, 5, 0}),
	)
	grandchild := cmd.AddEntity(
		Parent{Entity: child},
		NewTransformComponent(mgl32.Vec3{0, 0, 2}),
	)
	app.FlushCommands()

	SceneHierarchySystem(sc, cmd)

	childPos := WorldTransform(sc, child).Col(3).Vec3()
	grandchildPos := WorldTransform(sc, grandchild).Col(3).Vec3()
	assertVec3(t, mgl32.Vec3{10, 5, 0}, childPos, 1e-5)
	assertVec3(t, mgl32.Vec3{10, 5, 2}, grandchildPos, 1e-5)

	parentNode, _ := sc.LookupEntityNode(uint64(parent))
	childNode, _ := sc.LookupEntityNode(uint64(child))
	assert.Same(t, parentNode, childNode.Parent())
}

func TestSceneHierarchy_RotationAndScale(t *testing.T) {
	app, sc := newSceneApp(t)
	cmd := app.Commands()

	root := cmd.AddEntity(TransformComponent{
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
		Scale:    mgl32.Vec3{2, 2, 2},
	})
	leaf := cmd.AddEntity(Parent{Entity: root}, TransformComponent{Position: mgl32.Vec3{1, 0, 0}})
	app.Step()

	pos := WorldTransform(sc, leaf).Col(3).Vec3()
	assertVec3(t, mgl32.Vec3{0, 0, -2}, pos, 1e-5)
}

func TestSceneHierarchy_Reparent(t *testing.T) {
	app, sc := newSceneApp(t)
	cmd := app.Commands()

	a := cmd.AddEntity(NewTransformComponent(mgl32.Vec3{1, 0, 0}))
	b := cmd.AddEntity(NewTransformComponent(mgl32.Vec3{0, 1, 0}))
	c := cmd.AddEntity(Parent{Entity: a}, NewTransformComponent(mgl32.Vec3{}))
	app.Step()
	assertVec3(t, mgl32.Vec3{1, 0, 0}, WorldTransform(sc, c).Col(3).Vec3(), 1e-5)

	cmd.AddComponents(c, Parent{Entity: b})
	app.FlushCommands()
	app.Step()

	aNode, _ := sc.LookupEntityNode(uint64(a))
	cNode, _ := sc.LookupEntityNode(uint64(c))
	assert.False(t, aNode.HasChild(cNode))
	assertVec3(t, mgl32.Vec3{0, 1, 0}, WorldTransform(sc, c).Col(3).Vec3(), 1e-5)
}

func TestSceneModule_RemovingTransformDropsNode(t *testing.T) {
	app, sc := newSceneApp(t)
	cmd := app.Commands()

	eid := cmd.AddEntity(NewTransformComponent(mgl32.Vec3{3, 0, 0}))
	app.Step()
	_, ok := sc.LookupEntityNode(uint64(eid))
	require.True(t, ok)

	cmd.RemoveEntity(eid)
	app.FlushCommands()
	_, ok = sc.LookupEntityNode(uint64(eid))
	assert.False(t, ok)
	assert.Equal(t, mgl32.Ident4(), WorldTransform(sc, eid))
}

func TestSceneModule_RemovingTransformKeepsNodeWithChildren(t *testing.T) {
	app, sc := newSceneApp(t)
	cmd := app.Commands()

	parent := cmd.AddEntity(NewTransformComponent(mgl32.Vec3{3, 0, 0}))
	child := cmd.AddEntity(Parent{Entity: parent}, NewTransformComponent(mgl32.Vec3{0, 1, 0}))
	app.Step()

	cmd.RemoveComponents(parent, TransformComponent{})
	app.FlushCommands()
	app.Step()

	node, ok := sc.LookupEntityNode(uint64(parent))
	require.True(t, ok)
	assert.Same(t, sc.Root(), node.Parent())
	assertVec3(t, mgl32.Vec3{0, 1, 0}, WorldTransform(sc, child).Col(3).Vec3(), 1e-5)

	cmd.RemoveEntity(parent)
	app.FlushCommands()
	_, ok = sc.LookupEntityNode(uint64(parent))
	assert.False(t, ok)
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, "got %v", got)
}
