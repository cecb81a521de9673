package scene

import (
	"errors"
	"testing"

	"github.com/gekko3d/spotlight/gfx"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_AddChildReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")

	a.AddChild(c)
	b.AddChild(c)

	assert.False(t, a.HasChild(c))
	assert.True(t, b.HasChild(c))
	assert.Same(t, b, c.Parent())
	assert.NotEqual(t, a.ID(), b.ID())

	assert.True(t, b.RemoveChild(c))
	assert.False(t, b.RemoveChild(c))
	assert.Nil(t, c.Parent())
}

func TestNode_UpdateWorld(t *testing.T) {
	parent := NewNode("parent")
	parent.Local.Position = mgl32.Vec3{10, 0, 0}
	child := NewNode("child")
	child.Local.Position = mgl32.Vec3{0, 5, 0}
	parent.AddChild(child)

	parent.UpdateWorld(mgl32.Ident4())

	pos := child.WorldTransform().Col(3).Vec3()
	assert.InDelta(t, 10, pos.X(), 1e-5)
	assert.InDelta(t, 5, pos.Y(), 1e-5)
}

func TestLightNode_Defaults(t *testing.T) {
	l := NewLightNode(LightTypeSpot)
	assert.Equal(t, LightTypeSpot, l.Type())
	assert.True(t, l.Enabled())
	assert.Equal(t, float32(45), l.OuterConeAngle())
	assert.Equal(t, "spot-light", l.Name())

	l.SetEnabled(false)
	l.SetColor([3]float32{1, 0.5, 0})
	assert.False(t, l.Enabled())
	assert.Equal(t, [3]float32{1, 0.5, 0}, l.Color())
}

func TestLightNode_DirectionFollowsRotation(t *testing.T) {
	l := NewLightNode(LightTypeSpot)
	assert.InDelta(t, -1, l.Direction().Y(), 1e-6)

	l.Local.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	l.UpdateWorld(mgl32.Ident4())
	assert.InDelta(t, 1, l.Direction().X(), 1e-5)
}

func TestScene_LightRegistry(t *testing.T) {
	s := New()
	a := NewLightNode(LightTypeSpot)
	b := NewLightNode(LightTypeSpot)

	assert.True(t, s.AddLight(a))
	assert.False(t, s.AddLight(a))
	assert.True(t, s.AddLight(b))
	assert.Len(t, s.Lights(), 2)

	b.SetEnabled(false)
	assert.Equal(t, []*LightNode{a}, s.EnabledLights())

	assert.True(t, s.RemoveLight(a))
	assert.False(t, s.RemoveLight(a))
	assert.False(t, s.HasLight(a))
	assert.True(t, s.HasLight(b))
}

func TestScene_EntityNodes(t *testing.T) {
	s := New()
	n := s.EntityNode(7)
	assert.Same(t, n, s.EntityNode(7))
	assert.True(t, s.Root().HasChild(n))

	s.RemoveEntityNode(7)
	_, ok := s.LookupEntityNode(7)
	assert.False(t, ok)
	assert.False(t, s.Root().HasChild(n))
}

func TestScene_DispatchDrainsQueue(t *testing.T) {
	s := New()
	dev := gfx.NewRecordingDevice()

	var seen []DrawCommand
	s.RegisterRenderer("probe", RendererFunc(func(_ gfx.Device, cmd DrawCommand) error {
		seen = append(seen, cmd)
		return nil
	}))
	failing := errors.New("boom")
	s.RegisterRenderer("broken", RendererFunc(func(gfx.Device, DrawCommand) error { return failing }))

	s.Enqueue(QueueOpaque, DrawCommand{Kind: "probe", Params: [4]float32{1}})
	s.Enqueue(QueueOpaque, DrawCommand{Kind: "broken"})
	s.Enqueue(QueueOpaque, DrawCommand{Kind: "missing"})
	s.Enqueue(QueueOpaque, DrawCommand{Kind: "probe", Params: [4]float32{2}})

	err := s.Dispatch(QueueOpaque, dev)
	require.Error(t, err)
	assert.ErrorIs(t, err, failing)
	assert.ErrorIs(t, err, ErrNoRenderer)

	require.Len(t, seen, 2)
	assert.Equal(t, float32(2), seen[1].Params[0])
	assert.Empty(t, s.Queue(QueueOpaque))

	assert.NoError(t, s.Dispatch(QueueOpaque, dev))
}
