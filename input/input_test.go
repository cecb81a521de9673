package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	down     map[Key]bool
	x, y     float64
	captured []bool
}

func (f *fakeSource) KeyDown(k Key) bool              { return f.down[k] }
func (f *fakeSource) CursorPos() (float64, float64)   { return f.x, f.y }
func (f *fakeSource) SetCursorCaptured(captured bool) { f.captured = append(f.captured, captured) }

func TestState_Edges(t *testing.T) {
	src := &fakeSource{down: map[Key]bool{}}
	var s State

	src.down[KeyW] = true
	s.Update(src)
	assert.True(t, s.Pressed[KeyW])
	assert.True(t, s.JustPressed[KeyW])

	s.Update(src)
	assert.True(t, s.Pressed[KeyW])
	assert.False(t, s.JustPressed[KeyW])

	src.down[KeyW] = false
	s.Update(src)
	assert.False(t, s.Pressed[KeyW])
	assert.True(t, s.JustReleased[KeyW])

	s.Update(src)
	assert.False(t, s.JustReleased[KeyW])
}

func TestState_MouseDelta(t *testing.T) {
	src := &fakeSource{x: 100, y: 50}
	var s State

	s.Update(src)
	assert.Zero(t, s.MouseDeltaX)
	assert.Zero(t, s.MouseDeltaY)

	src.x, src.y = 110, 40
	s.Update(src)
	assert.Equal(t, 10.0, s.MouseDeltaX)
	assert.Equal(t, -10.0, s.MouseDeltaY)
}

func TestState_CaptureChangesOnlyOnToggle(t *testing.T) {
	src := &fakeSource{}
	var s State

	s.Update(src)
	s.MouseCaptured = true
	s.Update(src)
	s.Update(src)
	s.MouseCaptured = false
	s.Update(src)

	assert.Equal(t, []bool{true, false}, src.captured)
}

func TestState_Axis(t *testing.T) {
	var s State
	assert.Zero(t, s.Axis(KeyA, KeyD))

	s.Pressed[KeyD] = true
	assert.Equal(t, float32(1), s.Axis(KeyA, KeyD))

	s.Pressed[KeyA] = true
	assert.Zero(t, s.Axis(KeyA, KeyD))

	s.Pressed[KeyD] = false
	assert.Equal(t, float32(-1), s.Axis(KeyA, KeyD))
	assert.Len(t, Keys(), int(keyCount))
}
