// Package input tracks keyboard and mouse state sampled once per frame from a
// platform Source.
package input

type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyF
	KeyG
	KeySpace
	KeyEscape
	KeyTab
	KeyMinus
	KeyEqual
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	keyCount
)

// Keys lists every tracked key and mouse button.
func Keys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Source is the platform side: a window that can be asked for the current
// key and cursor state.
type Source interface {
	KeyDown(k Key) bool
	CursorPos() (x, y float64)
	SetCursorCaptured(captured bool)
}

type State struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseCaptured            bool

	sampled  bool
	captured bool
}

// Update samples src and derives the per-frame edges and mouse delta. The
// first sample reports no mouse motion.
func (s *State) Update(src Source) {
	for _, k := range Keys() {
		down := src.KeyDown(k)
		s.JustPressed[k] = down && !s.Pressed[k]
		s.JustReleased[k] = !down && s.Pressed[k]
		s.Pressed[k] = down
	}

	mx, my := src.CursorPos()
	if s.sampled {
		s.MouseDeltaX = mx - s.MouseX
		s.MouseDeltaY = my - s.MouseY
	}
	s.MouseX, s.MouseY = mx, my
	s.sampled = true

	if s.MouseCaptured != s.captured {
		src.SetCursorCaptured(s.MouseCaptured)
		s.captured = s.MouseCaptured
	}
}

func (s *State) Down(k Key) bool { return s.Pressed[k] }

// Axis returns +1 while pos is held, -1 while neg is held, 0 for both or neither.
func (s *State) Axis(neg, pos Key) float32 {
	var v float32
	if s.Pressed[pos] {
		v++
	}
	if s.Pressed[neg] {
		v--
	}
	return v
}
