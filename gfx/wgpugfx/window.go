package wgpugfx

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/spotlight/input"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window without a client API, ready to host a WebGPU
// surface. All methods must be called from the thread that opened it.
type Window struct {
	window *glfw.Window
	title  string
}

func OpenWindow(width, height int, title string) (*Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	return &Window{window: win, title: title}, nil
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.window)
}

func (w *Window) PollEvents() { glfw.PollEvents() }

func (w *Window) ShouldClose() bool { return w.window.ShouldClose() }

// FramebufferSize is in pixels, which differs from the window size on
// high-DPI displays.
func (w *Window) FramebufferSize() (int, int) { return w.window.GetFramebufferSize() }

func (w *Window) SetTitle(title string) {
	w.title = title
	w.window.SetTitle(title)
}

var glfwKeys = map[input.Key]glfw.Key{
	input.KeyW:       glfw.KeyW,
	input.KeyA:       glfw.KeyA,
	input.KeyS:       glfw.KeyS,
	input.KeyD:       glfw.KeyD,
	input.KeyQ:       glfw.KeyQ,
	input.KeyE:       glfw.KeyE,
	input.KeyF:       glfw.KeyF,
	input.KeyG:       glfw.KeyG,
	input.KeySpace:   glfw.KeySpace,
	input.KeyEscape:  glfw.KeyEscape,
	input.KeyTab:     glfw.KeyTab,
	input.KeyMinus:   glfw.KeyMinus,
	input.KeyEqual:   glfw.KeyEqual,
	input.KeyShift:   glfw.KeyLeftShift,
	input.KeyControl: glfw.KeyLeftControl,
}

var glfwButtons = map[input.Key]glfw.MouseButton{
	input.MouseButtonLeft:   glfw.MouseButtonLeft,
	input.MouseButtonRight:  glfw.MouseButtonRight,
	input.MouseButtonMiddle: glfw.MouseButtonMiddle,
}

func (w *Window) KeyDown(k input.Key) bool {
	if key, ok := glfwKeys[k]; ok {
		return w.window.GetKey(key) == glfw.Press
	}
	if btn, ok := glfwButtons[k]; ok {
		return w.window.GetMouseButton(btn) == glfw.Press
	}
	return false
}

func (w *Window) CursorPos() (float64, float64) { return w.window.GetCursorPos() }

func (w *Window) SetCursorCaptured(captured bool) {
	if captured {
		w.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		w.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

func (w *Window) Close() {
	w.window.Destroy()
	glfw.Terminate()
}
