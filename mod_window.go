package gekko

import (
	"fmt"
	"time"

	"github.com/gekko3d/spotlight/scene"
)

// Window is the platform window driving the frame loop.
type Window interface {
	PollEvents()
	ShouldClose() bool
	FramebufferSize() (int, int)
}

// Titled windows get a status line with the light count and frame time.
type Titled interface {
	SetTitle(title string)
}

// Resizer is implemented by devices whose surface follows the window size.
type Resizer interface {
	Resize(width, height int) error
}

const titleRefresh = 500 * time.Millisecond

type windowState struct {
	window    Window
	title     string
	titleNext time.Duration
}

// WindowModule pumps window events in Prelude, exits the app when the window
// is closed and keeps RenderContext sized to the framebuffer. Install after
// RenderModule. A Titled window also needs SceneModule and TimeModule.
type WindowModule struct {
	Window Window
	Title  string
}

func (m WindowModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&windowState{window: m.Window, title: m.Title})
	app.UseSystem(System(windowEventsSystem).InStage(Prelude))
	if _, ok := m.Window.(Titled); ok {
		app.UseSystem(System(windowTitleSystem).InStage(Finale))
	}
}

func windowEventsSystem(ws *windowState, rc *RenderContext, cmd *Commands) {
	ws.window.PollEvents()
	if ws.window.ShouldClose() {
		cmd.Exit()
		return
	}

	w, h := ws.window.FramebufferSize()
	if w == rc.Width && h == rc.Height {
		return
	}
	if r, ok := rc.Device.(Resizer); ok {
		if err := r.Resize(w, h); err != nil {
			cmd.App().Logger().Warnf("resize to %dx%d: %v", w, h, err)
			return
		}
	}
	cmd.App().Logger().Debugf("framebuffer resized to %dx%d", w, h)
	rc.Width, rc.Height = w, h
}

func windowTitleSystem(ws *windowState, t *Time, sc *scene.Scene) {
	if t.Elapsed < ws.titleNext {
		return
	}
	ws.titleNext = t.Elapsed + titleRefresh

	ms := float64(t.Dt) / float64(time.Millisecond)
	ws.window.(Titled).SetTitle(fmt.Sprintf("%s | %d spot lights | %.1f ms", ws.title, len(sc.Lights()), ms))
}
