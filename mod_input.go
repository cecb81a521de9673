package gekko

import (
	"github.com/gekko3d/spotlight/input"
)

// InputModule samples Source into an *input.State resource in PreUpdate.
// Escape closes the app.
type InputModule struct {
	Source input.Source
}

type inputSource struct {
	src input.Source
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&input.State{}, &inputSource{src: mod.Source})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(s *inputSource, in *input.State, cmd *Commands) {
	in.Update(s.src)
	if in.JustPressed[input.KeyEscape] {
		cmd.Exit()
	}
}
