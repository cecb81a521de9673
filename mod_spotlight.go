package gekko

import (
	"fmt"

	"github.com/gekko3d/spotlight/scene"
)

// SpotLightModule wires SpotLightComponent into the app. It needs SceneModule
// installed first, and RenderModule as well when Tools is set.
type SpotLightModule struct {
	// Tools draws a wireframe cone for every spot light.
	Tools bool
}

func (m SpotLightModule) Install(app *App, cmd *Commands) {
	sc, ok := Resource[scene.Scene](app)
	if !ok {
		panic("SpotLightModule requires SceneModule")
	}

	sys := NewSpotLightSystem(sc, app.Logger())
	cmd.AddResources(sys)

	OnAdd(app, sys.initializeComponentData)
	OnRemove(app, sys.onRemove)

	if !m.Tools {
		return
	}
	rc, ok := Resource[RenderContext](app)
	if !ok {
		panic("SpotLightModule with Tools requires RenderModule")
	}
	if err := sys.EnableGizmos(rc.Device); err != nil {
		panic(fmt.Sprintf("spot light gizmos: %v", err))
	}
	app.UseStage(ToolsUpdate, AfterStage(PostUpdate))
	app.UseSystem(System(SpotLightToolsSystem).InStage(ToolsUpdate))
}
