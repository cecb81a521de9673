package gekko

import (
	"time"
)

// Time is the frame clock, advanced once per Step in Prelude.
type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration

	now func() time.Time
}

// TimeModule installs the Time resource. Now defaults to time.Now.
type TimeModule struct {
	Now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	cmd.AddResources(&Time{
		Time: now(),
		now:  now,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	now := timeResource.now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Elapsed += timeResource.Dt
	timeResource.Time = now
}
