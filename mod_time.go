package remotegl

import (
	"time"
)

// Time is the engine clock, advanced once per tick.
type Time struct {
	Time  time.Time
	Dt    time.Duration
	Frame uint64
	// Budget is the tick length the pacer aims for; zero disables pacing.
	Budget time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// Elapsed is the time since the tick started.
func (t *Time) Elapsed() time.Duration {
	return t.now().Sub(t.Time)
}

// TimeModule installs the clock. With TargetFPS set, a Finale system sleeps
// away what is left of each tick's budget.
type TimeModule struct {
	TargetFPS int
	// Now and Sleep replace the wall clock in tests.
	Now   func() time.Time
	Sleep func(time.Duration)
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := &Time{now: mod.Now, sleep: mod.Sleep}
	if clock.now == nil {
		clock.now = time.Now
	}
	if clock.sleep == nil {
		clock.sleep = time.Sleep
	}
	if mod.TargetFPS > 0 {
		clock.Budget = time.Second / time.Duration(mod.TargetFPS)
	}
	clock.Time = clock.now()
	cmd.AddResources(clock)

	app.UseSystem(System(timeSystem).InStage(Prelude).RunAlways())
	if clock.Budget > 0 {
		app.UseSystem(System(paceSystem).InStage(Finale).RunAlways())
	}
}

func timeSystem(clock *Time) {
	now := clock.now()

	clock.Dt = now.Sub(clock.Time)
	clock.Time = now
	clock.Frame++
}

func paceSystem(clock *Time) {
	if left := clock.Budget - clock.Elapsed(); left > 0 {
		clock.sleep(left)
	}
}
