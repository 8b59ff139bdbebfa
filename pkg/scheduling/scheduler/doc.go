/*
Package scheduler provides cron and interval triggers built on a Runner.

A Trigger calls a fire function at every activation of a schedule:

	stats, err := scheduler.NewCron("@every 10s", scheduler.Config{
		Name: "stats",
		Fire: func(ctx context.Context, at time.Time) error {
			return report(at)
		},
	})
	if err != nil {
		return err
	}
	if err := stats.Start(ctx); err != nil {
		return err
	}
	defer func() { <-stats.Stop() }()

Schedules:

NewCron accepts standard 5-field cron expressions, 6-field expressions with a
leading seconds field, and descriptors such as "@hourly" or "@every 1m".
NewInterval fires at a fixed interval that is not rounded to seconds. New
accepts any cron.Schedule.

Activations:

Each activation is a single Runner run that computes the next activation from
the scheduler's current time and arms it before returning, so a slow fire
function delays the following activation instead of overlapping with it.
Errors and panics from the fire function go to Config.OnError and the
trigger keeps running. Config.MaxRuns bounds the number of activations.

Triggers take a clock.Scheduler, so tests drive them with clock.Virtual:

	v := clock.NewVirtual(time.Time{})
	trig, _ := scheduler.NewInterval(time.Minute, scheduler.Config{Fire: fire, Scheduler: v})
	trig.Start(ctx)
	v.Advance(time.Hour) // 60 activations
*/
package scheduler
