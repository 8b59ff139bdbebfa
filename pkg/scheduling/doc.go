/*
Package scheduling provides time-based activation for gobounce applications.

  - scheduler: Cron-like and interval triggers driven by a Runner

Task Scheduler:

The scheduler fires a function at every activation of a schedule:

	t, err := scheduler.NewCron("@every 30s", scheduler.Config{
		Name: "report",
		Fire: func(ctx context.Context, at time.Time) error {
			return report(ctx, at)
		},
	})
	if err != nil {
		return err
	}
	if err := t.Start(ctx); err != nil {
		return err
	}
	defer func() { <-t.Stop() }()

Activations never overlap: the next one is armed only after the current
one returns.
*/
package scheduling
