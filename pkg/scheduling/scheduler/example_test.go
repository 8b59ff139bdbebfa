package scheduler_test

import (
	"context"
	"fmt"
	"time"

	"github.com/vnykmshr/gobounce/pkg/clock"
	"github.com/vnykmshr/gobounce/pkg/scheduling/scheduler"
)

func ExampleNewCron() {
	v := clock.NewVirtual(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))

	trig, err := scheduler.NewCron("0 9-11 * * *", scheduler.Config{
		Name:      "hourly-report",
		Scheduler: v,
		Fire: func(_ context.Context, at time.Time) error {
			fmt.Println("report at", at.Format("15:04"))
			return nil
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = trig.Start(context.Background())
	v.Advance(4 * time.Hour)
	<-trig.Stop()

	fmt.Println("fired", trig.Fired())

	// Output:
	// report at 09:00
	// report at 10:00
	// report at 11:00
	// fired 3
}

func ExampleNextRuns() {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	runs, _ := scheduler.NextRuns("30 14 * * 1-5", from, 2)
	for _, r := range runs {
		fmt.Println(r.Format("Mon 15:04"))
	}

	// Output:
	// Mon 14:30
	// Tue 14:30
}
