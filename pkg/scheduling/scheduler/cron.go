package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vnykmshr/gobounce/pkg/common/errors"
	"github.com/vnykmshr/gobounce/pkg/common/validation"
)

// Cron expressions accept an optional seconds field, so both
// "minute hour day month weekday" and "second minute hour day month weekday"
// are valid, plus descriptors such as "@hourly" and "@every 10s".
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// NewCron creates a trigger that fires at the activations of a cron
// expression. Examples:
//
//	"0 */2 * * *"     - Every 2 hours
//	"30 14 * * 1-5"   - 2:30 PM on weekdays
//	"*/5 * * * * *"   - Every 5 seconds
//	"@every 1m"       - Every minute after Start
func NewCron(expr string, config Config) (*Trigger, error) {
	schedule, err := parse(expr)
	if err != nil {
		return nil, err
	}
	return New(schedule, config)
}

// NewInterval creates a trigger that fires every interval after Start.
// Unlike "@every", the interval is not rounded to whole seconds.
func NewInterval(interval time.Duration, config Config) (*Trigger, error) {
	if err := validation.ValidatePositiveDuration("scheduler", "interval", interval); err != nil {
		return nil, err
	}
	return New(intervalSchedule(interval), config)
}

type intervalSchedule time.Duration

func (s intervalSchedule) Next(t time.Time) time.Time {
	return t.Add(time.Duration(s))
}

func parse(expr string) (cron.Schedule, error) {
	if err := validation.ValidateNotEmpty("scheduler", "expr", expr); err != nil {
		return nil, err
	}
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, errors.NewValidationError("scheduler", "expr", expr, err.Error()).
			WithHint("use 5 or 6 cron fields or a descriptor such as @every 10s")
	}
	return schedule, nil
}

// ValidateCron validates a cron expression without creating a trigger.
func ValidateCron(expr string) error {
	_, err := parse(expr)
	return err
}

// NextRuns returns the next n activations of expr after from.
func NextRuns(expr string, from time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive, got %d", n)
	}
	schedule, err := parse(expr)
	if err != nil {
		return nil, err
	}

	runs := make([]time.Time, 0, n)
	current := from
	for i := 0; i < n; i++ {
		current = schedule.Next(current)
		if current.IsZero() {
			break
		}
		runs = append(runs, current)
	}
	return runs, nil
}
