package timewheel

import (
	"time"
)

// tw is the process-wide wheel every client actor's caller-side timeout
// shares. A one-second tick and 60 slots gives one-second resolution
// over a one-minute revolution, comfortably finer than DefaultTimeout.
var tw = NewTimeWheel(1*time.Second, 60)

func init() {
	tw.Start()
}

// ScheduleDelayed runs job after delay unless Cancel(key) fires first.
func ScheduleDelayed(delay time.Duration, key string, job func()) {
	tw.schedule(delay, key, job)
}

// ScheduleAt runs job at the given wall-clock time.
func ScheduleAt(at time.Time, key string, job func()) {
	delay := time.Until(at)
	tw.schedule(delay, key, job)
}

// Cancel removes a still-pending task by key. A no-op if the key already
// fired or was never scheduled.
func Cancel(key string) {
	tw.removeTaskChan <- key
}
