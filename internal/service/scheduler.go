package service

import "time"

// Timer is a scheduled single-shot callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Scheduler schedules a callback to run once after a delay without blocking the caller.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// TimeScheduler schedules callbacks on the runtime timer.
type TimeScheduler struct{}

// AfterFunc runs f in its own goroutine after d.
func (TimeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
