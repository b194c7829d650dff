package room

import "time"

// Task is a pending delayed action. Stop reports whether it prevented the call.
type Task interface {
	Stop() bool
}

// Scheduler runs f once after d. Rooms own the returned tasks and stop them
// when they are destroyed or reset.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}
