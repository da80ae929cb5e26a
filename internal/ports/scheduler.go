package ports

import "time"

type TimerID uint64

// Scheduler runs one-shot callbacks after a delay. Cancel on an unknown or
// already fired id is a no-op.
type Scheduler interface {
	ScheduleOnce(delay time.Duration, fn func()) TimerID
	Cancel(id TimerID)
}
