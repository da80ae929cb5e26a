package scheduler

import (
	"sync"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
)

// TimerScheduler runs callbacks on wall-clock timers. Each callback runs on
// its own goroutine.
type TimerScheduler struct {
	mu     sync.Mutex
	nextID ports.TimerID
	timers map[ports.TimerID]*time.Timer
}

var _ ports.Scheduler = (*TimerScheduler)(nil)

func New() *TimerScheduler {
	return &TimerScheduler{timers: map[ports.TimerID]*time.Timer{}}
}

func (s *TimerScheduler) ScheduleOnce(delay time.Duration, fn func()) ports.TimerID {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, live := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()

		if live {
			fn()
		}
	})
	return id
}

func (s *TimerScheduler) Cancel(id ports.TimerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Pending reports how many timers have neither fired nor been cancelled.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// StopAll cancels every pending timer.
func (s *TimerScheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
