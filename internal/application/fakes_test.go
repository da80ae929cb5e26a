package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
	"github.com/stretchr/testify/mock"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(start time.Time) *manualClock {
	return &manualClock{now: start}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.After(c.now) {
		c.now = t
	}
}

type scheduledTask struct {
	id  ports.TimerID
	due time.Time
	fn  func()
}

// manualScheduler fires callbacks only when Advance moves its clock past them.
type manualScheduler struct {
	mu     sync.Mutex
	clock  *manualClock
	nextID ports.TimerID
	tasks  map[ports.TimerID]scheduledTask
	delays []time.Duration
}

var _ ports.Scheduler = (*manualScheduler)(nil)

func newManualScheduler(clock *manualClock) *manualScheduler {
	return &manualScheduler{clock: clock, tasks: map[ports.TimerID]scheduledTask{}}
}

func (s *manualScheduler) ScheduleOnce(delay time.Duration, fn func()) ports.TimerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.tasks[s.nextID] = scheduledTask{id: s.nextID, due: s.clock.Now().Add(delay), fn: fn}
	s.delays = append(s.delays, delay)
	return s.nextID
}

func (s *manualScheduler) Cancel(id ports.TimerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, id)
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// warningDelays returns every requested delay except countdown ticks.
func (s *manualScheduler) warningDelays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	delays := make([]time.Duration, 0, len(s.delays))
	for _, d := range s.delays {
		if d != countdownTick {
			delays = append(delays, d)
		}
	}
	return delays
}

func (s *manualScheduler) Advance(d time.Duration) {
	target := s.clock.Now().Add(d)
	for {
		task, ok := s.popDue(target)
		if !ok {
			break
		}
		s.clock.set(task.due)
		task.fn()
	}
	s.clock.set(target)
}

func (s *manualScheduler) popDue(target time.Time) (scheduledTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]scheduledTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		if !task.due.After(target) {
			due = append(due, task)
		}
	}
	if len(due) == 0 {
		return scheduledTask{}, false
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	delete(s.tasks, due[0].id)
	return due[0], true
}

type recordingPrompt struct {
	mu      sync.Mutex
	shows   []int
	updates []int
	hides   int
}

func (p *recordingPrompt) Show(secondsLeft int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shows = append(p.shows, secondsLeft)
}

func (p *recordingPrompt) Update(secondsLeft int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, secondsLeft)
}

func (p *recordingPrompt) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hides++
}

func (p *recordingPrompt) snapshot() (shows []int, updates []int, hides int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.shows...), append([]int(nil), p.updates...), p.hides
}

// idleSessionServer behaves like the portal: a session dies idle after the
// last TTL query or keep-alive, and both calls refresh it.
type idleSessionServer struct {
	mu        sync.Mutex
	clock     *manualClock
	idle      time.Duration
	lastTouch time.Time
	calls     int
}

func newIdleSessionServer(clock *manualClock, idle time.Duration) *idleSessionServer {
	return &idleSessionServer{clock: clock, idle: idle, lastTouch: clock.Now()}
}

func (s *idleSessionServer) RemainingTTL(context.Context, domain.SessionHandle) (domain.TTL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	now := s.clock.Now()
	if !now.Before(s.lastTouch.Add(s.idle)) {
		return domain.TTL{}, nil
	}
	s.lastTouch = now
	return domain.TTL{Remaining: s.idle}, nil
}

func (s *idleSessionServer) Extend(context.Context, domain.SessionHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !now.Before(s.lastTouch.Add(s.idle)) {
		return domain.ErrUnauthorized
	}
	s.lastTouch = now
	return nil
}

func (s *idleSessionServer) queries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *idleSessionServer) expiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTouch.Add(s.idle)
}

// timedPrompt remembers when the prompt first appeared.
type timedPrompt struct {
	mu      sync.Mutex
	clock   *manualClock
	shown   time.Time
	visible bool
}

func (p *timedPrompt) Show(int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shown.IsZero() {
		p.shown = p.clock.Now()
	}
	p.visible = true
}

func (p *timedPrompt) Update(int) {}

func (p *timedPrompt) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
}

func (p *timedPrompt) shownAt() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown, !p.shown.IsZero()
}

func mockAnyContext() interface{} {
	return mock.Anything
}
