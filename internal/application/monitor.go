package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
	"golang.org/x/time/rate"
)

var (
	ErrMonitorStarted   = errors.New("session monitor already started")
	ErrMonitorLoggedOut = errors.New("session monitor already logged out")
)

const countdownTick = time.Second

type MonitorConfig struct {
	// DefaultTimeout is the inactivity budget assumed when the TTL service cannot be reached.
	DefaultTimeout time.Duration
	// WarningWindow is how long before expiry the countdown prompt appears.
	WarningWindow time.Duration
	// RequestTimeout bounds each TTL and keep-alive call.
	RequestTimeout time.Duration
	// ActivityRefreshInterval bounds how often user activity triggers a TTL round-trip.
	// Zero or less refreshes on every signal.
	ActivityRefreshInterval time.Duration
}

func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		DefaultTimeout:          1800 * time.Second,
		WarningWindow:           60 * time.Second,
		RequestTimeout:          5 * time.Second,
		ActivityRefreshInterval: 10 * time.Second,
	}
}

func (c MonitorConfig) withDefaults() MonitorConfig {
	defaults := DefaultMonitorConfig()
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = defaults.DefaultTimeout
	}
	if c.WarningWindow <= 0 {
		c.WarningWindow = defaults.WarningWindow
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
	return c
}

type MonitorDeps struct {
	Handle    domain.SessionHandle
	TTL       ports.TTLService
	KeepAlive ports.KeepAliveService
	Scheduler ports.Scheduler
	Navigator ports.Navigator
	Prompt    ports.WarningPrompt
	Clock     ports.Clock
	Logger    ports.Logger
}

// Monitor watches user activity against the server-side session lifetime,
// warns before expiry and logs the user out when the session is gone.
//
// At most one warning timer is pending and at most one prompt is visible at
// any time. Once logged out the monitor ignores every further call.
type Monitor struct {
	cfg       MonitorConfig
	handle    domain.SessionHandle
	ttl       ports.TTLService
	keepAlive ports.KeepAliveService
	scheduler ports.Scheduler
	navigator ports.Navigator
	prompt    ports.WarningPrompt
	clock     ports.Clock
	logger    ports.Logger
	refresh   *rate.Limiter

	pingInProgress atomic.Bool

	mu              sync.Mutex
	ctx             context.Context
	state           domain.MonitorState
	lastActivity    time.Time
	timeoutDuration time.Duration
	logoutReason    domain.LogoutReason

	warningTimer  ports.TimerID
	warningArmed  bool
	warningSeq    uint64
	armedActivity time.Time

	refreshTimer ports.TimerID
	refreshArmed bool

	promptVisible  bool
	countdown      int
	countdownTimer ports.TimerID
	countdownArmed bool
	promptSeq      uint64
}

func NewMonitor(deps MonitorDeps, cfg MonitorConfig) (*Monitor, error) {
	if deps.TTL == nil {
		return nil, errors.New("ttl service is required")
	}
	if deps.KeepAlive == nil {
		return nil, errors.New("keep-alive service is required")
	}
	if deps.Scheduler == nil {
		return nil, errors.New("scheduler is required")
	}
	if deps.Navigator == nil {
		return nil, errors.New("navigator is required")
	}
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Prompt == nil {
		deps.Prompt = noopPrompt{}
	}
	if deps.Logger == nil {
		deps.Logger = nopLogger{}
	}

	cfg = cfg.withDefaults()
	if cfg.WarningWindow >= cfg.DefaultTimeout {
		return nil, fmt.Errorf("warning window %s must be shorter than default timeout %s", cfg.WarningWindow, cfg.DefaultTimeout)
	}

	limit := rate.Inf
	if cfg.ActivityRefreshInterval > 0 {
		limit = rate.Every(cfg.ActivityRefreshInterval)
	}

	return &Monitor{
		cfg:             cfg,
		handle:          deps.Handle,
		ttl:             deps.TTL,
		keepAlive:       deps.KeepAlive,
		scheduler:       deps.Scheduler,
		navigator:       deps.Navigator,
		prompt:          deps.Prompt,
		clock:           deps.Clock,
		logger:          deps.Logger,
		refresh:         rate.NewLimiter(limit, 1),
		state:           domain.MonitorIdle,
		timeoutDuration: cfg.DefaultTimeout,
	}, nil
}

// Start begins monitoring. ctx is kept for timer driven work and should
// live as long as the monitor.
func (m *Monitor) Start(ctx context.Context) error {
	now := m.clock.Now()

	m.mu.Lock()
	if m.ctx != nil {
		m.mu.Unlock()
		return ErrMonitorStarted
	}
	m.ctx = ctx
	m.lastActivity = now
	m.mu.Unlock()

	m.refresh.AllowN(now, 1)
	m.ScheduleWarning(ctx)
	return nil
}

// Stop cancels pending timers without logging out.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelWarningLocked()
	m.cancelCountdownLocked()
	m.cancelRefreshLocked()
}

// RecordActivity notes user activity. The TTL is re-fetched at most once
// per ActivityRefreshInterval; while the prompt is visible only the clock
// moves, so a warned user has to choose explicitly.
func (m *Monitor) RecordActivity(ctx context.Context, signal domain.ActivitySignal) {
	now := m.clock.Now()

	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut {
		m.mu.Unlock()
		return
	}
	m.lastActivity = now
	warned := m.promptVisible
	m.mu.Unlock()

	if warned {
		return
	}
	if !m.refresh.AllowN(now, 1) {
		m.deferRefresh(now)
		return
	}

	m.logger.Debugf("activity %s, rescheduling session warning", signal.Kind)
	m.ScheduleWarning(ctx)
}

// deferRefresh reports throttled activity to the server once the refresh
// limiter allows it again. At most one deferred refresh is pending.
func (m *Monitor) deferRefresh(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.refreshArmed || m.state == domain.MonitorLoggedOut {
		return
	}
	reservation := m.refresh.ReserveN(now, 1)
	if !reservation.OK() {
		return
	}

	m.refreshTimer = m.scheduler.ScheduleOnce(reservation.DelayFrom(now), m.onRefreshTimer)
	m.refreshArmed = true
}

func (m *Monitor) onRefreshTimer() {
	m.mu.Lock()
	if !m.refreshArmed {
		m.mu.Unlock()
		return
	}
	m.refreshArmed = false
	if m.state == domain.MonitorLoggedOut || m.promptVisible {
		m.mu.Unlock()
		return
	}
	ctx := m.baseContextLocked()
	m.mu.Unlock()

	m.logger.Debugf("reporting throttled activity")
	m.ScheduleWarning(ctx)
}

// ScheduleWarning cancels the pending warning, asks the server how long the
// session has left and arms a new warning timer from the answer.
func (m *Monitor) ScheduleWarning(ctx context.Context) {
	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut {
		m.mu.Unlock()
		return
	}
	m.cancelWarningLocked()
	m.mu.Unlock()

	timeout, fresh, expired := m.fetchTimeout(ctx)
	if expired {
		_ = m.forceLogout(ctx, domain.LogoutSessionExpired)
		return
	}

	m.arm(timeout, fresh)
}

// KeepAlive asks the server to extend the session. A call made while
// another keep-alive is in flight returns KeepAliveSuppressed without
// touching the network.
func (m *Monitor) KeepAlive(ctx context.Context) (domain.KeepAliveOutcome, error) {
	m.mu.Lock()
	loggedOut := m.state == domain.MonitorLoggedOut
	m.mu.Unlock()
	if loggedOut {
		return domain.KeepAliveUnauthorized, ErrMonitorLoggedOut
	}

	if !m.pingInProgress.CompareAndSwap(false, true) {
		m.logger.Debugf("keep-alive already in flight, ignoring")
		return domain.KeepAliveSuppressed, nil
	}

	reqCtx, cancel := m.requestContext(ctx)
	err := m.keepAlive.Extend(reqCtx, m.handle)
	cancel()
	m.pingInProgress.Store(false)

	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			_ = m.forceLogout(ctx, domain.LogoutKeepAliveRejected)
			return domain.KeepAliveUnauthorized, err
		}
		m.logger.Warnf("keep-alive failed, prompt stays open: %v", err)
		return domain.KeepAliveFailed, fmt.Errorf("keep session alive: %w", err)
	}

	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut {
		m.mu.Unlock()
		return domain.KeepAliveUnauthorized, ErrMonitorLoggedOut
	}
	wasVisible := m.hidePromptLocked()
	m.lastActivity = m.clock.Now()
	m.state = domain.MonitorIdle
	m.mu.Unlock()

	if wasVisible {
		m.prompt.Hide()
	}
	m.logger.Infof("session extended")

	m.ScheduleWarning(ctx)
	return domain.KeepAliveExtended, nil
}

// Logout ends the session at the user's request.
func (m *Monitor) Logout(ctx context.Context) error {
	return m.forceLogout(ctx, domain.LogoutUserRequested)
}

func (m *Monitor) Snapshot() domain.MonitorSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return domain.MonitorSnapshot{
		State:           m.state,
		LastActivity:    m.lastActivity,
		TimeoutDuration: m.timeoutDuration,
		PromptVisible:   m.promptVisible,
		Countdown:       m.countdown,
		PendingTimer:    m.warningArmed,
		LogoutReason:    m.logoutReason,
	}
}

// fetchTimeout returns the session timeout, whether it came from the server
// and whether the server reported the session expired.
func (m *Monitor) fetchTimeout(ctx context.Context) (timeout time.Duration, fresh bool, expired bool) {
	reqCtx, cancel := m.requestContext(ctx)
	defer cancel()

	ttl, err := m.ttl.RemainingTTL(reqCtx, m.handle)
	if err != nil {
		m.logger.Warnf("session ttl unavailable, assuming %s from last activity: %v", m.cfg.DefaultTimeout, err)
		return m.cfg.DefaultTimeout, false, false
	}
	if ttl.Expired() {
		return 0, true, true
	}

	return ttl.Remaining, true, false
}

// arm schedules the warning. A fresh server TTL counts from now, since the
// query itself refreshed the session; the fallback counts from lastActivity.
func (m *Monitor) arm(timeout time.Duration, fresh bool) {
	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut {
		m.mu.Unlock()
		return
	}
	m.timeoutDuration = timeout
	if m.promptVisible {
		m.mu.Unlock()
		return
	}

	m.cancelWarningLocked()
	now := m.clock.Now()
	anchor := m.lastActivity
	if fresh {
		anchor = now
	}
	remaining := timeout - now.Sub(anchor)
	warnAt := remaining - m.cfg.WarningWindow
	if warnAt <= 0 {
		m.mu.Unlock()
		m.showWarning()
		return
	}

	m.warningSeq++
	seq := m.warningSeq
	m.armedActivity = m.lastActivity
	m.warningTimer = m.scheduler.ScheduleOnce(warnAt, func() { m.onWarningTimer(seq) })
	m.warningArmed = true
	m.state = domain.MonitorScheduled
	m.mu.Unlock()

	m.logger.Debugf("session warning in %s (timeout %s)", warnAt, timeout)
}

func (m *Monitor) onWarningTimer(seq uint64) {
	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut || !m.warningArmed || seq != m.warningSeq {
		m.mu.Unlock()
		return
	}
	m.warningArmed = false
	m.state = domain.MonitorIdle
	// Throttled activity moved the clock after this timer was armed and the
	// server has not heard about it yet. The TTL query reports it.
	stale := m.lastActivity.After(m.armedActivity)
	ctx := m.baseContextLocked()
	m.mu.Unlock()

	if stale {
		m.ScheduleWarning(ctx)
		return
	}
	m.showWarning()
}

func (m *Monitor) showWarning() {
	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut || m.promptVisible {
		m.mu.Unlock()
		return
	}
	m.cancelWarningLocked()
	m.promptVisible = true
	m.state = domain.MonitorWarning
	m.countdown = int(m.cfg.WarningWindow / countdownTick)
	m.promptSeq++
	seq := m.promptSeq
	m.countdownTimer = m.scheduler.ScheduleOnce(countdownTick, func() { m.onCountdownTick(seq) })
	m.countdownArmed = true
	secondsLeft := m.countdown
	m.mu.Unlock()

	m.logger.Infof("session expires in %ds, showing warning", secondsLeft)
	m.prompt.Show(secondsLeft)
}

func (m *Monitor) onCountdownTick(seq uint64) {
	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut || !m.promptVisible || seq != m.promptSeq {
		m.mu.Unlock()
		return
	}
	m.countdownArmed = false
	m.countdown--
	secondsLeft := m.countdown
	if secondsLeft > 0 {
		m.countdownTimer = m.scheduler.ScheduleOnce(countdownTick, func() { m.onCountdownTick(seq) })
		m.countdownArmed = true
	}
	ctx := m.baseContextLocked()
	m.mu.Unlock()

	m.prompt.Update(secondsLeft)
	if secondsLeft <= 0 {
		m.confirmExpiry(ctx)
	}
}

// confirmExpiry asks the server one last time before logging out.
func (m *Monitor) confirmExpiry(ctx context.Context) {
	reqCtx, cancel := m.requestContext(ctx)
	ttl, err := m.ttl.RemainingTTL(reqCtx, m.handle)
	cancel()

	if err != nil {
		m.logger.Warnf("final session check failed, logging out: %v", err)
		_ = m.forceLogout(ctx, domain.LogoutCountdownElapsed)
		return
	}
	if ttl.Expired() {
		_ = m.forceLogout(ctx, domain.LogoutCountdownElapsed)
		return
	}

	m.logger.Infof("session still alive on server (%s left), resuming", ttl.Remaining)

	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut {
		m.mu.Unlock()
		return
	}
	wasVisible := m.hidePromptLocked()
	m.lastActivity = m.clock.Now()
	m.state = domain.MonitorIdle
	m.mu.Unlock()

	if wasVisible {
		m.prompt.Hide()
	}
	m.arm(ttl.Remaining, true)
}

func (m *Monitor) forceLogout(ctx context.Context, reason domain.LogoutReason) error {
	m.mu.Lock()
	if m.state == domain.MonitorLoggedOut {
		m.mu.Unlock()
		return nil
	}
	m.state = domain.MonitorLoggedOut
	m.logoutReason = reason
	m.cancelWarningLocked()
	m.cancelCountdownLocked()
	m.cancelRefreshLocked()
	m.mu.Unlock()

	m.logger.Infof("logging out: %s", reason.Label())
	if err := m.navigator.Logout(ctx, reason); err != nil {
		m.logger.Errorf("logout navigation failed: %v", err)
		return fmt.Errorf("navigate to logout: %w", err)
	}

	return nil
}

func (m *Monitor) hidePromptLocked() bool {
	wasVisible := m.promptVisible
	m.cancelCountdownLocked()
	m.promptVisible = false
	m.countdown = 0
	m.promptSeq++
	return wasVisible
}

func (m *Monitor) cancelWarningLocked() {
	if m.warningArmed {
		m.scheduler.Cancel(m.warningTimer)
		m.warningArmed = false
	}
	m.warningSeq++
	if m.state == domain.MonitorScheduled {
		m.state = domain.MonitorIdle
	}
}

func (m *Monitor) cancelCountdownLocked() {
	if m.countdownArmed {
		m.scheduler.Cancel(m.countdownTimer)
		m.countdownArmed = false
	}
}

func (m *Monitor) cancelRefreshLocked() {
	if m.refreshArmed {
		m.scheduler.Cancel(m.refreshTimer)
		m.refreshArmed = false
	}
}

func (m *Monitor) baseContextLocked() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}

func (m *Monitor) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, m.cfg.RequestTimeout)
}

type noopPrompt struct{}

func (noopPrompt) Show(int)   {}
func (noopPrompt) Update(int) {}
func (noopPrompt) Hide()      {}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
