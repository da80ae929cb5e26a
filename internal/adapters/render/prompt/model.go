package prompt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
)

const refreshInterval = time.Second

// Controller is the part of the session monitor the prompt drives.
type Controller interface {
	Start(ctx context.Context) error
	RecordActivity(ctx context.Context, signal domain.ActivitySignal)
	KeepAlive(ctx context.Context) (domain.KeepAliveOutcome, error)
	Logout(ctx context.Context) error
	Snapshot() domain.MonitorSnapshot
}

type Options struct {
	Host          string
	WarningWindow time.Duration
	Clock         ports.Clock
}

type startedMsg struct {
	err error
}

type tickMsg time.Time

type keepAliveDoneMsg struct {
	outcome domain.KeepAliveOutcome
	err     error
}

type logoutDoneMsg struct {
	err error
}

type Model struct {
	ctx     context.Context
	monitor Controller
	clock   ports.Clock
	opts    Options
	keys    KeyMap
	help    help.Model
	bar     progress.Model
	styles  styles

	now         time.Time
	snapshot    domain.MonitorSnapshot
	visible     bool
	secondsLeft int
	notice      string
	signedOut   bool
	reason      domain.LogoutReason
	quitting    bool
	err         error
}

func New(ctx context.Context, monitor Controller, opts Options) Model {
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return Model{
		ctx:     ctx,
		monitor: monitor,
		clock:   clock,
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(36),
			progress.WithoutPercentage(),
		),
		styles: newStyles(),
		now:    clock.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	ctx, monitor := m.ctx, m.monitor
	start := func() tea.Msg {
		return startedMsg{err: monitor.Start(ctx)}
	}
	return tea.Batch(start, tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case startedMsg:
		if msg.err != nil && !errors.Is(msg.err, application.ErrMonitorLoggedOut) {
			m.err = msg.err
			return m, tea.Quit
		}
		m.snapshot = m.monitor.Snapshot()
		return m, nil

	case tickMsg:
		if m.signedOut || m.quitting {
			return m, nil
		}
		m.now = m.clock.Now()
		m.snapshot = m.monitor.Snapshot()
		return m, tick()

	case ShowMsg:
		m.visible = true
		m.secondsLeft = msg.SecondsLeft
		m.notice = ""
		return m, nil

	case UpdateMsg:
		if m.visible {
			m.secondsLeft = msg.SecondsLeft
		}
		return m, nil

	case HideMsg:
		m.visible = false
		m.snapshot = m.monitor.Snapshot()
		return m, nil

	case SignedOutMsg:
		m.signedOut = true
		m.visible = false
		m.reason = msg.Reason
		return m, tea.Quit

	case keepAliveDoneMsg:
		m.notice = keepAliveNotice(msg.outcome, msg.err)
		return m, nil

	case logoutDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, application.ErrMonitorLoggedOut) {
			m.err = msg.err
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.signedOut {
			return m, nil
		}
		if kind, ok := mouseActivity(msg); ok {
			return m, m.recordActivity(kind)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.signedOut {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Logout):
		return m, m.logout()
	case key.Matches(msg, m.keys.Stay) && m.visible:
		return m, tea.Batch(m.recordActivity(domain.ActivityKeyPress), m.keepAlive())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, m.recordActivity(domain.ActivityKeyPress)
}

func (m Model) recordActivity(kind domain.ActivityKind) tea.Cmd {
	ctx, monitor := m.ctx, m.monitor
	signal := domain.ActivitySignal{Kind: kind, At: m.clock.Now()}
	return func() tea.Msg {
		monitor.RecordActivity(ctx, signal)
		return nil
	}
}

func (m Model) keepAlive() tea.Cmd {
	ctx, monitor := m.ctx, m.monitor
	return func() tea.Msg {
		outcome, err := monitor.KeepAlive(ctx)
		return keepAliveDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) logout() tea.Cmd {
	ctx, monitor := m.ctx, m.monitor
	return func() tea.Msg {
		return logoutDoneMsg{err: monitor.Logout(ctx)}
	}
}

func mouseActivity(msg tea.MouseMsg) (domain.ActivityKind, bool) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown:
		return domain.ActivityScroll, true
	case msg.Action == tea.MouseActionPress:
		return domain.ActivityPointerPress, true
	case msg.Action == tea.MouseActionMotion:
		return domain.ActivityPointerMove, true
	default:
		return "", false
	}
}

func keepAliveNotice(outcome domain.KeepAliveOutcome, err error) string {
	switch outcome {
	case domain.KeepAliveExtended:
		return "Session extended."
	case domain.KeepAliveSuppressed:
		return ""
	case domain.KeepAliveUnauthorized:
		return "The portal no longer accepts this session."
	default:
		if err != nil {
			return fmt.Sprintf("Could not extend the session: %v", err)
		}
		return "Could not extend the session."
	}
}

// SignedOut reports why the session ended, if it did.
func (m Model) SignedOut() (domain.LogoutReason, bool) {
	return m.reason, m.signedOut
}

func (m Model) Err() error {
	return m.err
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.signedOut {
		return fmt.Sprintf("Signed out (%s)\n", m.reason.Label())
	}

	lines := []string{
		m.styles.title.Render("ThesisTrack") + " " + m.styles.header.Render(m.opts.Host),
		m.statusLine(),
	}

	if m.visible {
		lines = append(lines, m.warningBox())
	}
	if m.notice != "" {
		lines = append(lines, m.styles.notice.Render(m.notice))
	}
	lines = append(lines, "", m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) statusLine() string {
	state := "monitoring"
	if m.visible {
		state = "warning"
	}

	idle := time.Duration(0)
	if !m.snapshot.LastActivity.IsZero() && m.now.After(m.snapshot.LastActivity) {
		idle = m.now.Sub(m.snapshot.LastActivity).Truncate(time.Second)
	}

	return fmt.Sprintf("%s %s  %s",
		m.styles.state.Render(state),
		m.styles.header.Render(fmt.Sprintf("idle %s", idle)),
		m.styles.header.Render(fmt.Sprintf("timeout %s", m.snapshot.TimeoutDuration)),
	)
}

func (m Model) warningBox() string {
	window := int(m.opts.WarningWindow / time.Second)
	fraction := 0.0
	if window > 0 {
		fraction = float64(m.secondsLeft) / float64(window)
	}
	if fraction > 1 {
		fraction = 1
	}

	unit := "seconds"
	if m.secondsLeft == 1 {
		unit = "second"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.warning.Render(fmt.Sprintf("Your session expires in %d %s", m.secondsLeft, unit)),
		m.bar.ViewAs(fraction),
		m.styles.faint.Render("k/enter stay signed in • l log out"),
	)
	return m.styles.box.Render(body)
}
