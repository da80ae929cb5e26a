package domain

import "time"

type MonitorState int

const (
	MonitorIdle MonitorState = iota
	MonitorScheduled
	MonitorWarning
	MonitorLoggedOut
)

func (s MonitorState) String() string {
	switch s {
	case MonitorIdle:
		return "idle"
	case MonitorScheduled:
		return "scheduled"
	case MonitorWarning:
		return "warning"
	case MonitorLoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}

func (s MonitorState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type KeepAliveOutcome int

const (
	KeepAliveExtended KeepAliveOutcome = iota
	// KeepAliveSuppressed means another keep-alive was already in flight; no request was made.
	KeepAliveSuppressed
	KeepAliveFailed
	KeepAliveUnauthorized
)

func (o KeepAliveOutcome) String() string {
	switch o {
	case KeepAliveExtended:
		return "extended"
	case KeepAliveSuppressed:
		return "suppressed"
	case KeepAliveFailed:
		return "failed"
	case KeepAliveUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

type LogoutReason string

const (
	LogoutSessionExpired    LogoutReason = "session_expired"
	LogoutKeepAliveRejected LogoutReason = "keep_alive_rejected"
	LogoutCountdownElapsed  LogoutReason = "countdown_elapsed"
	LogoutUserRequested     LogoutReason = "user_requested"
)

func (r LogoutReason) Label() string {
	switch r {
	case LogoutSessionExpired:
		return "session expired"
	case LogoutKeepAliveRejected:
		return "session could not be extended"
	case LogoutCountdownElapsed:
		return "inactivity timeout"
	case LogoutUserRequested:
		return "signed out by user"
	default:
		return string(r)
	}
}

type MonitorSnapshot struct {
	State           MonitorState  `json:"state"`
	LastActivity    time.Time     `json:"last_activity"`
	TimeoutDuration time.Duration `json:"timeout_duration"`
	PromptVisible   bool          `json:"prompt_visible"`
	Countdown       int           `json:"countdown"`
	PendingTimer    bool          `json:"pending_timer"`
	LogoutReason    LogoutReason  `json:"logout_reason,omitempty"`
}

// Remaining is the client-side estimate of session lifetime left at now.
func (s MonitorSnapshot) Remaining(now time.Time) time.Duration {
	remaining := s.TimeoutDuration - now.Sub(s.LastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}
