package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
)

type RenderOptions struct {
	Now time.Time
	// Timeout is the full inactivity budget the bar is measured against.
	Timeout       time.Duration
	WarningWindow time.Duration
}

func renderView(status application.SessionStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("ThesisTrack session"),
		s.header.Render(fmt.Sprintf("portal: %s", status.Host)),
	}

	if status.Expired {
		lines = append(lines,
			s.label.Render("remaining: ")+s.warning.Render("expired"),
			s.hint.Render("run `tts login` to sign in again"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, append(lines, remainingLine(status, opts, s))...)
}

func remainingLine(status application.SessionStatus, opts RenderOptions, s styles) string {
	leftPercent := 100.0
	if opts.Timeout > 0 {
		leftPercent = clampPercent(status.Remaining.Seconds() / opts.Timeout.Seconds() * 100)
	}

	label := s.label.Render("remaining:")
	bar := renderProgressBar(leftPercent, 24, s)
	meta := lipgloss.NewStyle().
		Foreground(interpolateColor(leftPercent, 0, 100)).
		Render(fmt.Sprintf("%s (%d s)", formatRemaining(status.Remaining), status.Seconds))

	now := opts.Now
	if now.IsZero() {
		now = status.CheckedAt
	}
	expires := s.detail.Render(fmt.Sprintf("expires %s", formatExpiresAt(status.ExpiresAt(), now)))

	line := lipgloss.JoinHorizontal(lipgloss.Top, label, " ", bar, " ", meta, " ", expires)
	if opts.WarningWindow > 0 && status.Remaining <= opts.WarningWindow {
		line += " " + s.warning.Render("[expiring soon]")
	}
	return line
}

func renderProgressBar(leftPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(leftPercent) / 100.0))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return d.String()
	}

	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	if minutes < 60 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func formatExpiresAt(expiresAt, now time.Time) string {
	if expiresAt.IsZero() {
		return "at unknown time"
	}
	if now.IsZero() {
		return "at " + expiresAt.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := expiresAt.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return "at " + expiresAt.Format("15:04:05")
	}

	return "at " + expiresAt.Format("15:04 on 02 Jan")
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	colorCode := int(240.0 + (255.0-240.0)*normalized)
	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
