package domain

import (
	"fmt"
	"strings"
	"time"
)

type SessionID string

type Role string

const (
	RoleStudent     Role = "student"
	RoleAdvisor     Role = "advisor"
	RoleCoordinator Role = "coordinator"
)

func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleStudent, RoleAdvisor, RoleCoordinator:
		return role, nil
	default:
		return "", fmt.Errorf("unsupported role %q", raw)
	}
}

// ServerSession is the server's bookkeeping for one signed-in portal user.
type ServerSession struct {
	ID           SessionID
	UserID       string
	Role         Role
	CreatedAt    time.Time
	LastActivity time.Time
}

func (s ServerSession) Validate() error {
	if strings.TrimSpace(string(s.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if _, err := ParseRole(string(s.Role)); err != nil {
		return err
	}
	if s.CreatedAt.IsZero() {
		return fmt.Errorf("created at is required")
	}

	return nil
}

type SessionPolicy struct {
	IdleTimeout      time.Duration
	AbsoluteLifetime time.Duration
}

// Remaining returns how long the session stays valid from now without
// further activity. Zero or less means the session is dead.
func (p SessionPolicy) Remaining(s ServerSession, now time.Time) time.Duration {
	remaining := p.IdleTimeout - now.Sub(s.LastActivity)
	if p.AbsoluteLifetime > 0 {
		if absolute := p.AbsoluteLifetime - now.Sub(s.CreatedAt); absolute < remaining {
			remaining = absolute
		}
	}
	return remaining
}

func (p SessionPolicy) Expired(s ServerSession, now time.Time) bool {
	return p.Remaining(s, now) <= 0
}
