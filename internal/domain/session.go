package domain

import (
	"math"
	"strings"
	"time"
)

// SessionHandle is the credential a client presents to the TTL and
// keep-alive services. Over HTTP it travels as the session cookie.
type SessionHandle struct {
	CookieName string
	Token      string
}

func (h SessionHandle) IsZero() bool {
	return strings.TrimSpace(h.Token) == ""
}

type TTL struct {
	Remaining time.Duration
}

// maxTTLSeconds is the longest TTL a time.Duration can hold.
const maxTTLSeconds = math.MaxInt64 / int64(time.Second)

// TTLFromSeconds converts a server-reported second count, clamping it into
// [0, maxTTLSeconds].
func TTLFromSeconds(seconds int64) TTL {
	switch {
	case seconds < 0:
		seconds = 0
	case seconds > maxTTLSeconds:
		seconds = maxTTLSeconds
	}
	return TTL{Remaining: time.Duration(seconds) * time.Second}
}

// Expired reports whether the server considers the session already dead.
func (t TTL) Expired() bool {
	return t.Remaining <= 0
}

func (t TTL) Seconds() int64 {
	if t.Remaining <= 0 {
		return 0
	}
	return int64(t.Remaining / time.Second)
}
