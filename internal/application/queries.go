package application

import "time"

// SessionStatus is what the portal reported for the stored session at
// CheckedAt.
type SessionStatus struct {
	Host      string        `json:"host"`
	Remaining time.Duration `json:"-"`
	Seconds   int64         `json:"remaining_seconds"`
	Expired   bool          `json:"expired"`
	CheckedAt time.Time     `json:"checked_at"`
}

func (s SessionStatus) ExpiresAt() time.Time {
	if s.Expired {
		return s.CheckedAt
	}
	return s.CheckedAt.Add(s.Remaining)
}
