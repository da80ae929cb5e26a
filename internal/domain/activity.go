package domain

import "time"

type ActivityKind string

const (
	ActivityPointerPress ActivityKind = "pointer_press"
	ActivityPointerMove  ActivityKind = "pointer_move"
	ActivityKeyPress     ActivityKind = "key_press"
	ActivityScroll       ActivityKind = "scroll"
	ActivityTouchStart   ActivityKind = "touch_start"
)

// ActivityKinds lists every interaction kind the monitor listens for.
func ActivityKinds() []ActivityKind {
	return []ActivityKind{
		ActivityPointerPress,
		ActivityPointerMove,
		ActivityKeyPress,
		ActivityScroll,
		ActivityTouchStart,
	}
}

func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityPointerPress, ActivityPointerMove, ActivityKeyPress, ActivityScroll, ActivityTouchStart:
		return true
	default:
		return false
	}
}

type ActivitySignal struct {
	Kind ActivityKind
	At   time.Time
}
