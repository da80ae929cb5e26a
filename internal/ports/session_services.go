package ports

import (
	"context"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
)

// TTLService reports how long the presented session has left. An expired
// session is reported as a zero TTL, not as an error; errors mean the answer
// is unknown.
type TTLService interface {
	RemainingTTL(ctx context.Context, handle domain.SessionHandle) (domain.TTL, error)
}

// KeepAliveService extends the presented session. It returns
// domain.ErrUnauthorized when the session is already dead.
type KeepAliveService interface {
	Extend(ctx context.Context, handle domain.SessionHandle) error
}

// Navigator ends the session on the client side. Calling it is terminal for
// the monitor.
type Navigator interface {
	Logout(ctx context.Context, reason domain.LogoutReason) error
}

// SessionGateway opens and ends portal sessions.
type SessionGateway interface {
	Login(ctx context.Context, userID string, role domain.Role) (domain.SessionHandle, error)
	Logout(ctx context.Context, handle domain.SessionHandle) error
}
