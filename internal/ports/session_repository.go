package ports

import (
	"context"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
)

type SessionRepository interface {
	GetByID(ctx context.Context, id domain.SessionID) (domain.ServerSession, error)
	List(ctx context.Context) ([]domain.ServerSession, error)
	Save(ctx context.Context, session domain.ServerSession) error
	Delete(ctx context.Context, id domain.SessionID) error
	// Touch sets LastActivity on an existing session. It returns
	// domain.ErrSessionNotFound instead of creating a missing one.
	Touch(ctx context.Context, id domain.SessionID, at time.Time) error
}
