package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
	"github.com/google/uuid"
)

func DefaultSessionPolicy() domain.SessionPolicy {
	return domain.SessionPolicy{
		IdleTimeout:      1800 * time.Second,
		AbsoluteLifetime: 12 * time.Hour,
	}
}

// SessionService owns the server side of the portal session: it answers TTL
// queries, extends sessions on keep-alive and ages out idle ones.
type SessionService struct {
	repo   ports.SessionRepository
	clock  ports.Clock
	policy domain.SessionPolicy
	newID  func() string
}

func NewSessionService(repo ports.SessionRepository, clock ports.Clock, policy domain.SessionPolicy) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if policy.IdleTimeout <= 0 {
		policy.IdleTimeout = DefaultSessionPolicy().IdleTimeout
	}

	return &SessionService{
		repo:   repo,
		clock:  clock,
		policy: policy,
		newID:  uuid.NewString,
	}
}

func (s *SessionService) Policy() domain.SessionPolicy {
	return s.policy
}

func (s *SessionService) Open(ctx context.Context, userID string, role domain.Role) (domain.ServerSession, error) {
	now := s.clock.Now()
	session := domain.ServerSession{
		ID:           domain.SessionID(s.newID()),
		UserID:       strings.TrimSpace(userID),
		Role:         role,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := session.Validate(); err != nil {
		return domain.ServerSession{}, fmt.Errorf("open session: %w", err)
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return domain.ServerSession{}, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// RemainingTTL reports the session's time left. The query counts as
// activity, so a live session is refreshed before the answer is computed.
func (s *SessionService) RemainingTTL(ctx context.Context, id domain.SessionID) (domain.TTL, error) {
	session, err := s.touch(ctx, id)
	if err != nil {
		return domain.TTL{}, err
	}

	return domain.TTL{Remaining: s.policy.Remaining(session, s.clock.Now())}, nil
}

func (s *SessionService) KeepAlive(ctx context.Context, id domain.SessionID) (domain.TTL, error) {
	return s.RemainingTTL(ctx, id)
}

func (s *SessionService) Close(ctx context.Context, id domain.SessionID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// Reap deletes every expired session and returns how many were removed.
func (s *SessionService) Reap(ctx context.Context) (int, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	now := s.clock.Now()
	var reaped int
	var reapErr error
	for _, session := range sessions {
		if !s.policy.Expired(session, now) {
			continue
		}
		if err := s.repo.Delete(ctx, session.ID); err != nil {
			reapErr = errors.Join(reapErr, fmt.Errorf("delete session %s: %w", session.ID, err))
			continue
		}
		reaped++
	}

	return reaped, reapErr
}

// RunReaper calls Reap every interval until ctx is done.
func (s *SessionService) RunReaper(ctx context.Context, interval time.Duration, logger ports.Logger) {
	if logger == nil {
		logger = nopLogger{}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reaped, err := s.Reap(ctx)
			if err != nil {
				logger.Warnf("reap sessions: %v", err)
			}
			if reaped > 0 {
				logger.Infof("reaped %d expired sessions", reaped)
			}
		}
	}
}

func (s *SessionService) touch(ctx context.Context, id domain.SessionID) (domain.ServerSession, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ServerSession{}, domain.ErrSessionExpired
		}
		return domain.ServerSession{}, fmt.Errorf("get session by id: %w", err)
	}

	now := s.clock.Now()
	if s.policy.Expired(session, now) {
		if err := s.repo.Delete(ctx, id); err != nil {
			return domain.ServerSession{}, fmt.Errorf("delete expired session: %w", err)
		}
		return domain.ServerSession{}, domain.ErrSessionExpired
	}

	// Touch only updates an existing row, so a session closed since the read
	// above stays closed.
	if err := s.repo.Touch(ctx, id, now); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ServerSession{}, domain.ErrSessionExpired
		}
		return domain.ServerSession{}, fmt.Errorf("touch session: %w", err)
	}
	session.LastActivity = now

	return session, nil
}
