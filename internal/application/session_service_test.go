package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(t *testing.T, now time.Time) (*SessionService, *mocks.MockSessionRepository) {
	t.Helper()

	repo := mocks.NewMockSessionRepository(t)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(now).Maybe()

	service := NewSessionService(repo, clock, DefaultSessionPolicy())
	service.newID = func() string { return "sess-1" }
	return service, repo
}

func TestSessionServiceOpen(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service, repo := newTestSessionService(t, now)

	want := domain.ServerSession{
		ID:           "sess-1",
		UserID:       "2021-00042",
		Role:         domain.RoleStudent,
		CreatedAt:    now,
		LastActivity: now,
	}
	repo.EXPECT().Save(mockAnyContext(), want).Return(nil).Once()

	session, err := service.Open(context.Background(), " 2021-00042 ", domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, want, session)
}

func TestSessionServiceOpenRejectsInvalidSession(t *testing.T) {
	service, _ := newTestSessionService(t, time.Now())

	_, err := service.Open(context.Background(), "  ", domain.RoleAdvisor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open session")
}

func TestSessionServiceRemainingTTLTouchesSession(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	service, repo := newTestSessionService(t, now)

	stored := domain.ServerSession{
		ID:           "sess-1",
		UserID:       "adv-7",
		Role:         domain.RoleAdvisor,
		CreatedAt:    now.Add(-time.Hour),
		LastActivity: now.Add(-10 * time.Minute),
	}

	repo.EXPECT().GetByID(mockAnyContext(), domain.SessionID("sess-1")).Return(stored, nil).Once()
	repo.EXPECT().Touch(mockAnyContext(), domain.SessionID("sess-1"), now).Return(nil).Once()

	ttl, err := service.RemainingTTL(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1800*time.Second, ttl.Remaining)
}

func TestSessionServiceRemainingTTLCappedByAbsoluteLifetime(t *testing.T) {
	now := time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)
	service, repo := newTestSessionService(t, now)

	stored := domain.ServerSession{
		ID:           "sess-1",
		UserID:       "coord-1",
		Role:         domain.RoleCoordinator,
		CreatedAt:    now.Add(-12*time.Hour + 5*time.Minute),
		LastActivity: now.Add(-time.Minute),
	}

	repo.EXPECT().GetByID(mockAnyContext(), domain.SessionID("sess-1")).Return(stored, nil).Once()
	repo.EXPECT().Touch(mockAnyContext(), domain.SessionID("sess-1"), now).Return(nil).Once()

	ttl, err := service.KeepAlive(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl.Remaining)
}

func TestSessionServiceRemainingTTLExpiredSessionIsDeleted(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	service, repo := newTestSessionService(t, now)

	stored := domain.ServerSession{
		ID:           "sess-1",
		UserID:       "2021-00042",
		Role:         domain.RoleStudent,
		CreatedAt:    now.Add(-time.Hour),
		LastActivity: now.Add(-31 * time.Minute),
	}
	repo.EXPECT().GetByID(mockAnyContext(), domain.SessionID("sess-1")).Return(stored, nil).Once()
	repo.EXPECT().Delete(mockAnyContext(), domain.SessionID("sess-1")).Return(nil).Once()

	_, err := service.RemainingTTL(context.Background(), "sess-1")
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestSessionServiceRemainingTTLDoesNotReviveClosedSession(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	service, repo := newTestSessionService(t, now)

	stored := domain.ServerSession{
		ID:           "sess-1",
		UserID:       "adv-7",
		Role:         domain.RoleAdvisor,
		CreatedAt:    now.Add(-time.Hour),
		LastActivity: now.Add(-time.Minute),
	}
	closed := false
	repo.EXPECT().GetByID(mockAnyContext(), domain.SessionID("sess-1")).RunAndReturn(func(ctx context.Context, id domain.SessionID) (domain.ServerSession, error) {
		// Logout lands between the read and the touch.
		require.NoError(t, service.Close(ctx, id))
		return stored, nil
	}).Once()
	repo.EXPECT().Delete(mockAnyContext(), domain.SessionID("sess-1")).RunAndReturn(func(context.Context, domain.SessionID) error {
		closed = true
		return nil
	}).Once()
	repo.EXPECT().Touch(mockAnyContext(), domain.SessionID("sess-1"), now).RunAndReturn(func(context.Context, domain.SessionID, time.Time) error {
		if closed {
			return domain.ErrSessionNotFound
		}
		return nil
	}).Once()

	_, err := service.RemainingTTL(context.Background(), "sess-1")
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestSessionServiceRemainingTTLTouchFailure(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	service, repo := newTestSessionService(t, now)

	stored := domain.ServerSession{ID: "sess-1", UserID: "a", Role: domain.RoleStudent, CreatedAt: now, LastActivity: now}
	repo.EXPECT().GetByID(mockAnyContext(), domain.SessionID("sess-1")).Return(stored, nil).Once()
	repo.EXPECT().Touch(mockAnyContext(), domain.SessionID("sess-1"), now).Return(errors.New("database is locked")).Once()

	_, err := service.RemainingTTL(context.Background(), "sess-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionExpired)
	assert.Contains(t, err.Error(), "touch session")
}

func TestSessionServiceRemainingTTLUnknownSession(t *testing.T) {
	service, repo := newTestSessionService(t, time.Now())
	repo.EXPECT().GetByID(mockAnyContext(), domain.SessionID("missing")).Return(domain.ServerSession{}, domain.ErrSessionNotFound).Once()

	_, err := service.RemainingTTL(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestSessionServiceRemainingTTLRepositoryFailure(t *testing.T) {
	service, repo := newTestSessionService(t, time.Now())
	repo.EXPECT().GetByID(mockAnyContext(), domain.SessionID("sess-1")).Return(domain.ServerSession{}, errors.New("disk full")).Once()

	_, err := service.RemainingTTL(context.Background(), "sess-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionExpired)
	assert.Contains(t, err.Error(), "get session by id")
}

func TestSessionServiceClose(t *testing.T) {
	service, repo := newTestSessionService(t, time.Now())
	repo.EXPECT().Delete(mockAnyContext(), domain.SessionID("sess-1")).Return(nil).Once()

	require.NoError(t, service.Close(context.Background(), "sess-1"))
}

func TestSessionServiceReap(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	service, repo := newTestSessionService(t, now)

	sessions := []domain.ServerSession{
		{ID: "live", UserID: "a", Role: domain.RoleStudent, CreatedAt: now.Add(-time.Hour), LastActivity: now.Add(-time.Minute)},
		{ID: "idle", UserID: "b", Role: domain.RoleStudent, CreatedAt: now.Add(-time.Hour), LastActivity: now.Add(-45 * time.Minute)},
		{ID: "old", UserID: "c", Role: domain.RoleAdvisor, CreatedAt: now.Add(-13 * time.Hour), LastActivity: now},
		{ID: "stuck", UserID: "d", Role: domain.RoleAdvisor, CreatedAt: now.Add(-2 * time.Hour), LastActivity: now.Add(-2 * time.Hour)},
	}
	repo.EXPECT().List(mockAnyContext()).Return(sessions, nil).Once()
	repo.EXPECT().Delete(mockAnyContext(), domain.SessionID("idle")).Return(nil).Once()
	repo.EXPECT().Delete(mockAnyContext(), domain.SessionID("old")).Return(nil).Once()
	repo.EXPECT().Delete(mockAnyContext(), domain.SessionID("stuck")).Return(errors.New("locked")).Once()

	reaped, err := service.Reap(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete session stuck")
	assert.Equal(t, 2, reaped)
}

func TestSessionServiceRunReaperStopsWithContext(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	service, repo := newTestSessionService(t, now)

	listed := make(chan struct{}, 8)
	repo.EXPECT().List(mockAnyContext()).RunAndReturn(func(context.Context) ([]domain.ServerSession, error) {
		select {
		case listed <- struct{}{}:
		default:
		}
		return nil, nil
	}).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.RunReaper(ctx, 5*time.Millisecond, nil)
		close(done)
	}()

	select {
	case <-listed:
	case <-time.After(time.Second):
		t.Fatal("reaper never ran")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
