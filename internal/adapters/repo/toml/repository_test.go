package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("server.store_path", path)
	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "sessions.toml"))
	now := time.Date(2026, 3, 2, 9, 0, 0, 123456789, time.UTC)

	first := domain.ServerSession{ID: "sess-1", UserID: "2021-00042", Role: domain.RoleStudent, CreatedAt: now, LastActivity: now}
	second := domain.ServerSession{ID: "sess-2", UserID: "adv-7", Role: domain.RoleAdvisor, CreatedAt: now, LastActivity: now.Add(time.Minute)}

	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))

	got, err := repo.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	sessions, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ServerSession{first, second}, sessions)
}

func TestRepositorySaveUpdatesExistingSession(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "sessions.toml"))
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	session := domain.ServerSession{ID: "sess-1", UserID: "coord-1", Role: domain.RoleCoordinator, CreatedAt: now, LastActivity: now}
	require.NoError(t, repo.Save(context.Background(), session))

	session.LastActivity = now.Add(10 * time.Minute)
	require.NoError(t, repo.Save(context.Background(), session))

	sessions, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.LastActivity, sessions[0].LastActivity)
}

func TestRepositoryDelete(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "sessions.toml"))
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(context.Background(), domain.ServerSession{ID: "sess-1", UserID: "a", Role: domain.RoleStudent, CreatedAt: now, LastActivity: now}))
	require.NoError(t, repo.Save(context.Background(), domain.ServerSession{ID: "sess-2", UserID: "b", Role: domain.RoleStudent, CreatedAt: now, LastActivity: now}))

	require.NoError(t, repo.Delete(context.Background(), "sess-1"))
	require.NoError(t, repo.Delete(context.Background(), "sess-1"))

	_, err := repo.GetByID(context.Background(), "sess-1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.SessionID("sess-2"), sessions[0].ID)
}

func TestRepositoryTouchUpdatesOnlyExistingSession(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.toml")
	repo := newTestRepository(t, path)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	session := domain.ServerSession{ID: "sess-1", UserID: "adv-7", Role: domain.RoleAdvisor, CreatedAt: now, LastActivity: now}
	require.NoError(t, repo.Save(context.Background(), session))

	later := now.Add(7 * time.Minute)
	require.NoError(t, repo.Touch(context.Background(), "sess-1", later))
	got, err := repo.GetByID(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, later, got.LastActivity)
	assert.Equal(t, now, got.CreatedAt)

	require.NoError(t, repo.Delete(context.Background(), "sess-1"))
	err = repo.Touch(context.Background(), "sess-1", later.Add(time.Minute))
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRepositoryTouchMissingFileDoesNotCreateIt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sessions.toml")
	repo := newTestRepository(t, path)

	err := repo.Touch(context.Background(), "sess-1", time.Now())
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.NoFileExists(t, path)
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	now := time.Now().UTC()
	err = repo.Save(context.Background(), domain.ServerSession{ID: "sess-1", UserID: "a", Role: domain.RoleStudent, CreatedAt: now, LastActivity: now})
	require.NoError(t, err)

	sessionsPath := filepath.Join(homeDir, ".thesistrack", "sessions.toml")
	assert.Equal(t, sessionsPath, repo.Path())
	info, err := os.Stat(sessionsPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "sessions.toml"))

	sessions, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = repo.GetByID(context.Background(), "sess-1")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, repo.Delete(context.Background(), "sess-1"))
}

func TestRepositoryListMalformedTOMLReturnsError(t *testing.T) {
	t.Parallel()

	sessionsPath := filepath.Join(t.TempDir(), "sessions.toml")
	require.NoError(t, os.WriteFile(sessionsPath, []byte("sessions = ["), 0o600))

	repo := newTestRepository(t, sessionsPath)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode sessions file")
}

func TestRepositoryReadsHandWrittenFile(t *testing.T) {
	t.Parallel()

	sessionsPath := filepath.Join(t.TempDir(), "sessions.toml")
	require.NoError(t, os.WriteFile(sessionsPath, []byte(strings.Join([]string{
		"version = 1",
		"",
		"[[sessions]]",
		"id = \"sess-1\"",
		"user_id = \"2021-00042\"",
		"role = \"student\"",
		"created_at = \"2026-03-02T09:00:00Z\"",
		"last_activity = \"2026-03-02T09:15:00Z\"",
		"",
	}, "\n")), 0o600))

	repo := newTestRepository(t, sessionsPath)

	session, err := repo.GetByID(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, session.Role)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC), session.LastActivity)
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "sessions.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.ServerSession{ID: "sess-1", UserID: "a", Role: domain.RoleStudent})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstancesPreserveBothSessions(t *testing.T) {
	t.Parallel()

	sessionsPath := filepath.Join(t.TempDir(), "sessions.toml")
	repoA := newTestRepository(t, sessionsPath)
	repoB := newTestRepository(t, sessionsPath)

	const perRepoWrites = 50
	now := time.Now().UTC()
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	wg.Add(2)

	write := func(repo *Repository, prefix string) {
		defer wg.Done()
		<-start
		for i := 0; i < perRepoWrites; i++ {
			errCh <- repo.Save(context.Background(), domain.ServerSession{
				ID:           domain.SessionID(prefix + strconv.Itoa(i)),
				UserID:       prefix,
				Role:         domain.RoleStudent,
				CreatedAt:    now,
				LastActivity: now,
			})
		}
	}
	go write(repoA, "sess-a-")
	go write(repoB, "sess-b-")

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	sessions, err := repoA.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, sessions, perRepoWrites*2)
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	sessionsPath := filepath.Join(t.TempDir(), "sessions.toml")
	repo := newTestRepository(t, sessionsPath)

	require.NoError(t, repo.Save(context.Background(), domain.ServerSession{ID: "sess-1", UserID: "a", Role: domain.RoleStudent}))

	data, err := os.ReadFile(sessionsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
}

func TestRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	sessionsPath := filepath.Join(t.TempDir(), "sessions.toml")
	require.NoError(t, os.WriteFile(sessionsPath, []byte("version = 999\n\nsessions = []\n"), 0o600))

	repo := newTestRepository(t, sessionsPath)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported sessions schema version")
}
