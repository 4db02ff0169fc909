package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"notable/internal/domain"
	"notable/internal/repository"
	"notable/internal/repository/sqlite"
)

type testRepos struct {
	users    repository.UserRepository
	notes    repository.NoteRepository
	sessions repository.SessionRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	repos := testRepos{
		users:    sqlite.NewUserRepository(db),
		notes:    sqlite.NewNoteRepository(db),
		sessions: sqlite.NewSessionRepository(db),
	}
	require.NoError(t, repos.users.Init(ctx))
	require.NoError(t, repos.notes.Init(ctx))
	require.NoError(t, repos.sessions.Init(ctx))
	return repos
}

func createTestUser(t *testing.T, users repository.UserRepository, username string) int64 {
	t.Helper()

	id, err := users.Create(context.Background(), &domain.User{
		Username:     username,
		PasswordHash: "irrelevant",
	})
	require.NoError(t, err)
	return id
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind) *domain.Error {
	t.Helper()

	require.Error(t, err)
	de, ok := domain.AsError(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	require.Equal(t, kind, de.Kind, "unexpected error kind for %q", de.Message)
	return de
}
