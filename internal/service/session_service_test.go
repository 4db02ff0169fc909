package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notable/internal/repository"
)

const testSecret = "test-session-secret"

func TestSession_CreateAndResolve(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewSessionService(repos.sessions, testSecret, time.Hour)
	ctx := context.Background()
	userID := createTestUser(t, repos.users, "alice")

	cookie, err := svc.Create(ctx, userID)
	require.NoError(t, err)
	require.Contains(t, cookie, ".", "cookie value carries a signature")

	session, err := svc.Resolve(ctx, cookie)
	require.NoError(t, err)
	assert.Equal(t, userID, session.UserID)
}

func TestSession_TamperedCookieRejected(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewSessionService(repos.sessions, testSecret, time.Hour)
	ctx := context.Background()
	userID := createTestUser(t, repos.users, "alice")

	cookie, err := svc.Create(ctx, userID)
	require.NoError(t, err)

	token, _, _ := strings.Cut(cookie, ".")
	cases := map[string]string{
		"no signature":      token,
		"wrong signature":   token + ".bogus-signature",
		"foreign signature": "other-token." + strings.SplitN(cookie, ".", 2)[1],
		"garbage":           "not-a-cookie",
		"empty token":       "." + strings.SplitN(cookie, ".", 2)[1],
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Resolve(ctx, value)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestSession_IdleExpiry(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewSessionService(repos.sessions, testSecret, 50*time.Millisecond)
	ctx := context.Background()
	userID := createTestUser(t, repos.users, "alice")

	cookie, err := svc.Create(ctx, userID)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)

	_, err = svc.Resolve(ctx, cookie)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// the expired row is gone, not just ignored
	token, _, _ := strings.Cut(cookie, ".")
	_, err = repos.sessions.Get(ctx, token)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSession_SlidingExpiry(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewSessionService(repos.sessions, testSecret, 200*time.Millisecond)
	ctx := context.Background()
	userID := createTestUser(t, repos.users, "alice")

	cookie, err := svc.Create(ctx, userID)
	require.NoError(t, err)

	// keep touching the session past its original deadline
	for i := 0; i < 3; i++ {
		time.Sleep(120 * time.Millisecond)
		_, err := svc.Resolve(ctx, cookie)
		require.NoError(t, err, "resolve %d should slide the deadline", i)
	}
}

func TestSession_Destroy(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewSessionService(repos.sessions, testSecret, time.Hour)
	ctx := context.Background()
	userID := createTestUser(t, repos.users, "alice")

	cookie, err := svc.Create(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(ctx, cookie))

	_, err = svc.Resolve(ctx, cookie)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// destroying again, or destroying garbage, is a no-op
	require.NoError(t, svc.Destroy(ctx, cookie))
	require.NoError(t, svc.Destroy(ctx, "garbage"))
}

func TestSession_PurgeExpired(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()
	userID := createTestUser(t, repos.users, "alice")

	short := NewSessionService(repos.sessions, testSecret, 10*time.Millisecond)
	long := NewSessionService(repos.sessions, testSecret, time.Hour)

	_, err := short.Create(ctx, userID)
	require.NoError(t, err)
	keep, err := long.Create(ctx, userID)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	purged, err := long.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = long.Resolve(ctx, keep)
	require.NoError(t, err)
}
