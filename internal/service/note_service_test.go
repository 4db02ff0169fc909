package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notable/internal/domain"
)

func TestCreateNote_RequiresTitle(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	owner := createTestUser(t, repos.users, "owner")

	_, err := svc.Create(ctx, owner, "", "some text")
	de := requireKind(t, err, domain.KindValidation)
	assert.Equal(t, "Notes must have a title", de.Message)

	// nothing was persisted
	notes, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, notes)

	// a whitespace-only title is present, not missing
	note, err := svc.Create(ctx, owner, "   ", "body")
	require.NoError(t, err)
	assert.Equal(t, "   ", note.Title)
}

func TestNote_RoundTrip(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	owner := createTestUser(t, repos.users, "owner")

	created, err := svc.Create(ctx, owner, "T", "X")
	require.NoError(t, err)
	require.Positive(t, created.ID)

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "X", got.Text)
	assert.Equal(t, owner, got.UserID)
}

func TestGetNote_Missing(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	owner := createTestUser(t, repos.users, "owner")

	_, err := svc.Get(ctx, owner, 9999)
	de := requireKind(t, err, domain.KindNotFound)
	assert.Equal(t, "Note not found", de.Message)
}

func TestGetNote_WrongOwner(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	owner := createTestUser(t, repos.users, "owner")
	intruder := createTestUser(t, repos.users, "intruder")

	note, err := svc.Create(ctx, owner, "private", "")
	require.NoError(t, err)

	_, err = svc.Get(ctx, intruder, note.ID)
	de := requireKind(t, err, domain.KindAuthorization)
	assert.Equal(t, "You cannot access this note", de.Message)

	// existence is checked first: a missing note is 404 for everyone
	_, err = svc.Get(ctx, intruder, note.ID+100)
	requireKind(t, err, domain.KindNotFound)
}

func TestUpdateNote_PersistsChanges(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	owner := createTestUser(t, repos.users, "owner")

	note, err := svc.Create(ctx, owner, "old title", "old text")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, note.ID, "new title", "new text")
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "new text", updated.Text)
	assert.Equal(t, owner, updated.UserID)

	got, err := svc.Get(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, "new text", got.Text)
}

func TestUpdateNote_RequiresTitle(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	owner := createTestUser(t, repos.users, "owner")

	note, err := svc.Create(ctx, owner, "keep me", "body")
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, note.ID, "", "new body")
	requireKind(t, err, domain.KindValidation)

	got, err := svc.Get(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
	assert.Equal(t, "body", got.Text)

	// whitespace-only is accepted on update as well
	updated, err := svc.Update(ctx, owner, note.ID, "   ", "new body")
	require.NoError(t, err)
	assert.Equal(t, "   ", updated.Title)
}

func TestUpdateNote_ChecksOwnership(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	owner := createTestUser(t, repos.users, "owner")
	intruder := createTestUser(t, repos.users, "intruder")

	note, err := svc.Create(ctx, owner, "mine", "")
	require.NoError(t, err)

	_, err = svc.Update(ctx, intruder, note.ID, "stolen", "")
	requireKind(t, err, domain.KindAuthorization)

	got, err := svc.Get(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
}

func TestDeleteNote(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	owner := createTestUser(t, repos.users, "owner")
	intruder := createTestUser(t, repos.users, "intruder")

	note, err := svc.Create(ctx, owner, "doomed", "")
	require.NoError(t, err)

	err = svc.Delete(ctx, intruder, note.ID)
	requireKind(t, err, domain.KindAuthorization)

	require.NoError(t, svc.Delete(ctx, owner, note.ID))

	_, err = svc.Get(ctx, owner, note.ID)
	requireKind(t, err, domain.KindNotFound)

	err = svc.Delete(ctx, owner, note.ID)
	requireKind(t, err, domain.KindNotFound)
}

func TestListNotes_ScopedToUserInInsertionOrder(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewNoteService(repos.notes)
	ctx := context.Background()
	alice := createTestUser(t, repos.users, "alice")
	bob := createTestUser(t, repos.users, "bob")

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(ctx, alice, title, "")
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, "not alice's", "")
	require.NoError(t, err)

	notes, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	for i, title := range []string{"first", "second", "third"} {
		assert.Equal(t, title, notes[i].Title)
		assert.Equal(t, alice, notes[i].UserID)
	}
}
