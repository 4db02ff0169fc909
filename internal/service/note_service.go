package service

import (
	"context"
	"errors"

	"notable/internal/domain"
	"notable/internal/repository"
)

// NoteService coordinates note operations and enforces per-note ownership.
type NoteService interface {
	List(ctx context.Context, userID int64) ([]domain.Note, error)
	Get(ctx context.Context, userID, noteID int64) (*domain.Note, error)
	Create(ctx context.Context, userID int64, title, text string) (*domain.Note, error)
	Update(ctx context.Context, userID, noteID int64, title, text string) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID int64) error
}

type noteService struct {
	notes repository.NoteRepository
}

func NewNoteService(notes repository.NoteRepository) NoteService {
	return &noteService{notes: notes}
}

func (s *noteService) List(ctx context.Context, userID int64) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

func (s *noteService) Get(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	return s.fetchOwned(ctx, userID, noteID)
}

func (s *noteService) Create(ctx context.Context, userID int64, title, text string) (*domain.Note, error) {
	// only a missing title is rejected; whitespace counts as a title
	if title == "" {
		return nil, domain.ValidationError("Notes must have a title")
	}

	note := &domain.Note{
		UserID: userID,
		Title:  title,
		Text:   text,
	}
	if _, err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, userID, noteID int64, title, text string) (*domain.Note, error) {
	if title == "" {
		return nil, domain.ValidationError("Notes must have a title")
	}

	note, err := s.fetchOwned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Title = title
	note.Text = text
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, userID, noteID int64) error {
	note, err := s.fetchOwned(ctx, userID, noteID)
	if err != nil {
		return err
	}
	return s.notes.Delete(ctx, note.ID)
}

// fetchOwned loads a note and verifies ownership. The existence check runs
// before the ownership check on purpose: a missing note is always a 404,
// regardless of who asks.
func (s *noteService) fetchOwned(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	note, err := s.notes.Get(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundError("Note not found")
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, domain.AuthorizationError("You cannot access this note")
	}
	return note, nil
}
