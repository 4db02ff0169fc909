package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"notable/internal/domain"
	"notable/internal/repository"
)

// ErrInvalidSession indicates the presented cookie does not map to a live
// session: bad signature, unknown token, or idle timeout elapsed.
var ErrInvalidSession = errors.New("invalid session")

// SessionService manages server-side login sessions. The cookie value it
// hands out is "<token>.<signature>" where the signature is an HMAC-SHA256
// of the token under the configured secret, so forged cookies are rejected
// without touching the store.
type SessionService interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, cookieValue string) (*domain.Session, error)
	Destroy(ctx context.Context, cookieValue string) error
	PurgeExpired(ctx context.Context) (int64, error)
	TTL() time.Duration
}

type sessionService struct {
	sessions repository.SessionRepository
	secret   []byte
	ttl      time.Duration
}

func NewSessionService(sessions repository.SessionRepository, secret string, ttl time.Duration) SessionService {
	return &sessionService{
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
	}
}

func (s *sessionService) Create(ctx context.Context, userID int64) (string, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	return session.Token + "." + s.sign(session.Token), nil
}

// Resolve validates a cookie value and returns the live session behind it,
// sliding its idle deadline forward. Expired sessions are removed lazily.
func (s *sessionService) Resolve(ctx context.Context, cookieValue string) (*domain.Session, error) {
	token, err := s.verify(cookieValue)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	now := time.Now().UTC()
	if session.Expired(now) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, ErrInvalidSession
	}

	session.ExpiresAt = now.Add(s.ttl)
	if err := s.sessions.Touch(ctx, token, session.ExpiresAt); err != nil {
		return nil, err
	}
	return session, nil
}

// Destroy removes the session behind the cookie value. An unknown or
// malformed cookie destroys nothing and is not an error.
func (s *sessionService) Destroy(ctx context.Context, cookieValue string) error {
	token, err := s.verify(cookieValue)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func (s *sessionService) TTL() time.Duration {
	return s.ttl
}

func (s *sessionService) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *sessionService) verify(cookieValue string) (string, error) {
	token, sig, ok := strings.Cut(cookieValue, ".")
	if !ok || token == "" {
		return "", ErrInvalidSession
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(token))) {
		return "", ErrInvalidSession
	}
	return token, nil
}
