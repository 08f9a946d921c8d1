package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/qr_menu/internal/authclient"
	"github.com/Skotchmaster/qr_menu/internal/cache"
	"github.com/Skotchmaster/qr_menu/internal/logging"
	"github.com/Skotchmaster/qr_menu/internal/models"
	"github.com/Skotchmaster/qr_menu/internal/repo"
)

const SessionTTL = 7 * 24 * time.Hour

type Gateway interface {
	Exchange(ctx context.Context, sessionID string) (*authclient.Identity, error)
}

type SessionCache interface {
	Get(ctx context.Context, tokenHash string) (*cache.SessionEntry, error)
	Set(ctx context.Context, tokenHash string, entry cache.SessionEntry) error
	Delete(ctx context.Context, tokenHash string) error
}

type AuthService struct {
	Repo    *repo.GormRepo
	Gateway Gateway
	Cache   SessionCache
	Now     func() time.Time
}

type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func Sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateSession exchanges a front-end session id for a verified identity and
// opens a local session bound to the returned token.
func (s *AuthService) CreateSession(ctx context.Context, sessionID string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.create_session")

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id required", ErrValidation)
	}

	id, err := s.Gateway.Exchange(ctx, sessionID)
	if err != nil {
		l.Warn("gateway_exchange_failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamAuth, err)
	}

	now := s.now()
	user := &models.User{
		Email:     id.Email,
		Name:      id.Name,
		Picture:   id.Picture,
		CreatedAt: now,
	}
	session := &models.Session{
		TokenHash: Sha256Hex(id.SessionToken),
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}

	user, err = s.Repo.UpsertUserWithSession(ctx, user, session)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, session.TokenHash)

	l.Info("session_created", "user_id", user.ID)
	return &Session{User: user, Token: id.SessionToken, ExpiresAt: session.ExpiresAt}, nil
}

// Authenticate resolves a session token to its user. Expired sessions are
// removed as they are found.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthenticated)
	}
	l := logging.FromContext(ctx).With("svc", "auth.authenticate")

	hash := Sha256Hex(token)
	now := s.now()

	if s.Cache != nil {
		entry, err := s.Cache.Get(ctx, hash)
		switch {
		case err == nil && entry.ExpiresAt.After(now):
			return &entry.User, nil
		case err != nil && !errors.Is(err, cache.ErrMiss):
			l.Warn("session_cache_get_failed", "error", err)
		}
	}

	session, err := s.Repo.GetSessionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown session", ErrUnauthenticated)
		}
		return nil, err
	}

	if !session.Valid(now) {
		if err := s.Repo.DeleteSessionByHash(ctx, hash); err != nil {
			l.Warn("expired_session_delete_failed", "error", err)
		}
		s.evict(ctx, hash)
		return nil, fmt.Errorf("%w: session expired", ErrUnauthenticated)
	}

	user, err := s.Repo.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user gone", ErrUnauthenticated)
		}
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, hash, cache.SessionEntry{User: *user, ExpiresAt: session.ExpiresAt}); err != nil {
			l.Warn("session_cache_set_failed", "error", err)
		}
	}
	return user, nil
}

// Logout forgets the session behind token; an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	hash := Sha256Hex(token)
	s.evict(ctx, hash)
	return s.Repo.DeleteSessionByHash(ctx, hash)
}

func (s *AuthService) evict(ctx context.Context, hash string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, hash); err != nil {
		logging.FromContext(ctx).Warn("session_cache_delete_failed", "error", err)
	}
}

// SweepExpired periodically removes sessions past their expiry until ctx ends.
func (s *AuthService) SweepExpired(ctx context.Context, every time.Duration) {
	l := logging.FromContext(ctx).With("svc", "auth.sweep_expired")
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Repo.DeleteExpiredSessions(ctx, s.now())
			if err != nil {
				l.Warn("sweep_failed", "error", err)
				continue
			}
			if n > 0 {
				l.Info("expired_sessions_removed", "count", n)
			}
		}
	}
}
