package sessions

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/captiveportal/portal-cms/pkg/logger"
	"github.com/captiveportal/portal-cms/pkg/metrics"
)

// DefaultTTL is how long a session stays valid after login.
const DefaultTTL = 24 * time.Hour

// ErrInvalidCredentials is returned by Login when the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues, validates and revokes editor sessions against a single
// shared admin password.
type Service struct {
	repo     Repository
	password string
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(r Repository, password string, opts ...Option) *Service {
	s := &Service{repo: r, password: password, ttl: DefaultTTL, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login checks password and mints a new session.
func (s *Service) Login(ctx context.Context, password string) (*Session, error) {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		metrics.Logins.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &Session{Token: token, CreatedAt: now, ExpiresAt: now.Add(s.ttl)}
	if err := s.repo.Create(ctx, sess); err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	logger.Infof("session created %s, expires %s", logger.Truncate(token), sess.ExpiresAt.Format(time.RFC3339))
	return sess, nil
}

// Validate reports whether token names a live session. Expired sessions are
// evicted as a side effect.
func (s *Service) Validate(ctx context.Context, token string) (Status, error) {
	if token == "" {
		return Status{}, nil
	}
	sess, err := s.repo.Get(ctx, token)
	if err != nil {
		return Status{}, err
	}
	if sess == nil {
		return Status{}, nil
	}
	if sess.Expired(s.now().UTC()) {
		_ = s.repo.Delete(ctx, token)
		logger.Debugf("session %s expired, evicted", logger.Truncate(token))
		return Status{}, nil
	}
	return Status{Valid: true, ExpiresAt: sess.ExpiresAt}, nil
}

// Revoke removes the session. Revoking an unknown token is not an error.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.Delete(ctx, token)
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
