package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/captiveportal/portal-cms/internal/content"
	"github.com/captiveportal/portal-cms/internal/content/store"
	"github.com/captiveportal/portal-cms/internal/sessions"
	"github.com/captiveportal/portal-cms/pkg/logger"
	"github.com/captiveportal/portal-cms/pkg/metrics"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrPersistence  = errors.New("persistence failure")
	// ErrConflict is returned in strict mode when the stored document has
	// moved past the caller's base timestamp.
	ErrConflict = errors.New("content changed since base timestamp")
)

// SessionValidator is the subset of sessions.Service the content service needs.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (sessions.Status, error)
}

// Notifier fans out a change event to every viewer except origin.
type Notifier interface {
	Notify(origin string) int
}

// SaveOptions carries optional per-save inputs.
type SaveOptions struct {
	// BaseModified is the _lastModified the editor last observed. Only
	// consulted when strict concurrency is enabled; zero disables the check.
	BaseModified int64
}

// Service coordinates reads and authenticated writes of the content document.
type Service struct {
	store    store.Store
	sessions SessionValidator
	notifier Notifier
	strict   bool
	now      func() time.Time

	// mu serializes saves so stamps never go backwards.
	mu        sync.Mutex
	lastStamp int64
}

type Option func(*Service)

// WithStrictConcurrency enables server-side rejection of saves whose base
// timestamp is older than the stored document.
func WithStrictConcurrency(on bool) Option {
	return func(s *Service) { s.strict = on }
}

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(st store.Store, v SessionValidator, n Notifier, opts ...Option) *Service {
	s := &Service{store: st, sessions: v, notifier: n, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Strict reports whether strict concurrency is enabled.
func (s *Service) Strict() bool { return s.strict }

// GetContent returns the current document with absent sections filled in.
func (s *Service) GetContent(ctx context.Context) (*content.Document, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		logger.Errorf("load content: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return content.Normalize(doc), nil
}

// SaveContent persists doc on behalf of the session originToken and notifies
// every other viewer. The returned document carries the assigned stamp.
func (s *Service) SaveContent(ctx context.Context, doc *content.Document, originToken string, opts SaveOptions) (*content.Document, error) {
	st, err := s.sessions.Validate(ctx, originToken)
	if err != nil {
		metrics.ContentSaves.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("validate session: %w", err)
	}
	if !st.Valid {
		metrics.ContentSaves.WithLabelValues("unauthorized").Inc()
		return nil, ErrUnauthorized
	}
	if doc == nil {
		doc = content.Default()
	}

	s.mu.Lock()
	saved, err := s.persist(ctx, doc, opts)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	metrics.ContentSaves.WithLabelValues("ok").Inc()
	n := 0
	if s.notifier != nil {
		n = s.notifier.Notify(originToken)
	}
	logger.Infof("content saved by %s (_lastModified=%d), notified %d viewers", logger.Truncate(originToken), saved.LastModified, n)
	return saved, nil
}

// persist must be called with mu held.
func (s *Service) persist(ctx context.Context, doc *content.Document, opts SaveOptions) (*content.Document, error) {
	if s.strict || s.lastStamp == 0 {
		current, err := s.store.Load(ctx)
		if err != nil {
			if s.strict {
				metrics.ContentSaves.WithLabelValues("error").Inc()
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			logger.Warnf("load before save: %v", err)
		} else {
			if current.LastModified > s.lastStamp {
				s.lastStamp = current.LastModified
			}
			if s.strict && opts.BaseModified > 0 && current.LastModified > opts.BaseModified {
				metrics.ContentSaves.WithLabelValues("conflict").Inc()
				logger.Warnf("save rejected: stored %d newer than base %d", current.LastModified, opts.BaseModified)
				return nil, ErrConflict
			}
		}
	}

	out := content.Clone(doc)
	stamp := s.now().UnixMilli()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	out.LastModified = stamp

	if err := s.store.Save(ctx, out); err != nil {
		metrics.ContentSaves.WithLabelValues("error").Inc()
		logger.Errorf("save content: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.lastStamp = stamp
	return out, nil
}
