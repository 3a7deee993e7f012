package store

import (
	"context"
	"errors"
	"time"

	"github.com/captiveportal/portal-cms/internal/content"
)

// ErrMalformed is returned by Load when the persisted document cannot be decoded.
var ErrMalformed = errors.New("persisted content is malformed")

// Store persists the single content document as an atomic unit.
type Store interface {
	// Load returns the last persisted document, or content.Default() when
	// nothing has been saved yet.
	Load(ctx context.Context) (*content.Document, error)
	// Save replaces the persisted document. A failed Save leaves the previous
	// document readable.
	Save(ctx context.Context, doc *content.Document) error
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// stamp fills LastModified when the caller left it zero.
func stamp(doc *content.Document) {
	if doc.LastModified == 0 {
		doc.LastModified = nowMillis()
	}
}
