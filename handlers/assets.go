package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/internal/storage"
	"github.com/captiveportal/portal-cms/pkg/apierr"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

// Presigner is implemented by blob stores that can hand out direct download URLs.
type Presigner interface {
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

const presignTTL = 15 * time.Minute

// AssetsHandler serves uploaded media under /assets.
type AssetsHandler struct {
	blobs storage.BlobStore
	// fallbackDir, when set, is tried for paths the blob store does not have
	// (bundled portal build assets).
	fallbackDir string
	presign     bool
}

type AssetsOption func(*AssetsHandler)

// WithFallbackDir serves files from dir when the blob store has no object.
func WithFallbackDir(dir string) AssetsOption {
	return func(h *AssetsHandler) { h.fallbackDir = dir }
}

// WithPresignedRedirects redirects to presigned URLs when the store supports it.
func WithPresignedRedirects(on bool) AssetsOption {
	return func(h *AssetsHandler) { h.presign = on }
}

func NewAssetsHandler(b storage.BlobStore, opts ...AssetsOption) *AssetsHandler {
	h := &AssetsHandler{blobs: b}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *AssetsHandler) Register(r gin.IRoutes) {
	r.GET(storage.URLPrefix+"/*path", h.Serve)
	r.HEAD(storage.URLPrefix+"/*path", h.Serve)
}

func (h *AssetsHandler) Serve(c *gin.Context) {
	rel := path.Clean("/" + c.Param("path"))
	ctx := c.Request.Context()

	if p, ok := h.blobs.(Presigner); ok && h.presign {
		u, err := p.PresignedURL(ctx, rel, presignTTL)
		if err == nil {
			c.Redirect(http.StatusFound, u)
			return
		}
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warnf("presign %s: %v", rel, err)
		}
	}

	rc, info, err := h.blobs.Open(ctx, rel)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if h.serveFallback(c, rel) {
				return
			}
			apierr.Abort(c, apierr.NotFound, "asset not found")
			return
		}
		logger.Errorf("open asset %s: %v", rel, err)
		apierr.Abort(c, apierr.Internal, "failed to read asset")
		return
	}
	defer rc.Close()

	if info.ContentType != "" {
		c.Header("Content-Type", info.ContentType)
	}
	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(c.Writer, c.Request, path.Base(rel), info.ModTime, rs)
		return
	}
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, nil)
}

func (h *AssetsHandler) serveFallback(c *gin.Context, rel string) bool {
	if h.fallbackDir == "" {
		return false
	}
	p := filepath.Join(h.fallbackDir, filepath.FromSlash(rel))
	if !isFile(p) {
		return false
	}
	c.File(p)
	return true
}
