package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/pkg/apierr"
)

// StaticHandler serves the built portal and admin single-page apps.
type StaticHandler struct {
	portalDir string
	adminDir  string
}

// NewStaticHandler serves publicDir/portal at / and publicDir/admin at /admin.
func NewStaticHandler(publicDir string) *StaticHandler {
	return &StaticHandler{
		portalDir: filepath.Join(publicDir, "portal"),
		adminDir:  filepath.Join(publicDir, "admin"),
	}
}

// Serve resolves a path to a file of the matching build, falling back to
// that build's index.html for client-side routes.
func (h *StaticHandler) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		apierr.Abort(c, apierr.NotFound, "not found")
		return
	}
	p := path.Clean("/" + c.Request.URL.Path)
	if p == "/api" || strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/assets/") {
		apierr.Abort(c, apierr.NotFound, "not found")
		return
	}
	c.Request.URL.Path = p

	dir, rel := h.portalDir, p
	if p == "/admin" || strings.HasPrefix(p, "/admin/") {
		dir, rel = h.adminDir, strings.TrimPrefix(p, "/admin")
	}
	if rel != "" && rel != "/" {
		if f := filepath.Join(dir, filepath.FromSlash(rel)); isFile(f) {
			c.File(f)
			return
		}
	}
	index := filepath.Join(dir, "index.html")
	if !isFile(index) {
		apierr.Abort(c, apierr.NotFound, "frontend build not found")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(index)
}

func isFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
