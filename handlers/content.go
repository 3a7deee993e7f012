package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/internal/content"
	"github.com/captiveportal/portal-cms/internal/content/service"
	"github.com/captiveportal/portal-cms/pkg/apierr"
	"github.com/captiveportal/portal-cms/pkg/logger"
	"github.com/captiveportal/portal-cms/pkg/middleware"
)

// BaseModifiedHeader optionally carries the _lastModified the editor based
// its changes on.
const BaseModifiedHeader = "x-base-modified"

// ContentService defines the content operations used by the handler layer.
type ContentService interface {
	GetContent(ctx context.Context) (*content.Document, error)
	SaveContent(ctx context.Context, doc *content.Document, originToken string, opts service.SaveOptions) (*content.Document, error)
}

// RegisterContentRoutes registers the public read and the authenticated save.
func RegisterContentRoutes(rg *gin.RouterGroup, svc ContentService, auth gin.HandlerFunc) {
	rg.GET("/content", func(c *gin.Context) {
		doc, err := svc.GetContent(c.Request.Context())
		if err != nil {
			apierr.Abort(c, apierr.PersistenceFailure, "Failed to load content")
			return
		}
		c.Header("Cache-Control", "no-cache")
		c.JSON(http.StatusOK, doc)
	})

	rg.POST("/save-content", auth, func(c *gin.Context) {
		var doc content.Document
		if err := bindJSON(c, &doc); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				apierr.Abort(c, apierr.PayloadTooLarge, "content document too large")
				return
			}
			apierr.Abort(c, apierr.BadRequest, "invalid content document")
			return
		}
		var opts service.SaveOptions
		if v := c.GetHeader(BaseModifiedHeader); v != "" {
			base, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				apierr.Abort(c, apierr.BadRequest, "invalid "+BaseModifiedHeader+" header")
				return
			}
			opts.BaseModified = base
		}

		saved, err := svc.SaveContent(c.Request.Context(), &doc, middleware.SessionToken(c), opts)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"success": true, "_lastModified": saved.LastModified})
		case errors.Is(err, service.ErrUnauthorized):
			apierr.Abort(c, apierr.Unauthorized, "Unauthorized")
		case errors.Is(err, service.ErrConflict):
			apierr.Abort(c, apierr.ConflictDetected, "content was changed by another editor")
		default:
			logger.Errorf("save content: %v", err)
			apierr.Abort(c, apierr.PersistenceFailure, "Failed to save content")
		}
	})
}
