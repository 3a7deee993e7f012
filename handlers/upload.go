package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/internal/storage"
	"github.com/captiveportal/portal-cms/pkg/apierr"
	"github.com/captiveportal/portal-cms/pkg/logger"
	"github.com/captiveportal/portal-cms/pkg/metrics"
)

// multipartOverhead is slack on top of the file ceiling for multipart framing
// and small form fields.
const multipartOverhead = 1 << 20

// UploadHandler streams a single multipart file into a BlobStore.
type UploadHandler struct {
	blobs    storage.BlobStore
	maxBytes int64
}

func NewUploadHandler(b storage.BlobStore, maxBytes int64) *UploadHandler {
	return &UploadHandler{blobs: b, maxBytes: maxBytes}
}

func (h *UploadHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("/upload", auth, h.Upload)
}

// capped fails with storage.ErrTooLarge once more than max bytes were read.
type capped struct {
	r        io.Reader
	left     int64
	exceeded bool
}

func (c *capped) Read(p []byte) (int, error) {
	if c.left < 0 {
		c.exceeded = true
		return 0, storage.ErrTooLarge
	}
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		c.exceeded = true
		return 0, storage.ErrTooLarge
	}
	return n, err
}

// Upload handles POST /api/upload?folder=<hint> with a multipart "file" field.
func (h *UploadHandler) Upload(c *gin.Context) {
	folder, err := storage.CleanFolder(c.Query("folder"))
	if err != nil {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		apierr.Abort(c, apierr.BadRequest, "invalid folder")
		return
	}
	if h.maxBytes > 0 && c.Request.ContentLength > h.maxBytes+multipartOverhead {
		metrics.Uploads.WithLabelValues("too_large").Inc()
		apierr.Abort(c, apierr.PayloadTooLarge, "file exceeds upload limit")
		return
	}
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	mr, err := c.Request.MultipartReader()
	if err != nil {
		metrics.Uploads.WithLabelValues("rejected").Inc()
		apierr.Abort(c, apierr.BadRequest, "expected multipart/form-data")
		return
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			h.fail(c, err)
			return
		}
		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}
		name, err := storage.CleanName(part.FileName())
		if err != nil {
			_ = part.Close()
			metrics.Uploads.WithLabelValues("rejected").Inc()
			apierr.Abort(c, apierr.BadRequest, "invalid file name")
			return
		}
		ctype := part.Header.Get("Content-Type")
		if ctype == "" || ctype == "application/octet-stream" {
			if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
				ctype = byExt
			}
		}

		var body io.Reader = part
		var limit *capped
		if h.maxBytes > 0 {
			limit = &capped{r: part, left: h.maxBytes}
			body = limit
		}
		url, err := h.blobs.Put(c.Request.Context(), folder, name, body, -1, ctype)
		_ = part.Close()
		if err != nil {
			if limit != nil && limit.exceeded {
				err = storage.ErrTooLarge
			}
			h.fail(c, err)
			return
		}
		metrics.Uploads.WithLabelValues("ok").Inc()
		logger.Infof("upload stored: %s", url)
		c.JSON(http.StatusOK, gin.H{"success": true, "url": url, "filename": name})
		return
	}
	metrics.Uploads.WithLabelValues("rejected").Inc()
	apierr.Abort(c, apierr.BadRequest, "No file uploaded")
}

func (h *UploadHandler) fail(c *gin.Context, err error) {
	var mbe *http.MaxBytesError
	switch {
	case errors.Is(err, storage.ErrTooLarge), errors.As(err, &mbe):
		metrics.Uploads.WithLabelValues("too_large").Inc()
		apierr.Abort(c, apierr.PayloadTooLarge, "file exceeds upload limit")
	case errors.Is(err, storage.ErrInvalidFolder), errors.Is(err, storage.ErrInvalidName):
		metrics.Uploads.WithLabelValues("rejected").Inc()
		apierr.Abort(c, apierr.BadRequest, err.Error())
	default:
		metrics.Uploads.WithLabelValues("error").Inc()
		logger.Errorf("upload: %v", err)
		apierr.Abort(c, apierr.PersistenceFailure, "Upload failed")
	}
}
