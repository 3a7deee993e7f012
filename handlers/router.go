package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/internal/broadcast"
	"github.com/captiveportal/portal-cms/internal/storage"
	"github.com/captiveportal/portal-cms/pkg/apierr"
	"github.com/captiveportal/portal-cms/pkg/middleware"
)

// Deps are the collaborators the HTTP surface is built from. Nil optional
// fields leave the corresponding routes unregistered.
type Deps struct {
	Sessions SessionService
	Content  ContentService
	Hub      *broadcast.Hub

	Blobs          storage.BlobStore
	UploadMaxBytes int64
	AssetOptions   []AssetsOption

	Utility UtilityService

	// LoginGuards run in front of POST /api/login (rate limiting).
	LoginGuards []gin.HandlerFunc
	// Middleware is installed on the engine before any route.
	Middleware []gin.HandlerFunc
	// PublicDir enables serving the built portal and admin apps.
	PublicDir string
}

// CORS reflects the request origin and allows the session headers.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := c.GetHeader("Origin"); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, "+middleware.SessionHeader+", "+BaseModifiedHeader)
		h.Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// NewRouter wires every portal route onto a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(CORS())
	r.Use(d.Middleware...)

	auth := middleware.SessionAuth(d.Sessions)
	api := r.Group("/api")

	NewAuthHandler(d.Sessions).Register(api, d.LoginGuards...)
	RegisterContentRoutes(api, d.Content, auth)
	RegisterPortalRoutes(api, d.Content)
	if d.Utility != nil {
		RegisterUtilityRoutes(api, d.Utility)
	}
	if d.Blobs != nil {
		NewUploadHandler(d.Blobs, d.UploadMaxBytes).Register(api, auth)
		NewAssetsHandler(d.Blobs, d.AssetOptions...).Register(r)
	}
	RegisterSwagger(r)

	notFound := func(c *gin.Context) { apierr.Abort(c, apierr.NotFound, "not found") }
	if d.PublicDir != "" {
		notFound = NewStaticHandler(d.PublicDir).Serve
	}
	if d.Hub != nil {
		r.GET("/ws", ServeWS(d.Hub))
		r.GET("/", UpgradeOr(d.Hub, notFound))
	}
	r.NoRoute(notFound)
	return r
}
