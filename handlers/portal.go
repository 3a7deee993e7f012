package handlers

import (
	"math/rand/v2"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/internal/content"
	"github.com/captiveportal/portal-cms/pkg/apierr"
)

type randPicker struct{}

func (randPicker) Intn(n int) int { return rand.IntN(n) }

// RegisterPortalRoutes serves the per-request public view with fresh rotation.
func RegisterPortalRoutes(rg *gin.RouterGroup, svc ContentService) {
	registerPortal(rg, svc, randPicker{})
}

func registerPortal(rg *gin.RouterGroup, svc ContentService, p content.Picker) {
	rg.GET("/portal", func(c *gin.Context) {
		doc, err := svc.GetContent(c.Request.Context())
		if err != nil {
			apierr.Abort(c, apierr.PersistenceFailure, "Failed to load content")
			return
		}
		lang, ok := content.ParseLanguage(c.Query("lang"))
		if !ok {
			lang = content.DetectLanguage(c.GetHeader("Accept-Language"))
		}
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, content.Rotate(doc, lang, p))
	})
}
