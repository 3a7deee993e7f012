package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/internal/utility"
	"github.com/captiveportal/portal-cms/pkg/apierr"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

// UtilityService proxies the public weather and currency widgets.
type UtilityService interface {
	Weather(ctx context.Context, lat, lon, tz string) (*utility.WeatherReport, error)
	Rates(ctx context.Context, base string, symbols []string) (*utility.RatesReport, error)
}

func RegisterUtilityRoutes(rg *gin.RouterGroup, svc UtilityService) {
	g := rg.Group("/utility")

	g.GET("/weather", func(c *gin.Context) {
		rep, err := svc.Weather(c.Request.Context(), c.Query("lat"), c.Query("lon"), c.Query("tz"))
		if err != nil {
			logger.Warnf("weather: %v", err)
			apierr.Abort(c, apierr.UpstreamUnavailable, "Weather service unavailable")
			return
		}
		c.Header("Cache-Control", "public, max-age=300")
		c.JSON(http.StatusOK, rep)
	})

	g.GET("/rates", func(c *gin.Context) {
		rep, err := svc.Rates(c.Request.Context(), c.Query("base"), utility.ParseSymbols(c.Query("symbols")))
		if err != nil {
			logger.Warnf("rates: %v", err)
			apierr.Abort(c, apierr.UpstreamUnavailable, "Exchange rate service unavailable")
			return
		}
		c.Header("Cache-Control", "public, max-age=600")
		c.JSON(http.StatusOK, rep)
	})
}
