package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the portal API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>portal-cms Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "portal-cms", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "session": { "type": "apiKey", "in": "header", "name": "x-session-id" } }
  },
  "paths": {
    "/api/login": {
      "post": {
        "summary": "Exchange the admin password for a session",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "sessionId and expiresAt" }, "401": { "description": "invalid password" }, "429": { "description": "rate limited" } }
      }
    },
    "/api/logout": {
      "post": { "summary": "Revoke the caller's session", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/check-session": {
      "get": { "summary": "Report whether the session is valid", "responses": { "200": { "description": "authenticated flag and expiry" } } }
    },
    "/api/content": {
      "get": { "summary": "Full content document", "responses": { "200": { "description": "content document" }, "500": { "description": "store failure" } } }
    },
    "/api/save-content": {
      "post": {
        "summary": "Replace the content document",
        "security": [ { "session": [] } ],
        "parameters": [ { "name": "x-base-modified", "in": "header", "required": false, "schema": { "type": "integer" } } ],
        "responses": { "200": { "description": "saved with new _lastModified" }, "401": { "description": "unauthorized" }, "409": { "description": "stale base" }, "500": { "description": "store failure" } }
      }
    },
    "/api/upload": {
      "post": {
        "summary": "Upload a media file",
        "security": [ { "session": [] } ],
        "parameters": [ { "name": "folder", "in": "query", "required": false, "schema": { "type": "string" } } ],
        "responses": { "200": { "description": "url and filename" }, "400": { "description": "no file" }, "413": { "description": "too large" } }
      }
    },
    "/api/portal": {
      "get": { "summary": "Localized portal view with fresh rotation", "parameters": [ { "name": "lang", "in": "query", "required": false, "schema": { "type": "string", "enum": ["BA","EN"] } } ], "responses": { "200": { "description": "portal view" } } }
    },
    "/api/utility/weather": { "get": { "summary": "Current weather", "responses": { "200": { "description": "weather" }, "502": { "description": "upstream unavailable" } } } },
    "/api/utility/rates": { "get": { "summary": "Exchange rates", "responses": { "200": { "description": "rates" }, "502": { "description": "upstream unavailable" } } } },
    "/ws": { "get": { "summary": "Content change push channel (websocket)", "responses": { "101": { "description": "switching protocols" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
