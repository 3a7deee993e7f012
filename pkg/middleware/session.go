package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/internal/sessions"
	"github.com/captiveportal/portal-cms/pkg/apierr"
	"github.com/captiveportal/portal-cms/pkg/logger"
)

// SessionHeader is the request header carrying the editor session token.
const SessionHeader = "x-session-id"

// Context keys set by SessionAuth.
const (
	ContextSession   = "sessionId"
	ContextExpiresAt = "sessionExpiresAt"
)

// SessionValidator is the minimal interface the middleware depends on
type SessionValidator interface {
	Validate(ctx context.Context, token string) (sessions.Status, error)
}

// SessionAuth rejects requests without a live session token and stores the
// token in the gin context for downstream handlers.
func SessionAuth(v SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			apierr.Abort(c, apierr.Unauthorized, "Unauthorized")
			return
		}
		st, err := v.Validate(c.Request.Context(), token)
		if err != nil {
			logger.Errorf("validate session: %v", err)
			apierr.Abort(c, apierr.Internal, "session check failed")
			return
		}
		if !st.Valid {
			apierr.Abort(c, apierr.Unauthorized, "Session expired or invalid")
			return
		}
		c.Set(ContextSession, token)
		c.Set(ContextExpiresAt, st.ExpiresAt)
		c.Next()
	}
}

// SessionToken returns the token stored by SessionAuth, or "".
func SessionToken(c *gin.Context) string {
	return c.GetString(ContextSession)
}
