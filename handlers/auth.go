package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/captiveportal/portal-cms/internal/sessions"
	"github.com/captiveportal/portal-cms/pkg/apierr"
	"github.com/captiveportal/portal-cms/pkg/logger"
	"github.com/captiveportal/portal-cms/pkg/middleware"
)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// SessionService is what the auth endpoints need from the session authority.
type SessionService interface {
	Login(ctx context.Context, password string) (*sessions.Session, error)
	Validate(ctx context.Context, token string) (sessions.Status, error)
	Revoke(ctx context.Context, token string) error
}

// AuthHandler serves login, logout and session checks.
type AuthHandler struct {
	sessions SessionService
}

func NewAuthHandler(s SessionService) *AuthHandler {
	return &AuthHandler{sessions: s}
}

// Register routes under /api. loginGuards run before the login handler.
func (h *AuthHandler) Register(rg *gin.RouterGroup, loginGuards ...gin.HandlerFunc) {
	chain := append(append([]gin.HandlerFunc{}, loginGuards...), h.Login)
	rg.POST("/login", chain...)
	rg.POST("/logout", h.Logout)
	rg.GET("/check-session", h.CheckSession)
}

// Login exchanges the admin password for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		apierr.Abort(c, apierr.BadRequest, "invalid request body")
		return
	}
	sess, err := h.sessions.Login(c.Request.Context(), req.Password)
	if err != nil {
		if errors.Is(err, sessions.ErrInvalidCredentials) {
			logger.Warnf("login rejected from %s", c.ClientIP())
			apierr.Abort(c, apierr.InvalidCredentials, "Invalid password")
			return
		}
		logger.Errorf("login: %v", err)
		apierr.Abort(c, apierr.Internal, "login failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": sess.Token,
		"expiresAt": sess.ExpiresAt.UnixMilli(),
	})
}

// Logout revokes the caller's session. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	if tok := c.GetHeader(middleware.SessionHeader); tok != "" {
		if err := h.sessions.Revoke(c.Request.Context(), tok); err != nil {
			logger.Warnf("logout: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckSession reports whether the caller's token is still valid.
func (h *AuthHandler) CheckSession(c *gin.Context) {
	st, err := h.sessions.Validate(c.Request.Context(), c.GetHeader(middleware.SessionHeader))
	if err != nil {
		logger.Errorf("check session: %v", err)
		apierr.Abort(c, apierr.Internal, "session check failed")
		return
	}
	if !st.Valid {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "expiresAt": st.ExpiresAt.UnixMilli()})
}
