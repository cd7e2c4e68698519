package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"time"

	"tiktok-studio/domain/model"
	"tiktok-studio/domain/repository"
	"tiktok-studio/infrastructure/configuration"
	"tiktok-studio/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

const stateCookie = "tiktok_oauth_state"

// IAuthHandler defines the OAuth flow handlers.
type IAuthHandler interface {
	Login(ctx *gin.Context)
	Callback(ctx *gin.Context)
	Logout(ctx *gin.Context)
	Refresh(ctx *gin.Context)
}

type authHandler struct {
	tiktok   repository.ITikTok
	sessions repository.ISessionStore
}

// NewAuthHandler creates the OAuth flow handler.
func NewAuthHandler(tiktok repository.ITikTok, sessions repository.ISessionStore) IAuthHandler {
	return &authHandler{tiktok: tiktok, sessions: sessions}
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func secureCookies() bool {
	return configuration.C.App.Env == "production" || configuration.C.App.Env == "prod"
}

// Login handles GET /auth/login: issues the CSRF state cookie and redirects
// to the consent screen.
func (h *authHandler) Login(c *gin.Context) {
	state := randomState()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 600, "/", "", secureCookies(), true)
	c.Redirect(http.StatusFound, h.tiktok.AuthorizationURL(state))
}

func loginRedirect(c *gin.Context, message string) {
	base := configuration.C.App.BaseURL
	c.Redirect(http.StatusFound, base+"/login?error="+url.QueryEscape(message))
}

// Callback handles GET /auth/callback: verifies the CSRF state, exchanges
// the code and persists the session. Any failure redirects back to login
// with a message; a session is never partially persisted.
func (h *authHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		msg := c.Query("error_description")
		if msg == "" {
			msg = errParam
		}
		loginRedirect(c, msg)
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		loginRedirect(c, "Missing authorization code or state")
		return
	}

	// Single-use: the stored state is deleted before comparison, regardless
	// of match outcome.
	storedState, err := c.Cookie(stateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, "", -1, "/", "", secureCookies(), true)
	if err != nil || storedState == "" || storedState != state {
		loginRedirect(c, "Invalid state parameter. Please try again.")
		return
	}

	tokens, err := h.tiktok.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Token exchange failed")
		loginRedirect(c, err.Error())
		return
	}

	session := model.SessionFromTokens(tokens, time.Now())
	if err := h.sessions.Save(c, session); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to persist session")
		loginRedirect(c, "Authentication failed")
		return
	}

	c.Redirect(http.StatusFound, configuration.C.App.BaseURL+"/dashboard")
}

// Logout handles POST /auth/logout: best-effort remote revoke, then clears
// the local credential. Logout always succeeds locally.
func (h *authHandler) Logout(c *gin.Context) {
	if session := h.sessions.Load(c); session != nil {
		if err := h.tiktok.RevokeToken(c.Request.Context(), session.AccessToken); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Token revocation failed, continuing logout")
		}
	}
	h.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "redirectUrl": configuration.C.App.BaseURL})
}

// Refresh handles POST /auth/refresh: forces a token refresh for the current
// session.
func (h *authHandler) Refresh(c *gin.Context) {
	session := h.sessions.Load(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	tokens, err := h.tiktok.RefreshToken(c.Request.Context(), session.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	updated := model.SessionFromTokens(tokens, time.Now())
	if err := h.sessions.Save(c, updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "expiresAt": updated.ExpiresAt})
}
