package middleware

import (
	"net/http"

	"tiktok-studio/domain/model"
	"tiktok-studio/domain/repository"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Session rejects requests without a valid credential. Loading may itself
// refresh the token and rewrite the cookie; handlers downstream read the
// already-validated session from the context.
func Session(store repository.ISessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := store.Load(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session placed on the context by the middleware.
func SessionFrom(c *gin.Context) *model.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*model.Session)
	return session
}
