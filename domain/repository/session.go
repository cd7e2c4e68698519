package repository

import (
	"github.com/gin-gonic/gin"

	"tiktok-studio/domain/model"
)

// ISessionStore owns the encrypted credential cookie. Handlers never touch
// the cookie transport directly.
//
// Load is NOT a pure accessor: when the access token is inside its refresh
// window it performs one network refresh and one cookie write before
// returning, and clears the credential when that refresh fails.
type ISessionStore interface {
	Save(c *gin.Context, session *model.Session) error
	Load(c *gin.Context) *model.Session
	Clear(c *gin.Context)
}
