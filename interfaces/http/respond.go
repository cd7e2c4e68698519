package http

import (
	"errors"
	"net/http"

	"tiktok-studio/infrastructure/clients/tiktok"
	"tiktok-studio/usecase"

	"github.com/gin-gonic/gin"
)

// respondError converts the error taxonomy into the flat {error} envelope:
// validation and platform (domain) errors are 400s with the platform's own
// message, everything else is a 500 transport failure.
func respondError(c *gin.Context, err error) {
	var validationErr usecase.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}
	var platformErr *tiktok.PlatformError
	if errors.As(err, &platformErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": platformErr.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
