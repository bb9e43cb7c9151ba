package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studyflow/internal/apperr"
)

// respondError maps the domain taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an opaque upstream failure: the action fails,
// the app stays up, nothing is retried.
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.IsUnauthenticated(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperr.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.IsExpired(err):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "store request failed"})
	}
}
