package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/halcyonmedia/site-services/pkg/logger"
)

// Recovery turns a panic in any handler into a JSON 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, rec any) {
		logger.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	})
}
