package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/halcyonmedia/site-services/pkg/logger"
)

// RegisterRoutes mounts the read-only content routes under r.
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	r.GET("/content/cards", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Cards(c.Request.Context(), c.Query("category")))
	})

	r.GET("/content/feed", func(c *gin.Context) {
		t := FeedType(c.Query("type"))
		if t != "" && !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown feed type"})
			return
		}
		items, err := svc.Feed(c.Request.Context(), t)
		if err != nil {
			logger.Errorf("list feed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
			return
		}
		c.JSON(http.StatusOK, items)
	})

	r.GET("/content/events", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Events())
	})

	r.GET("/content/pricing", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Pricing())
	})
}
