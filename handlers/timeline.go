package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/halcyonmedia/site-services/internal/timeline"
)

// RegisterTimeline serves GET /timeline/:name?p=, the state of a preset
// timeline at progress p. Pages use it to render the first frame before any
// scrolling happens.
func RegisterTimeline(r gin.IRoutes, presets map[string]timeline.Timeline) {
	r.GET("/timeline/:name", func(c *gin.Context) {
		tl, ok := presets[c.Param("name")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown timeline"})
			return
		}
		p := 0.0
		if raw := c.Query("p"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "p must be a number"})
				return
			}
			p = v
		}
		seq, err := timeline.New(tl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer seq.Close()
		c.JSON(http.StatusOK, gin.H{"name": tl.Name, "length": tl.Length, "p": p, "state": seq.Seek(p)})
	})
}
