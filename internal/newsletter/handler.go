package newsletter

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts POST /newsletter on r (normally the /api group).
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	r.POST("/newsletter", func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": visitorMessage(ErrEmailRequired)})
			return
		}
		res, err := svc.Subscribe(c.Request.Context(), req.Email)
		switch {
		case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": visitorMessage(err)})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": visitorMessage(err)})
			return
		}
		if !res.OK {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe", "details": res.Details})
			return
		}
		out := gin.H{"message": "Successfully subscribed"}
		if len(res.Warnings) > 0 {
			out["warnings"] = res.Warnings
		}
		c.JSON(http.StatusOK, out)
	})
}

// visitorMessage maps service errors to the text shown by the signup form.
func visitorMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmailRequired):
		return "Email is required"
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email format"
	case errors.Is(err, ErrNotConfigured):
		return "Newsletter signup is not configured"
	default:
		return "Failed to subscribe"
	}
}
