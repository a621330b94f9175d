package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/halcyonmedia/site-services/internal/apierr"
	"github.com/halcyonmedia/site-services/internal/inquiry"
	"github.com/halcyonmedia/site-services/internal/inquiry/service"
	"github.com/halcyonmedia/site-services/pkg/logger"
)

type submitRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Company   string `json:"company" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Message   string `json:"message" binding:"max=5000"`
	Source    string `json:"source" binding:"required"`
}

// RegisterRoutes mounts POST /sponsor-inquiry on r. guards run before the
// handler (bot check, rate limiting).
func RegisterRoutes(r gin.IRoutes, svc *service.Service, guards ...gin.HandlerFunc) {
	submit := func(c *gin.Context) {
		var req submitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
			return
		}
		in := &inquiry.Inquiry{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Company:   strings.TrimSpace(req.Company),
			Email:     strings.TrimSpace(req.Email),
			Phone:     strings.TrimSpace(req.Phone),
			Message:   req.Message,
			Source:    req.Source,
			ClientIP:  c.ClientIP(),
		}
		id, err := svc.Submit(c.Request.Context(), in)
		if err != nil {
			var ue *apierr.UpstreamError
			switch {
			case errors.As(err, &ue):
				logger.Warnf("inquiry webhook: %v", err)
				c.JSON(http.StatusBadGateway, gin.H{"error": ue.Message})
			case errors.Is(err, service.ErrNotDelivered):
				c.JSON(http.StatusInternalServerError, gin.H{"error": apierr.GenericMessage})
			default:
				logger.Errorf("inquiry submit: %v", err)
				c.JSON(http.StatusBadGateway, gin.H{"error": apierr.GenericMessage})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Inquiry received", "id": id})
	}
	handlers := append(append([]gin.HandlerFunc{}, guards...), submit)
	r.POST("/sponsor-inquiry", handlers...)
}

// RegisterAdminRoutes mounts GET /admin/inquiries. r must already carry the
// auth middleware.
func RegisterAdminRoutes(r gin.IRoutes, svc *service.Service) {
	r.GET("/admin/inquiries", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			logger.Errorf("list inquiries: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list inquiries"})
			return
		}
		c.JSON(http.StatusOK, list)
	})
}

// bindingMessage turns the first validation failure into a visitor-facing
// sentence.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email format"
	case "max":
		return fmt.Sprintf("%s is too long", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
