package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	props := g.Group("/properties")

	// === Public Routes ===
	{
		props.GET("", h.List)
		props.GET("/:slug", h.Get)
	}

	// === Staff Routes ===
	staffGroup := props.Group("")
	staffGroup.Use(authMiddleware, staffMiddleware)
	{
		staffGroup.POST("", h.Create)
		staffGroup.PATCH("/:id", h.Update)
		staffGroup.DELETE("/:id", h.Delete)

		staffGroup.POST("/:id/images", h.UploadImage)
		staffGroup.DELETE("/:id/images/:image_id", h.DeleteImage)
		staffGroup.PUT("/:id/amenities", h.SetAmenities)
	}
}
