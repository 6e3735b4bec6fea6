package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	bookings := g.Group("/bookings")

	// === Public Routes ===
	{
		bookings.POST("", h.Create)
		bookings.GET("/reference/:reference", h.GetByReference)
	}

	// === Staff Routes ===
	staffGroup := bookings.Group("")
	staffGroup.Use(authMiddleware, staffMiddleware)
	{
		staffGroup.GET("", h.List)
		staffGroup.GET("/export", h.Export)
		staffGroup.GET("/:id", h.Get)
		staffGroup.PATCH("/:id/status", h.UpdateStatus)
	}
}
