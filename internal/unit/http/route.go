package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	units := g.Group("/units")

	// === Public Routes ===
	{
		units.GET("", h.Search)
		units.GET("/:slug", h.Get)
		units.GET("/:slug/blocked-dates", h.BlockedDates)
		units.GET("/:slug/quote", h.Quote)
	}

	// === Staff Routes ===
	staffGroup := units.Group("")
	staffGroup.Use(authMiddleware, staffMiddleware)
	{
		staffGroup.POST("", h.Create)
		staffGroup.PATCH("/:id", h.Update)
		staffGroup.DELETE("/:id", h.Delete)
	}
}
