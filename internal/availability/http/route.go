package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/availability")

	// === Public Routes ===
	{
		group.GET("", h.Check)
		group.GET("/blocked-dates", h.BlockedDates)
		group.GET("/calendar.ics", h.Calendar)
	}

	// === Staff Routes ===
	staffGroup := group.Group("/overrides")
	staffGroup.Use(authMiddleware, staffMiddleware)
	{
		staffGroup.PUT("", h.UpsertOverride)
		staffGroup.DELETE("", h.DeleteOverride)
	}
}
