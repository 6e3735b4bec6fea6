package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/media")

	// === Public Routes ===
	{
		group.GET("/:id", h.Serve)
		group.GET("/:id/thumbnail", h.ServeThumbnail)
	}
}
