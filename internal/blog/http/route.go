package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	posts := g.Group("/blog")

	// === Public Routes ===
	{
		posts.GET("", h.List)
		posts.GET("/:slug", h.Get)
	}

	// === Staff Routes ===
	staffGroup := g.Group("/staff/blog")
	staffGroup.Use(authMiddleware, staffMiddleware)
	{
		staffGroup.GET("", h.ListAll)
		staffGroup.GET("/:id", h.GetByID)
		staffGroup.POST("", h.Create)
		staffGroup.PATCH("/:id", h.Update)
		staffGroup.DELETE("/:id", h.Delete)
	}
}
