package http

import (
	"github.com/gin-gonic/gin"

	"github.com/ketensuites/keten-backend/internal/staff"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, staffMiddleware gin.HandlerFunc) {
	group := g.Group("/staff")

	// === Public Routes ===
	group.POST("/login", h.Login)

	// === Staff Routes ===
	group.GET("/me", authMiddleware, staffMiddleware, h.Me)

	// === Admin Routes ===
	group.POST("", authMiddleware, RequireActiveStaff(h.service, staff.RoleAdmin), h.Create)
}
