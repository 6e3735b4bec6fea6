package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ketensuites/keten-backend/internal/auth"
	"github.com/ketensuites/keten-backend/internal/staff"
)

// RequireActiveStaff ensures the token belongs to an active account with one
// of roles. It MUST be used after auth.AuthRequired.
func RequireActiveStaff(service staff.Service, roles ...staff.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID := auth.GetUserID(c)
		if staffID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		s, err := service.GetByID(c.Request.Context(), staffID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "staff member not found"})
			return
		}
		if !s.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff account is inactive"})
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, r := range roles {
				if s.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
				return
			}
		}

		c.Next()
	}
}
