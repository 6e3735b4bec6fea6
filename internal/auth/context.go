package auth

import "github.com/gin-gonic/gin"

const (
	ctxStaffID    = "staffID"
	ctxStaffEmail = "staffEmail"
	ctxStaffRole  = "staffRole"
)

// GetUserID returns the authenticated staff member's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxStaffID)
}

// GetUserEmail returns the authenticated staff member's email or empty string.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxStaffEmail)
}

// GetRole returns the role carried by the access token.
func GetRole(c *gin.Context) string {
	return c.GetString(ctxStaffRole)
}
