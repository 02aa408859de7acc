package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffOnly admits only authenticated staff users. Must run after the auth
// middleware that sets isStaff.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, exists := c.Get("isStaff")
		if !exists || isStaff != true {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Staff only",
				"code":    "FORBIDDEN",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
