package middleware

import (
	"net/http"

	"job-board/pkg/utils"

	"github.com/gin-gonic/gin"
)

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
			c.Abort()
			return
		}

		userRole, _ := role.(string)

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func RecruiterOnly() gin.HandlerFunc {
	return RoleMiddleware(utils.RoleRecruiter)
}

func ApplicantOnly() gin.HandlerFunc {
	return RoleMiddleware(utils.RoleApplicant)
}
