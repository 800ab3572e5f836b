package middleware

import (
	"net/http"
	"strings"

	"job-board/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// TokenVerifier is satisfied by *utils.TokenIssuer.
type TokenVerifier interface {
	Verify(token string, purpose utils.TokenPurpose) (*utils.Claims, error)
}

// AuthMiddleware accepts an access token from the accessToken cookie or an
// Authorization bearer header.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
				c.Abort()
				return
			}

			var ok bool
			token, ok = BearerToken(authHeader)
			if !ok {
				utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
				c.Abort()
				return
			}
		}

		claims, err := verifier.Verify(token, utils.PurposeAccess)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// UserIDFromContext returns the id AuthMiddleware stored for the request.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
