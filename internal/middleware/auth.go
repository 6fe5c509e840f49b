package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/homecare-api/pkg/auth"
	apperrors "github.com/jwalitptl/homecare-api/pkg/errors"
	"github.com/jwalitptl/homecare-api/pkg/httputil"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate verifies the bearer token and sets the caller's user id in
// context. A missing or malformed header is 401; a token that fails
// verification is 403.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized("access denied, no token provided", nil))
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			httputil.RespondWithError(c, apperrors.Unauthorized("invalid authorization format", nil))
			return
		}

		userID, err := m.jwtService.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				httputil.RespondWithError(c, apperrors.Unauthorized("access denied, no token provided", nil))
				return
			}
			httputil.RespondWithError(c, apperrors.Forbidden("invalid token", err))
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the id set by Authenticate.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
