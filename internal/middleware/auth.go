package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

const (
	ContextUser  = "user"
	ContextToken = "token"
)

// TokenValidator resolves an API token to its user.
type TokenValidator interface {
	ValidateToken(ctx context.Context, key string) (*model.User, error)
}

type AuthMiddleware struct {
	tokens TokenValidator
}

func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate requires a valid token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return m.handle(true)
}

// Optional authenticates the caller when a token is presented. A request
// without an Authorization header passes through anonymously; a bad token
// is still rejected.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return m.handle(false)
}

func (m *AuthMiddleware) handle(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				httputil.RespondWithError(c, apperrors.NewUnauthorized("Authentication credentials were not provided.", nil))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		key, ok := parseAuthorization(header)
		if !ok {
			httputil.RespondWithError(c, apperrors.NewUnauthorized("Invalid token header. No credentials provided.", nil))
			c.Abort()
			return
		}

		user, err := m.tokens.ValidateToken(c.Request.Context(), key)
		if err != nil {
			httputil.RespondWithError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextToken, key)
		c.Next()
	}
}

// parseAuthorization accepts "Bearer <key>" and "Token <key>".
func parseAuthorization(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	switch strings.ToLower(parts[0]) {
	case "bearer", "token":
		return parts[1], true
	}
	return "", false
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
