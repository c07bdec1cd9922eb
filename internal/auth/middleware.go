package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avoronov/bookstore/internal/entities"
)

// UserStore resolves API tokens to users.
type UserStore interface {
	GetByTokenHash(hash string) (*entities.User, error)
}

// Middleware resolves the caller's identity for each request.
type Middleware struct {
	users UserStore
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(users UserStore) *Middleware {
	return &Middleware{users: users}
}

// Handler returns a Gin middleware that authenticates requests via Bearer
// token. Requests without a valid token continue anonymously; handlers
// enforce their own access rules.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := m.tryBearerAuth(c); user != nil {
			SetUser(c, user)
		}
		c.Next()
	}
}

// tryBearerAuth attempts to authenticate using a Bearer token.
func (m *Middleware) tryBearerAuth(c *gin.Context) *entities.User {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}

	user, err := m.users.GetByTokenHash(HashToken(parts[1]))
	if err != nil {
		return nil
	}
	return user
}
