package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/avoronov/bookstore/internal/entities"
)

// ContextKeyUser is the gin context key holding the authenticated user.
const ContextKeyUser = "auth_user"

// SetUser stores the authenticated user in the request context.
func SetUser(c *gin.Context, user *entities.User) {
	c.Set(ContextKeyUser, user)
}

// GetUser returns the authenticated user, or nil for anonymous requests.
func GetUser(c *gin.Context) *entities.User {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := value.(*entities.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID returns the authenticated user's ID, or 0 for anonymous requests.
func GetUserID(c *gin.Context) uint {
	user := GetUser(c)
	if user == nil {
		return 0
	}
	return user.ID
}
