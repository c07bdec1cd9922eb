package http

import (
	"github.com/gin-gonic/gin"

	"github.com/avoronov/bookstore/internal/auth"
	"github.com/avoronov/bookstore/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	BookStore     BookStore
	UserStore     UserStore
	RelationStore RelationStore

	AuthMiddleware *auth.Middleware

	Database *database.Database
	Version  string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.BookStore)
	usersController := NewUsersController(cfg.UserStore)
	relationsController := NewRelationsController(cfg.RelationStore, cfg.BookStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Book collection
	router.GET("/books", booksController.List)
	router.POST("/books", booksController.Create)
	router.GET("/books/:id", booksController.Retrieve)
	router.PUT("/books/:id", booksController.Update)
	router.PATCH("/books/:id", booksController.PartialUpdate)
	router.DELETE("/books/:id", booksController.Delete)

	// User collection (staff only)
	router.GET("/users", usersController.List)
	router.POST("/users", usersController.Create)
	router.GET("/users/:id", usersController.Retrieve)
	router.PUT("/users/:id", usersController.Update)
	router.PATCH("/users/:id", usersController.PartialUpdate)
	router.DELETE("/users/:id", usersController.Delete)

	// Per-user book relations (like / bookmark / rating)
	router.PATCH("/relations/:book_id", relationsController.Patch)

	return router
}
