package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avoronov/bookstore/internal/auth"
	"github.com/avoronov/bookstore/internal/config"
	"github.com/avoronov/bookstore/internal/database"
	"github.com/avoronov/bookstore/internal/database/books"
	"github.com/avoronov/bookstore/internal/database/relations"
	"github.com/avoronov/bookstore/internal/database/users"
	http_controllers "github.com/avoronov/bookstore/internal/http"
)

func Serve(router *gin.Engine, cfg *config.Config, db *database.Database) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookstore API v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	userRepo := users.NewRepository(db.DB, cfg.Auth.BcryptCost)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		BookStore:      books.NewRepository(db.DB),
		UserStore:      userRepo,
		RelationStore:  relations.NewRepository(db.DB),
		AuthMiddleware: auth.NewMiddleware(userRepo),
		Database:       db,
		Version:        version,
	})

	Serve(router, cfg, db)
}
