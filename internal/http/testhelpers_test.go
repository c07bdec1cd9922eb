package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/bookstore/internal/auth"
	"github.com/avoronov/bookstore/internal/database"
	"github.com/avoronov/bookstore/internal/database/books"
	"github.com/avoronov/bookstore/internal/database/relations"
	"github.com/avoronov/bookstore/internal/database/users"
	"github.com/avoronov/bookstore/internal/entities"
)

// setupTestAPI builds a fully wired router backed by a throwaway database.
func setupTestAPI(t *testing.T) (*database.Database, *gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_api_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	userRepo := users.NewRepository(db.DB, 12)
	router := NewRouter(RouterConfig{
		BookStore:      books.NewRepository(db.DB),
		UserStore:      userRepo,
		RelationStore:  relations.NewRepository(db.DB),
		AuthMiddleware: auth.NewMiddleware(userRepo),
		Database:       db,
		Version:        "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, router, cleanup
}

// createTestUser provisions a user and returns it with its plaintext API token.
func createTestUser(t *testing.T, db *database.Database, username string, staff bool) (*entities.User, string) {
	t.Helper()
	repo := users.NewRepository(db.DB, 12)
	user, token, err := repo.Create(username, username+"@example.com", "", staff)
	require.NoError(t, err)
	return user, token
}

// doRequest performs a request against the router, attaching the Bearer
// token when one is given.
func doRequest(router *gin.Engine, method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}
