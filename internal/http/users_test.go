package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/bookstore/internal/entities"
)

func TestUsersController_StaffGate(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/users"},
		{"GET", "/users/1"},
		{"POST", "/users"},
		{"PUT", "/users/1"},
		{"PATCH", "/users/1"},
		{"DELETE", "/users/1"},
	}

	t.Run("anonymous callers are rejected on every operation", func(t *testing.T) {
		_, router, cleanup := setupTestAPI(t)
		defer cleanup()

		for _, p := range paths {
			w := doRequest(router, p.method, p.path, "", strings.NewReader(`{}`))
			assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", p.method, p.path)
		}
	})

	t.Run("non-staff callers are rejected on every operation", func(t *testing.T) {
		db, router, cleanup := setupTestAPI(t)
		defer cleanup()

		_, token := createTestUser(t, db, "regular", false)
		for _, p := range paths {
			w := doRequest(router, p.method, p.path, token, strings.NewReader(`{}`))
			assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", p.method, p.path)
		}
	})
}

func TestUsersController_List(t *testing.T) {
	t.Run("returns users with owned book links", func(t *testing.T) {
		db, router, cleanup := setupTestAPI(t)
		defer cleanup()

		_, staffToken := createTestUser(t, db, "admin", true)
		owner, _ := createTestUser(t, db, "owner", false)
		book := createTestBook(t, db, "Test Book 1", "Author 1", 299, &owner.ID)

		w := doRequest(router, "GET", "/users", staffToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var responses []UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responses))
		require.Len(t, responses, 2)

		assert.Equal(t, "admin", responses[0].Username)
		assert.Empty(t, responses[0].UserOwner)

		require.Len(t, responses[1].UserOwner, 1)
		assert.True(t, strings.HasSuffix(responses[1].UserOwner[0], fmt.Sprintf("/books/%d", book.ID)))
		assert.True(t, strings.HasPrefix(responses[1].UserOwner[0], "http://"))
	})
}

func TestUsersController_Retrieve(t *testing.T) {
	t.Run("formats date_joined as HH:MM:SS YYYY-MM-DD", func(t *testing.T) {
		db, router, cleanup := setupTestAPI(t)
		defer cleanup()

		staff, staffToken := createTestUser(t, db, "admin", true)

		w := doRequest(router, "GET", fmt.Sprintf("/users/%d", staff.ID), staffToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, staff.CreatedAt.Format("15:04:05 2006-01-02"), response.DateJoined)
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		db, router, cleanup := setupTestAPI(t)
		defer cleanup()

		_, staffToken := createTestUser(t, db, "admin", true)

		w := doRequest(router, "GET", "/users/42", staffToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUsersController_Create(t *testing.T) {
	t.Run("staff can create users", func(t *testing.T) {
		db, router, cleanup := setupTestAPI(t)
		defer cleanup()

		_, staffToken := createTestUser(t, db, "admin", true)

		body := strings.NewReader(`{"username": "newuser", "email": "new@example.com"}`)
		w := doRequest(router, "POST", "/users", staffToken, body)
		assert.Equal(t, http.StatusCreated, w.Code)

		var response UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "newuser", response.Username)
		assert.Equal(t, "new@example.com", response.Email)
	})

	t.Run("rejects a missing username", func(t *testing.T) {
		db, router, cleanup := setupTestAPI(t)
		defer cleanup()

		_, staffToken := createTestUser(t, db, "admin", true)

		w := doRequest(router, "POST", "/users", staffToken, strings.NewReader(`{"email": "x@example.com"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUsersController_Delete(t *testing.T) {
	t.Run("detaches owned books and removes relation rows", func(t *testing.T) {
		db, router, cleanup := setupTestAPI(t)
		defer cleanup()

		_, staffToken := createTestUser(t, db, "admin", true)
		owner, _ := createTestUser(t, db, "owner", false)
		book := createTestBook(t, db, "Test Book 1", "Author 1", 299, &owner.ID)
		require.NoError(t, db.DB.Create(&entities.UserBookRelation{
			UserID: owner.ID, BookID: book.ID, Like: true,
		}).Error)

		w := doRequest(router, "DELETE", fmt.Sprintf("/users/%d", owner.ID), staffToken, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		var stored entities.Book
		require.NoError(t, db.DB.First(&stored, book.ID).Error)
		assert.Nil(t, stored.OwnerID)

		var relationCount int64
		db.DB.Model(&entities.UserBookRelation{}).Count(&relationCount)
		assert.Equal(t, int64(0), relationCount)
	})
}
