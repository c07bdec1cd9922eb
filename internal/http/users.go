package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avoronov/bookstore/internal/auth"
	"github.com/avoronov/bookstore/internal/entities"
)

// UserStore defines database operations for user administration.
type UserStore interface {
	Create(username, email, password string, isStaff bool) (*entities.User, string, error)
	List() ([]entities.User, error)
	GetByID(id uint) (*entities.User, error)
	Save(user *entities.User) error
	Delete(id uint) error
}

// UsersController exposes user CRUD, restricted entirely to staff callers.
type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

// requireStaff denies non-staff callers (including anonymous ones) with 403.
func (uc *UsersController) requireStaff(c *gin.Context) bool {
	user := auth.GetUser(c)
	if user == nil {
		respondForbidden(c, msgNotAuthenticated)
		return false
	}
	if !user.IsStaff {
		respondForbidden(c, msgPermissionDenied)
		return false
	}
	return true
}

// List returns all users.
// GET /users
func (uc *UsersController) List(c *gin.Context) {
	if !uc.requireStaff(c) {
		return
	}

	users, err := uc.store.List()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}

	baseURL := requestBaseURL(c)
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user, baseURL))
	}
	c.JSON(http.StatusOK, responses)
}

// Retrieve returns a single user.
// GET /users/:id
func (uc *UsersController) Retrieve(c *gin.Context) {
	if !uc.requireStaff(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "retrieve user")
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(*user, requestBaseURL(c)))
}

type userPayload struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// Create adds a user record.
// POST /users
func (uc *UsersController) Create(c *gin.Context) {
	if !uc.requireStaff(c) {
		return
	}

	var payload userPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if payload.Username == nil || *payload.Username == "" {
		respondValidationError(c, map[string]string{"username": "this field is required"})
		return
	}

	email := ""
	if payload.Email != nil {
		email = *payload.Email
	}

	user, _, err := uc.store.Create(*payload.Username, email, "", false)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			respondValidationError(c, map[string]string{"username": "a user with that username already exists"})
			return
		}
		respondInternalError(c, err, "create user")
		return
	}

	respondCreated(c, NewUserResponse(*user, requestBaseURL(c)))
}

// Update modifies a user record. PUT requires username; PATCH does not.
// PUT/PATCH /users/:id
func (uc *UsersController) Update(c *gin.Context) {
	uc.update(c, false)
}

func (uc *UsersController) PartialUpdate(c *gin.Context) {
	uc.update(c, true)
}

func (uc *UsersController) update(c *gin.Context, partial bool) {
	if !uc.requireStaff(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "update user")
		return
	}

	var payload userPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if !partial && (payload.Username == nil || *payload.Username == "") {
		respondValidationError(c, map[string]string{"username": "this field is required"})
		return
	}
	if payload.Username != nil && *payload.Username == "" {
		respondValidationError(c, map[string]string{"username": "this field may not be blank"})
		return
	}

	if payload.Username != nil {
		user.Username = *payload.Username
	}
	if payload.Email != nil {
		user.Email = *payload.Email
	}

	if err := uc.store.Save(user); err != nil {
		respondInternalError(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, NewUserResponse(*user, requestBaseURL(c)))
}

// Delete removes a user; their books lose their owner and their relation
// rows are removed.
// DELETE /users/:id
func (uc *UsersController) Delete(c *gin.Context) {
	if !uc.requireStaff(c) {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := uc.store.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
