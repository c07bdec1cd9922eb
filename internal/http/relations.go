package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avoronov/bookstore/internal/auth"
	"github.com/avoronov/bookstore/internal/entities"
)

// RelationStore defines database operations for user-book relation rows.
type RelationStore interface {
	GetOrCreate(userID, bookID uint) (*entities.UserBookRelation, bool, error)
	Update(relation *entities.UserBookRelation, updates map[string]any) error
}

// BookFinder resolves the book referenced in the URL path.
type BookFinder interface {
	GetEntity(id uint) (*entities.Book, error)
}

// RelationsController handles the caller's own like/bookmark/rating state.
// The relation row is always resolved by (caller, book id), never by a
// relation id, so callers can only ever touch their own rows.
type RelationsController struct {
	store RelationStore
	books BookFinder
}

func NewRelationsController(store RelationStore, books BookFinder) *RelationsController {
	return &RelationsController{store: store, books: books}
}

// Patch upserts the caller's relation to the book in the URL path and
// applies a partial update. The row is created with default values on the
// caller's first interaction.
// PATCH /relations/:book_id
func (rc *RelationsController) Patch(c *gin.Context) {
	user := auth.GetUser(c)
	if user == nil {
		respondForbidden(c, msgNotAuthenticated)
		return
	}

	bookID, ok := parseIDParam(c, "book_id")
	if !ok {
		return
	}

	if _, err := rc.books.GetEntity(bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "patch relation")
		return
	}

	updates, fields, ok := parseRelationPatch(c)
	if !ok {
		return
	}
	if fields != nil {
		respondValidationError(c, fields)
		return
	}

	relation, _, err := rc.store.GetOrCreate(user.ID, bookID)
	if err != nil {
		respondInternalError(c, err, "patch relation")
		return
	}

	if err := rc.store.Update(relation, updates); err != nil {
		respondInternalError(c, err, "patch relation")
		return
	}

	c.JSON(http.StatusOK, NewRelationResponse(*relation))
}

// parseRelationPatch decodes the partial update body. It distinguishes
// absent fields from explicit nulls so that "rating": null clears a rating
// while an omitted rating leaves it untouched. Returns ok=false when a
// response has already been written.
func parseRelationPatch(c *gin.Context) (map[string]any, map[string]string, bool) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return nil, nil, false
	}

	updates := make(map[string]any)
	fields := make(map[string]string)

	if raw, ok := body["like"]; ok {
		var value bool
		if err := json.Unmarshal(raw, &value); err != nil {
			fields["like"] = "must be a valid boolean"
		} else {
			updates["like"] = value
		}
	}

	if raw, ok := body["in_bookmarks"]; ok {
		var value bool
		if err := json.Unmarshal(raw, &value); err != nil {
			fields["in_bookmarks"] = "must be a valid boolean"
		} else {
			updates["in_bookmarks"] = value
		}
	}

	if raw, ok := body["rating"]; ok {
		if isJSONNull(raw) {
			updates["rating"] = nil
		} else {
			var value int
			if err := json.Unmarshal(raw, &value); err != nil {
				fields["rating"] = "a valid integer is required"
			} else if !entities.IsValidRating(value) {
				fields["rating"] = fmt.Sprintf("%d is not a valid choice", value)
			} else {
				updates["rating"] = value
			}
		}
	}

	if len(fields) > 0 {
		return nil, fields, true
	}
	return updates, nil, true
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
