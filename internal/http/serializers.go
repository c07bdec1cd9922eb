package http

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avoronov/bookstore/internal/database/books"
	"github.com/avoronov/bookstore/internal/entities"
)

// dateJoinedFormat renders timestamps as "HH:MM:SS YYYY-MM-DD".
const dateJoinedFormat = "15:04:05 2006-01-02"

// BookResponse is the client-facing book record. Price and Rating are
// rendered with exactly 2 fractional digits; Rating is null until the book
// has at least one rating.
type BookResponse struct {
	ID     uint    `json:"id"`
	Title  string  `json:"title"`
	Price  string  `json:"price"`
	Author string  `json:"author"`
	Likes  int64   `json:"likes"`
	Rating *string `json:"rating"`
}

// NewBookResponse shapes an annotated book row for the client.
func NewBookResponse(row books.AnnotatedBook) BookResponse {
	response := BookResponse{
		ID:     row.ID,
		Title:  row.Title,
		Price:  formatDecimal(row.Price),
		Author: row.Author,
		Likes:  row.Likes,
	}
	if row.Rating != nil {
		rating := formatDecimal(*row.Rating)
		response.Rating = &rating
	}
	return response
}

// NewBookResponseList shapes a list of annotated book rows.
func NewBookResponseList(rows []books.AnnotatedBook) []BookResponse {
	responses := make([]BookResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, NewBookResponse(row))
	}
	return responses
}

// UserResponse is the client-facing user record. UserOwner holds detail URLs
// of the books the user owns.
type UserResponse struct {
	ID         uint     `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	DateJoined string   `json:"date_joined"`
	UserOwner  []string `json:"user_owner"`
}

// NewUserResponse shapes a user with preloaded owned books. baseURL carries
// the request's scheme and host.
func NewUserResponse(user entities.User, baseURL string) UserResponse {
	owned := make([]string, 0, len(user.OwnedBooks))
	for _, book := range user.OwnedBooks {
		owned = append(owned, fmt.Sprintf("%s/books/%d", baseURL, book.ID))
	}
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		DateJoined: user.CreatedAt.Format(dateJoinedFormat),
		UserOwner:  owned,
	}
}

// RelationResponse is the client-facing user-book relation record.
type RelationResponse struct {
	Book        uint `json:"book"`
	Like        bool `json:"like"`
	InBookmarks bool `json:"in_bookmarks"`
	Rating      *int `json:"rating"`
}

// NewRelationResponse shapes a relation row for the client.
func NewRelationResponse(relation entities.UserBookRelation) RelationResponse {
	return RelationResponse{
		Book:        relation.BookID,
		Like:        relation.Like,
		InBookmarks: relation.InBookmarks,
		Rating:      relation.Rating,
	}
}

// formatDecimal renders a value with exactly 2 fractional digits.
func formatDecimal(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// requestBaseURL reconstructs the scheme and host of the inbound request for
// hyperlinked fields.
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
