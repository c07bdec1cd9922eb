package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avoronov/bookstore/internal/auth"
	"github.com/avoronov/bookstore/internal/database/books"
	"github.com/avoronov/bookstore/internal/entities"
)

// maxBookPrice bounds prices to 7 total digits with 2 fractional digits.
const maxBookPrice = 100000

// BookStore defines database operations for the book catalog.
type BookStore interface {
	List(opts books.ListOptions) ([]books.AnnotatedBook, error)
	GetByID(id uint) (*books.AnnotatedBook, error)
	GetEntity(id uint) (*entities.Book, error)
	Create(book *entities.Book) error
	Save(book *entities.Book) error
	Delete(id uint) error
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

// List returns all books, filtered, searched and ordered per query params,
// each annotated with likes and rating.
// GET /books
func (bc *BooksController) List(c *gin.Context) {
	opts := books.ListOptions{
		Title:    c.Query("title"),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}

	if priceStr := c.Query("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			respondBadRequest(c, "invalid price")
			return
		}
		opts.Price = &price
	}

	rows, err := bc.store.List(opts)
	if err != nil {
		if errors.Is(err, books.ErrInvalidOrdering) {
			respondBadRequest(c, "invalid ordering: must be one of price, author, -price, -author")
			return
		}
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, NewBookResponseList(rows))
}

// Retrieve returns a single annotated book.
// GET /books/:id
func (bc *BooksController) Retrieve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	row, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "retrieve book")
		return
	}

	c.JSON(http.StatusOK, NewBookResponse(*row))
}

type bookPayload struct {
	Title  *string  `json:"title"`
	Author *string  `json:"author"`
	Price  *float64 `json:"price"`
}

// validate checks field presence and ranges. When partial is true, absent
// fields are not required.
func (p bookPayload) validate(partial bool) map[string]string {
	fields := make(map[string]string)
	if p.Title == nil {
		if !partial {
			fields["title"] = "this field is required"
		}
	} else if *p.Title == "" {
		fields["title"] = "this field may not be blank"
	}
	if p.Author == nil {
		if !partial {
			fields["author"] = "this field is required"
		}
	} else if *p.Author == "" {
		fields["author"] = "this field may not be blank"
	}
	if p.Price == nil {
		if !partial {
			fields["price"] = "this field is required"
		}
	} else if math.IsNaN(*p.Price) || math.Abs(*p.Price) >= maxBookPrice {
		fields["price"] = "ensure that there are no more than 7 digits in total"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// apply copies the supplied fields onto the book, storing prices with
// exactly 2 fractional digits.
func (p bookPayload) apply(book *entities.Book) {
	if p.Title != nil {
		book.Title = *p.Title
	}
	if p.Author != nil {
		book.Author = *p.Author
	}
	if p.Price != nil {
		book.Price = math.Round(*p.Price*100) / 100
	}
}

// Create persists a new book; the creating user is force-assigned as owner
// regardless of client-supplied input.
// POST /books
func (bc *BooksController) Create(c *gin.Context) {
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if fields := payload.validate(false); fields != nil {
		respondValidationError(c, fields)
		return
	}

	book := &entities.Book{}
	payload.apply(book)
	if user := auth.GetUser(c); user != nil {
		book.OwnerID = &user.ID
	}

	if err := bc.store.Create(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	row, err := bc.store.GetByID(book.ID)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, NewBookResponse(*row))
}

// Update replaces all writable fields of a book. Owner-or-staff only.
// PUT /books/:id
func (bc *BooksController) Update(c *gin.Context) {
	bc.update(c, false)
}

// PartialUpdate patches a subset of a book's fields. Owner-or-staff only.
// PATCH /books/:id
func (bc *BooksController) PartialUpdate(c *gin.Context) {
	bc.update(c, true)
}

func (bc *BooksController) update(c *gin.Context, partial bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetEntity(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	if !auth.CanAccessBook(auth.GetUser(c), book.OwnerID, false) {
		respondForbidden(c, msgPermissionDenied)
		return
	}

	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if fields := payload.validate(partial); fields != nil {
		respondValidationError(c, fields)
		return
	}

	payload.apply(book)
	if err := bc.store.Save(book); err != nil {
		respondInternalError(c, err, "update book")
		return
	}

	row, err := bc.store.GetByID(book.ID)
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, NewBookResponse(*row))
}

// Delete hard-deletes a book and its relation rows. Owner-or-staff only.
// DELETE /books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetEntity(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	if !auth.CanAccessBook(auth.GetUser(c), book.OwnerID, false) {
		respondForbidden(c, msgPermissionDenied)
		return
	}

	if err := bc.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	c.Status(http.StatusNoContent)
}
