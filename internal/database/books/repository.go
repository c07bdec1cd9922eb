// Package books provides database operations for the book catalog.
//
// List and GetByID return rows annotated with the computed aggregates
// (likes count, average rating) so the HTTP layer never issues
// per-object queries.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	rows, err := repo.List(books.ListOptions{Search: "tolkien"})
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/avoronov/bookstore/internal/entities"
)

// ErrInvalidOrdering is returned when ListOptions.Ordering is not one of
// the allowed ordering keys.
var ErrInvalidOrdering = errors.New("invalid ordering")

// AnnotatedBook is a book row plus its query-time aggregates.
// Rating is nil when the book has no non-null ratings.
type AnnotatedBook struct {
	ID      uint
	Title   string
	Author  string
	Price   float64
	OwnerID *uint
	Likes   int64
	Rating  *float64
}

// ListOptions narrows and orders the book list. Zero values mean "no filter".
type ListOptions struct {
	Title    string   // exact match
	Price    *float64 // exact match
	Search   string   // case-insensitive substring over title and author
	Ordering string   // price, author, -price, -author; empty for id order
}

var orderingColumns = map[string]string{
	"price":   "books.price ASC",
	"-price":  "books.price DESC",
	"author":  "books.author ASC",
	"-author": "books.author DESC",
}

// annotatedSelect attaches likes and rating aggregates to each book row.
// "like" needs quoting: it is a keyword in SQLite.
const annotatedSelect = `books.id, books.title, books.author, books.price, books.owner_id,
(SELECT COUNT(*) FROM user_book_relations r WHERE r.book_id = books.id AND r."like") AS likes,
(SELECT AVG(r.rating) FROM user_book_relations r WHERE r.book_id = books.id AND r.rating IS NOT NULL) AS rating`

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns annotated books matching opts.
func (r *Repository) List(opts ListOptions) ([]AnnotatedBook, error) {
	ordering, err := orderingClause(opts.Ordering)
	if err != nil {
		return nil, err
	}

	query := r.db.Model(&entities.Book{}).Select(annotatedSelect)
	if opts.Title != "" {
		query = query.Where("books.title = ?", opts.Title)
	}
	if opts.Price != nil {
		query = query.Where("books.price = ?", *opts.Price)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("LOWER(books.title) LIKE LOWER(?) OR LOWER(books.author) LIKE LOWER(?)", pattern, pattern)
	}

	var rows []AnnotatedBook
	err = query.Order(ordering).Scan(&rows).Error
	return rows, err
}

// GetByID returns one annotated book, or gorm.ErrRecordNotFound.
func (r *Repository) GetByID(id uint) (*AnnotatedBook, error) {
	var row AnnotatedBook
	result := r.db.Model(&entities.Book{}).Select(annotatedSelect).
		Where("books.id = ?", id).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// GetEntity loads the plain book row, without aggregates, for mutation.
func (r *Repository) GetEntity(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Create persists a new book.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// Save persists changes to an existing book.
func (r *Repository) Save(book *entities.Book) error {
	return r.db.Save(book).Error
}

// Delete removes a book and all of its relation rows.
// Returns gorm.ErrRecordNotFound when the book does not exist.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.UserBookRelation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func orderingClause(ordering string) (string, error) {
	if ordering == "" {
		return "books.id ASC", nil
	}
	clause, ok := orderingColumns[ordering]
	if !ok {
		return "", ErrInvalidOrdering
	}
	return clause, nil
}
