// Package relations provides database operations for user-book relation rows
// (like, bookmark, rating state).
//
// A relation row is created implicitly the first time a user interacts with a
// book. GetOrCreate runs inside a transaction and the schema carries a unique
// (user_id, book_id) index, so concurrent first interactions cannot produce
// duplicate rows.
package relations

import (
	"errors"

	"gorm.io/gorm"

	"github.com/avoronov/bookstore/internal/entities"
)

// Repository handles all user-book relation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new relations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate looks up the relation for (userID, bookID), inserting a row
// with default flag values on miss. The second return value reports whether
// a row was created.
func (r *Repository) GetOrCreate(userID, bookID uint) (*entities.UserBookRelation, bool, error) {
	var relation entities.UserBookRelation
	created := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&relation).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		relation = entities.UserBookRelation{UserID: userID, BookID: bookID}
		if createErr := tx.Create(&relation).Error; createErr != nil {
			// Lost the insert race; the unique index guarantees the row
			// exists now, so fall back to the lookup.
			if lookupErr := tx.Where("user_id = ? AND book_id = ?", userID, bookID).
				First(&relation).Error; lookupErr != nil {
				return createErr
			}
			return nil
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &relation, created, nil
}

// Update applies a partial field update to a relation row and reloads it.
// The updates map uses column names (like, in_bookmarks, rating); a nil
// rating value clears the rating.
func (r *Repository) Update(relation *entities.UserBookRelation, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.Model(relation).Updates(updates).Error; err != nil {
		return err
	}
	return r.db.First(relation, relation.ID).Error
}

// GetForBook returns all relation rows referencing a book.
func (r *Repository) GetForBook(bookID uint) ([]entities.UserBookRelation, error) {
	var rows []entities.UserBookRelation
	err := r.db.Where("book_id = ?", bookID).Order("id ASC").Find(&rows).Error
	return rows, err
}
