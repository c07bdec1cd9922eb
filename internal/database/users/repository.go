// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db, bcryptCost)
//	user, token, err := repo.Create("alice", "alice@example.com", "", false)
package users

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/avoronov/bookstore/internal/auth"
	"github.com/avoronov/bookstore/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db         *gorm.DB
	bcryptCost int
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB, bcryptCost int) *Repository {
	return &Repository{db: db, bcryptCost: bcryptCost}
}

// Create creates a new user with a generated API token and returns the
// plaintext token, which is never stored and cannot be recovered later.
// An empty password leaves the password hash unset.
func (r *Repository) Create(username, email, password string, isStaff bool) (*entities.User, string, error) {
	token, tokenHash, err := auth.GenerateAPIToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user := &entities.User{
		Username:  username,
		Email:     email,
		TokenHash: tokenHash,
		IsStaff:   isStaff,
	}

	if password != "" {
		hash, err := auth.HashPassword(password, r.bcryptCost)
		if err != nil {
			return nil, "", err
		}
		user.PasswordHash = hash
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// List returns all users with their owned books preloaded.
func (r *Repository) List() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Preload("OwnedBooks").Order("id ASC").Find(&users).Error
	return users, err
}

// GetByID retrieves a user by ID with owned books preloaded.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.Preload("OwnedBooks").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByTokenHash retrieves a user by the sha256 hash of their API token.
func (r *Repository) GetByTokenHash(hash string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("token_hash = ?", hash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Save persists changes to an existing user.
func (r *Repository) Save(user *entities.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user, detaches their owned books and cascades their
// relation rows, all in one transaction.
// Returns gorm.ErrRecordNotFound when the user does not exist.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Book{}).Where("owner_id = ?", id).
			Update("owner_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.UserBookRelation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
