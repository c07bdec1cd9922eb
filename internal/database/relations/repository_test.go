package relations

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/bookstore/internal/database"
	"github.com/avoronov/bookstore/internal/entities"
)

func setupRelationsTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()

	dbPath := "./test_relations_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func seedUserAndBook(t *testing.T, db *database.Database) (*entities.User, *entities.Book) {
	t.Helper()
	user := &entities.User{Username: "reader", TokenHash: "hash"}
	require.NoError(t, db.DB.Create(user).Error)
	book := &entities.Book{Title: "Test Book", Author: "Author", Price: 100}
	require.NoError(t, db.DB.Create(book).Error)
	return user, book
}

func TestRepository_GetOrCreate(t *testing.T) {
	t.Run("creates a row with defaults on first access", func(t *testing.T) {
		db, cleanup := setupRelationsTestDB(t)
		defer cleanup()
		repo := NewRepository(db.DB)

		user, book := seedUserAndBook(t, db)

		relation, created, err := repo.GetOrCreate(user.ID, book.ID)
		require.NoError(t, err)
		assert.True(t, created)
		assert.False(t, relation.Like)
		assert.False(t, relation.InBookmarks)
		assert.Nil(t, relation.Rating)
	})

	t.Run("returns the existing row on subsequent access", func(t *testing.T) {
		db, cleanup := setupRelationsTestDB(t)
		defer cleanup()
		repo := NewRepository(db.DB)

		user, book := seedUserAndBook(t, db)

		first, created, err := repo.GetOrCreate(user.ID, book.ID)
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := repo.GetOrCreate(user.ID, book.ID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.DB.Model(&entities.UserBookRelation{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("the unique index rejects duplicate rows", func(t *testing.T) {
		db, cleanup := setupRelationsTestDB(t)
		defer cleanup()

		user, book := seedUserAndBook(t, db)

		require.NoError(t, db.DB.Create(&entities.UserBookRelation{UserID: user.ID, BookID: book.ID}).Error)
		err := db.DB.Create(&entities.UserBookRelation{UserID: user.ID, BookID: book.ID}).Error
		assert.Error(t, err)
	})
}

func TestRepository_Update(t *testing.T) {
	t.Run("applies partial updates independently", func(t *testing.T) {
		db, cleanup := setupRelationsTestDB(t)
		defer cleanup()
		repo := NewRepository(db.DB)

		user, book := seedUserAndBook(t, db)
		relation, _, err := repo.GetOrCreate(user.ID, book.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Update(relation, map[string]any{"like": true}))
		assert.True(t, relation.Like)
		assert.False(t, relation.InBookmarks)

		require.NoError(t, repo.Update(relation, map[string]any{"rating": 5}))
		assert.True(t, relation.Like)
		require.NotNil(t, relation.Rating)
		assert.Equal(t, 5, *relation.Rating)
	})

	t.Run("a nil rating clears the stored value", func(t *testing.T) {
		db, cleanup := setupRelationsTestDB(t)
		defer cleanup()
		repo := NewRepository(db.DB)

		user, book := seedUserAndBook(t, db)
		relation, _, err := repo.GetOrCreate(user.ID, book.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Update(relation, map[string]any{"rating": 3}))
		require.NotNil(t, relation.Rating)

		require.NoError(t, repo.Update(relation, map[string]any{"rating": nil}))
		assert.Nil(t, relation.Rating)
	})

	t.Run("an empty update is a no-op", func(t *testing.T) {
		db, cleanup := setupRelationsTestDB(t)
		defer cleanup()
		repo := NewRepository(db.DB)

		user, book := seedUserAndBook(t, db)
		relation, _, err := repo.GetOrCreate(user.ID, book.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Update(relation, nil))
		assert.False(t, relation.Like)
	})
}

func TestRepository_GetForBook(t *testing.T) {
	t.Run("returns all rows referencing the book", func(t *testing.T) {
		db, cleanup := setupRelationsTestDB(t)
		defer cleanup()
		repo := NewRepository(db.DB)

		user, book := seedUserAndBook(t, db)
		other := &entities.User{Username: "other", TokenHash: "hash2"}
		require.NoError(t, db.DB.Create(other).Error)

		_, _, err := repo.GetOrCreate(user.ID, book.ID)
		require.NoError(t, err)
		_, _, err = repo.GetOrCreate(other.ID, book.ID)
		require.NoError(t, err)

		rows, err := repo.GetForBook(book.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}
