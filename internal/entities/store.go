package entities

import (
	"time"
)

// Rating codes a user may assign to a book.
const (
	RatingVeryBad  = 1
	RatingBad      = 2
	RatingNotBad   = 3
	RatingGood     = 4
	RatingVeryGood = 5
)

// RatingLabels maps valid rating codes to their display names.
var RatingLabels = map[int]string{
	RatingVeryBad:  "Very bad",
	RatingBad:      "Bad",
	RatingNotBad:   "Not bad",
	RatingGood:     "Good",
	RatingVeryGood: "Very good",
}

// IsValidRating reports whether value is one of the defined rating codes.
func IsValidRating(value int) bool {
	_, ok := RatingLabels[value]
	return ok
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:60" json:"-"`
	TokenHash    string    `gorm:"uniqueIndex;size:64" json:"-"` // sha256 of the API token, hidden from JSON
	IsStaff      bool      `gorm:"default:false" json:"-"`
	CreatedAt    time.Time `json:"date_joined"`
	UpdatedAt    time.Time `json:"-"`

	OwnedBooks []Book `gorm:"foreignKey:OwnerID" json:"-"`
}

type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:255" json:"title"`
	Author    string    `gorm:"index;size:255" json:"author"`
	Price     float64   `gorm:"type:decimal(7,2)" json:"price"`
	OwnerID   *uint     `gorm:"index" json:"owner_id,omitempty"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Relations []UserBookRelation `gorm:"foreignKey:BookID" json:"-"`
}

// UserBookRelation holds one user's like/bookmark/rating state for one book.
// The composite unique index guarantees at most one row per (user, book) pair.
type UserBookRelation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:uk_user_book,priority:1" json:"user_id"`
	BookID      uint      `gorm:"not null;uniqueIndex:uk_user_book,priority:2" json:"book_id"`
	Like        bool      `gorm:"default:false" json:"like"`
	InBookmarks bool      `gorm:"default:false" json:"in_bookmarks"`
	Rating      *int      `gorm:"type:smallint" json:"rating"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (UserBookRelation) TableName() string {
	return "user_book_relations"
}
