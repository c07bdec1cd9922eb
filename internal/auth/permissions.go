package auth

import (
	"net/http"

	"github.com/avoronov/bookstore/internal/entities"
)

// IsSafeMethod reports whether an HTTP method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanAccessBook is the ownership rule for books: safe operations are open to
// everyone; unsafe operations require the caller to be the book's owner or a
// staff user. ownerID is nil for books whose owner has been deleted.
func CanAccessBook(user *entities.User, ownerID *uint, safe bool) bool {
	if safe {
		return true
	}
	if user == nil {
		return false
	}
	if user.IsStaff {
		return true
	}
	return ownerID != nil && *ownerID == user.ID
}
