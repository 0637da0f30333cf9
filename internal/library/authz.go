// Package library implements the catalog's business rules: who may see
// and mutate what, input validation, and the mutation services that apply
// validated changes atomically.
package library

import (
	"errors"

	"github.com/okunevich/biblio/internal/entities"
)

var (
	// ErrNotFound means the entity id does not resolve, or the entity is
	// invisible to the acting principal.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means the action requires a principal and none is
	// present. Maps to 401 on the API, redirect-to-login on the web.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the principal is authenticated but not authorized
	// for this entity or action. Maps to 403 / redirect-to-catalog.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyPatch means a partial update carried no recognized fields.
	ErrEmptyPatch = errors.New("no valid fields to update")
)

// The acting principal is a *entities.Reader; nil means anonymous.

// canSeeHidden reports whether the actor may see hidden books.
func canSeeHidden(actor *entities.Reader) bool {
	return actor != nil && actor.IsLibrarian()
}

// CanViewBook reports whether the actor may view the book. Hidden books
// are visible to librarians only.
func CanViewBook(actor *entities.Reader, book *entities.Book) bool {
	return !book.IsHidden || canSeeHidden(actor)
}

// requireAuthenticated rejects anonymous actors.
func requireAuthenticated(actor *entities.Reader) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	return nil
}

// requireLibrarian rejects anonymous actors with ErrUnauthenticated and
// authenticated non-librarians with ErrForbidden. The two outcomes stay
// distinguishable.
func requireLibrarian(actor *entities.Reader) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsLibrarian() {
		return ErrForbidden
	}
	return nil
}

// requireAuthorOrLibrarian implements the moderation rule for updating or
// deleting reviews and annotations: the actor must be the original author
// or hold the librarian role.
func requireAuthorOrLibrarian(actor *entities.Reader, authorID uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if actor.ID != authorID && !actor.IsLibrarian() {
		return ErrForbidden
	}
	return nil
}
