package library

import (
	"errors"

	"gorm.io/gorm"

	"github.com/okunevich/biblio/internal/database/annotations"
	"github.com/okunevich/biblio/internal/database/books"
	"github.com/okunevich/biblio/internal/database/reviews"
	"github.com/okunevich/biblio/internal/entities"
)

// ReviewPatch is a partial update for a review. Nil fields are untouched;
// present fields are validated and applied individually.
type ReviewPatch struct {
	Text  *string
	Stars *int
}

// AnnotationPatch is a partial update for an annotation.
type AnnotationPatch struct {
	Text *string
}

// Service applies catalog mutations after gating and validation. Each
// mutation is a single commit; validation failures never touch storage.
type Service struct {
	books       *books.Repository
	reviews     *reviews.Repository
	annotations *annotations.Repository
}

// NewService creates the catalog service over its repositories.
func NewService(b *books.Repository, r *reviews.Repository, a *annotations.Repository) *Service {
	return &Service{books: b, reviews: r, annotations: a}
}

// notFound collapses the storage-layer missing-record error into the
// domain's ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ListBooks returns a catalog page for the actor. Hidden books are
// included for librarians only.
func (s *Service) ListBooks(actor *entities.Reader, search string, page, perPage int) (*books.Page, error) {
	return s.books.List(books.ListParams{
		Search:        search,
		IncludeHidden: canSeeHidden(actor),
		Page:          page,
		PerPage:       perPage,
	})
}

// GetBook retrieves a book visible to the actor. A hidden book behaves as
// missing for non-librarians.
func (s *Service) GetBook(actor *entities.Reader, id uint) (*entities.Book, error) {
	book, err := s.books.GetByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	if !CanViewBook(actor, book) {
		return nil, ErrNotFound
	}
	return book, nil
}

// ListBookReviews returns a visible book's reviews, newest first.
func (s *Service) ListBookReviews(actor *entities.Reader, bookID uint) ([]entities.Review, error) {
	if _, err := s.GetBook(actor, bookID); err != nil {
		return nil, err
	}
	return s.books.ListReviewsForBook(bookID)
}

// ListBookAnnotations returns a visible book's annotations, newest first.
func (s *Service) ListBookAnnotations(actor *entities.Reader, bookID uint) ([]entities.Annotation, error) {
	if _, err := s.GetBook(actor, bookID); err != nil {
		return nil, err
	}
	return s.books.ListAnnotationsForBook(bookID)
}

// GetReview retrieves a review by id.
func (s *Service) GetReview(id uint) (*entities.Review, error) {
	review, err := s.reviews.GetByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return review, nil
}

// GetAnnotation retrieves an annotation by id.
func (s *Service) GetAnnotation(id uint) (*entities.Annotation, error) {
	annotation, err := s.annotations.GetByID(id)
	if err != nil {
		return nil, notFound(err)
	}
	return annotation, nil
}

// CreateReview validates and stores a new review by the actor on a book
// visible to them. The book is resolved before authentication is checked,
// so a missing book reads as 404 rather than 401.
func (s *Service) CreateReview(actor *entities.Reader, bookID uint, text string, stars int) (*entities.Review, error) {
	if _, err := s.GetBook(actor, bookID); err != nil {
		return nil, err
	}
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}

	verr := newValidationError()
	trimmed, msg := validateText(text, entities.MaxReviewTextLength)
	if msg != "" {
		verr.Fields["text"] = msg
	}
	if msg := validateStars(stars); msg != "" {
		verr.Fields["stars"] = msg
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	review := &entities.Review{
		Stars:      stars,
		Text:       trimmed,
		BookID:     bookID,
		ReviewerID: actor.ID,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview applies a partial update to a review. Only the original
// author or a librarian may update; each present field is validated before
// anything is written.
func (s *Service) UpdateReview(actor *entities.Reader, id uint, patch ReviewPatch) (*entities.Review, error) {
	review, err := s.GetReview(id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthorOrLibrarian(actor, review.ReviewerID); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	verr := newValidationError()

	if patch.Text != nil {
		trimmed, msg := validateText(*patch.Text, entities.MaxReviewTextLength)
		if msg != "" {
			verr.Fields["text"] = msg
		} else {
			updates["text"] = trimmed
		}
	}
	if patch.Stars != nil {
		if msg := validateStars(*patch.Stars); msg != "" {
			verr.Fields["stars"] = msg
		} else {
			updates["stars"] = *patch.Stars
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	if len(updates) == 0 {
		return nil, ErrEmptyPatch
	}

	updated, err := s.reviews.Update(id, updates)
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}

// DeleteReview removes a review. Only the original author or a librarian
// may delete.
func (s *Service) DeleteReview(actor *entities.Reader, id uint) error {
	review, err := s.GetReview(id)
	if err != nil {
		return err
	}
	if err := requireAuthorOrLibrarian(actor, review.ReviewerID); err != nil {
		return err
	}
	return notFound(s.reviews.Delete(id))
}

// CreateAnnotation validates and stores a new librarian annotation.
func (s *Service) CreateAnnotation(actor *entities.Reader, bookID uint, text string) (*entities.Annotation, error) {
	if _, err := s.GetBook(actor, bookID); err != nil {
		return nil, err
	}
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}

	trimmed, msg := validateText(text, entities.MaxAnnotationTextLength)
	if msg != "" {
		verr := newValidationError()
		verr.Fields["text"] = msg
		return nil, verr
	}

	annotation := &entities.Annotation{
		Text:       trimmed,
		BookID:     bookID,
		ReviewerID: actor.ID,
	}
	if err := s.annotations.Create(annotation); err != nil {
		return nil, err
	}
	return annotation, nil
}

// UpdateAnnotation applies a partial update to an annotation, under the
// same author-or-librarian rule as reviews.
func (s *Service) UpdateAnnotation(actor *entities.Reader, id uint, patch AnnotationPatch) (*entities.Annotation, error) {
	annotation, err := s.GetAnnotation(id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthorOrLibrarian(actor, annotation.ReviewerID); err != nil {
		return nil, err
	}

	if patch.Text == nil {
		return nil, ErrEmptyPatch
	}
	trimmed, msg := validateText(*patch.Text, entities.MaxAnnotationTextLength)
	if msg != "" {
		verr := newValidationError()
		verr.Fields["text"] = msg
		return nil, verr
	}

	updated, err := s.annotations.UpdateText(id, trimmed)
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}

// DeleteAnnotation removes an annotation under the author-or-librarian rule.
func (s *Service) DeleteAnnotation(actor *entities.Reader, id uint) error {
	annotation, err := s.GetAnnotation(id)
	if err != nil {
		return err
	}
	if err := requireAuthorOrLibrarian(actor, annotation.ReviewerID); err != nil {
		return err
	}
	return notFound(s.annotations.Delete(id))
}

// ToggleHidden flips a book's visibility flag. Librarian only.
func (s *Service) ToggleHidden(actor *entities.Reader, bookID uint) (*entities.Book, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}
	book, err := s.books.GetByID(bookID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.books.SetHidden(bookID, !book.IsHidden); err != nil {
		return nil, notFound(err)
	}
	book.IsHidden = !book.IsHidden
	return book, nil
}

// DeleteBook removes a book and everything referencing it. Librarian only.
func (s *Service) DeleteBook(actor *entities.Reader, bookID uint) error {
	if err := requireLibrarian(actor); err != nil {
		return err
	}
	return notFound(s.books.Delete(bookID))
}
