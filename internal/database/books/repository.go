// Package books provides database access for the book catalog, including
// the search/visibility/pagination query builder used by both the HTML
// catalog and the JSON API.
package books

import (
	"strings"

	"gorm.io/gorm"

	"github.com/okunevich/biblio/internal/entities"
)

// ListParams drives a catalog listing query.
type ListParams struct {
	// Search is a free-text query. It is tokenized on whitespace; a book
	// must match every token, each in at least one searchable field.
	Search string

	// IncludeHidden includes books with is_hidden = true. Only librarians
	// get listings with this set.
	IncludeHidden bool

	Page    int
	PerPage int
}

// Page is a paginated slice of the catalog with its metadata.
type Page struct {
	Items   []entities.Book
	Page    int
	PerPage int
	Pages   int
	Total   int64
	HasNext bool
	HasPrev bool
}

// Repository handles all book database operations.
type Repository struct {
	db         *gorm.DB
	maxPerPage int
}

// NewRepository creates a new books repository. maxPerPage caps the page
// size of listings; values at or below zero fall back to 50.
func NewRepository(db *gorm.DB, maxPerPage int) *Repository {
	if maxPerPage <= 0 {
		maxPerPage = 50
	}
	return &Repository{db: db, maxPerPage: maxPerPage}
}

// buildQuery translates a free-text search string and a visibility flag
// into a filtered book query.
//
// Each whitespace-separated token narrows the result: the token has to
// case-insensitively substring-match the title, the author first or last
// name, the display month, or the year cast to text. Tokens combine with
// AND, fields within a token with OR.
func (r *Repository) buildQuery(search string, includeHidden bool) *gorm.DB {
	query := r.db.Model(&entities.Book{})

	if !includeHidden {
		query = query.Where("is_hidden = ?", false)
	}

	for _, term := range strings.Fields(search) {
		pattern := "%" + term + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(author_name) LIKE LOWER(?) OR LOWER(author_surname) LIKE LOWER(?) OR LOWER(month) LIKE LOWER(?) OR CAST(year AS TEXT) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	return query
}

// List returns an ordered, paginated slice of the catalog.
//
// Ordering is year descending, then month ascending as text (months sort
// alphabetically, not in calendar order), then title ascending. A page
// past the end yields empty items with correct metadata, never an error.
func (r *Repository) List(params ListParams) (*Page, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 1
	}
	if perPage > r.maxPerPage {
		perPage = r.maxPerPage
	}

	query := r.buildQuery(params.Search, params.IncludeHidden)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []entities.Book
	err := query.
		Order("year DESC").
		Order("month ASC").
		Order("title ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))

	return &Page{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
		Total:   total,
		HasNext: page < pages,
		HasPrev: page > 1,
	}, nil
}

// GetByID retrieves a book. Visibility rules are the caller's concern.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book, applying the default cover when none is set.
func (r *Repository) Create(book *entities.Book) error {
	if book.CoverImage == "" {
		book.CoverImage = entities.DefaultCoverImage
	}
	return r.db.Create(book).Error
}

// SetHidden flips the visibility flag to the given value.
func (r *Repository) SetHidden(id uint, hidden bool) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Update("is_hidden", hidden)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a book together with every review and annotation that
// references it, in a single transaction.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Annotation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
}

// ListReviewsForBook returns the book's reviews, newest first.
func (r *Repository) ListReviewsForBook(bookID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.Where("book_id = ?", bookID).Order("id DESC").Find(&reviews).Error
	return reviews, err
}

// ListAnnotationsForBook returns the book's annotations, newest first.
func (r *Repository) ListAnnotationsForBook(bookID uint) ([]entities.Annotation, error) {
	var annotations []entities.Annotation
	err := r.db.Where("book_id = ?", bookID).Order("id DESC").Find(&annotations).Error
	return annotations, err
}
