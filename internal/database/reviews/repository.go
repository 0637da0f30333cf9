// Package reviews provides database access for book reviews.
package reviews

import (
	"gorm.io/gorm"

	"github.com/okunevich/biblio/internal/entities"
)

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *Repository) Create(review *entities.Review) error {
	return r.db.Create(review).Error
}

// Update applies the given column values to a review. Keys are column
// names; values have been validated by the caller.
func (r *Repository) Update(id uint, updates map[string]any) (*entities.Review, error) {
	result := r.db.Model(&entities.Review{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountForBook returns the number of reviews referencing a book.
func (r *Repository) CountForBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Review{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}
