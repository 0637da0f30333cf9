// Package annotations provides database access for librarian annotations.
package annotations

import (
	"gorm.io/gorm"

	"github.com/okunevich/biblio/internal/entities"
)

// Repository handles all annotation database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new annotations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id uint) (*entities.Annotation, error) {
	var annotation entities.Annotation
	if err := r.db.First(&annotation, id).Error; err != nil {
		return nil, err
	}
	return &annotation, nil
}

func (r *Repository) Create(annotation *entities.Annotation) error {
	return r.db.Create(annotation).Error
}

func (r *Repository) UpdateText(id uint, text string) (*entities.Annotation, error) {
	result := r.db.Model(&entities.Annotation{}).Where("id = ?", id).Update("text", text)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Annotation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountForBook returns the number of annotations referencing a book.
func (r *Repository) CountForBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Annotation{}).Where("book_id = ?", bookID).Count(&count).Error
	return count, err
}
