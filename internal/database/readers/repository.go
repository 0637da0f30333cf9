// Package readers provides database access for reader accounts.
package readers

import (
	"gorm.io/gorm"

	"github.com/okunevich/biblio/internal/entities"
)

// Repository handles all reader database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new readers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id uint) (*entities.Reader, error) {
	var reader entities.Reader
	if err := r.db.First(&reader, id).Error; err != nil {
		return nil, err
	}
	return &reader, nil
}

func (r *Repository) GetByEmail(email string) (*entities.Reader, error) {
	var reader entities.Reader
	if err := r.db.Where("email = ?", email).First(&reader).Error; err != nil {
		return nil, err
	}
	return &reader, nil
}

func (r *Repository) Create(reader *entities.Reader) error {
	return r.db.Create(reader).Error
}

// Delete removes a reader together with every review and annotation the
// reader authored, in a single transaction.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var reader entities.Reader
		if err := tx.First(&reader, id).Error; err != nil {
			return err
		}
		if err := tx.Where("reviewer_id = ?", id).Delete(&entities.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reviewer_id = ?", id).Delete(&entities.Annotation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&reader).Error
	})
}

// Count returns the number of registered readers.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Reader{}).Count(&count).Error
	return count, err
}
