package entities

import (
	"time"
)

// ReaderRole is a closed enumeration. Anything outside these two values
// must be rejected at the boundary.
type ReaderRole string

const (
	RoleReader    ReaderRole = "reader"
	RoleLibrarian ReaderRole = "librarian"
)

// ValidRole reports whether r is one of the legal role values.
func ValidRole(r ReaderRole) bool {
	return r == RoleReader || r == RoleLibrarian
}

// Limits enforced by the mutation services before anything is persisted.
const (
	MaxReviewTextLength     = 200
	MaxAnnotationTextLength = 200
	MinStars                = 1
	MaxStars                = 5
)

// DefaultCoverImage is assigned to books created without a cover reference.
const DefaultCoverImage = "book_covers/default.svg"

type Book struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"uniqueIndex;size:80" json:"title"`
	AuthorName    string `gorm:"index;size:50" json:"author_name"`
	AuthorSurname string `gorm:"index;size:80" json:"author_surname"`
	Month         string `gorm:"index;size:20" json:"month"`
	Year          int    `gorm:"index" json:"year"`
	CoverImage    string `gorm:"size:255;not null;default:'book_covers/default.svg'" json:"cover_image"`
	IsHidden      bool   `gorm:"default:false" json:"is_hidden"`

	Reviews     []Review     `gorm:"foreignKey:BookID" json:"reviews,omitempty"`
	Annotations []Annotation `gorm:"foreignKey:BookID" json:"annotations,omitempty"`
}

type Reader struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"index;size:50" json:"name"`
	Surname      string     `gorm:"index;size:80" json:"surname"`
	Email        string     `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash string     `gorm:"size:128" json:"-"`
	Role         ReaderRole `gorm:"index;size:20;default:'reader'" json:"role"`
	JoinedAt     time.Time  `gorm:"index" json:"joined_at"`

	Reviews     []Review     `gorm:"foreignKey:ReviewerID" json:"-"`
	Annotations []Annotation `gorm:"foreignKey:ReviewerID" json:"-"`
}

// IsLibrarian reports whether the reader holds the librarian role.
func (r *Reader) IsLibrarian() bool {
	return r.Role == RoleLibrarian
}

type Review struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Stars      int    `json:"stars"`
	Text       string `gorm:"size:200" json:"text"`
	BookID     uint   `gorm:"index" json:"book_id"`
	ReviewerID uint   `gorm:"index" json:"reviewer_id"`
}

type Annotation struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Text       string `gorm:"size:200" json:"text"`
	BookID     uint   `gorm:"index" json:"book_id"`
	ReviewerID uint   `gorm:"index" json:"reviewer_id"`
}

func (Book) TableName() string {
	return "books"
}

func (Reader) TableName() string {
	return "readers"
}

func (Review) TableName() string {
	return "reviews"
}

func (Annotation) TableName() string {
	return "annotations"
}
