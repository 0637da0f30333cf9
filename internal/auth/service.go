package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/okunevich/biblio/internal/config"
	"github.com/okunevich/biblio/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrReaderNotFound     = errors.New("reader not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNameRequired       = errors.New("name is required")
	ErrSurnameRequired    = errors.New("surname is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
)

// Service handles registration and credential checks for readers.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Register creates a new reader account.
// The email conflict is surfaced as ErrEmailTaken, never as a raw storage error.
func (s *Service) Register(name, surname, email string, role entities.ReaderRole, password string) (*entities.Reader, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if surname == "" {
		return nil, ErrSurnameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// RFC 5321 length limit plus a basic shape check
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	if !entities.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	var existing entities.Reader
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing reader: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	reader := &entities.Reader{
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		JoinedAt:     time.Now().UTC(),
	}

	// The pre-check races with concurrent registrations; the unique index
	// on email is the real guarantee, so its violation maps the same way.
	if err := s.db.Create(reader).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}

	return reader, nil
}

// isUniqueViolation reports whether err is a storage-level unique
// constraint violation. The sqlite driver does not expose a typed error
// for this, so the driver message is matched.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Authenticate validates an email/password pair and returns the reader.
func (s *Service) Authenticate(email, password string) (*entities.Reader, error) {
	var reader entities.Reader
	err := s.db.Where("email = ?", email).First(&reader).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find reader: %w", err)
	}

	if err := CheckPassword(password, reader.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return &reader, nil
}

// GetReaderByID retrieves a reader by ID.
func (s *Service) GetReaderByID(id uint) (*entities.Reader, error) {
	var reader entities.Reader
	err := s.db.First(&reader, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReaderNotFound
		}
		return nil, err
	}
	return &reader, nil
}
