package library

import (
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/okunevich/biblio/internal/database/annotations"
	"github.com/okunevich/biblio/internal/database/books"
	"github.com/okunevich/biblio/internal/database/reviews"
	"github.com/okunevich/biblio/internal/entities"
)

type fixture struct {
	db        *gorm.DB
	service   *Service
	reader    *entities.Reader
	other     *entities.Reader
	librarian *entities.Reader
	book      entities.Book
	hidden    entities.Book
}

func setupService(t *testing.T) (*fixture, func()) {
	t.Helper()
	dbPath := "./test_library_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Reader{}, &entities.Book{}, &entities.Review{}, &entities.Annotation{})
	require.NoError(t, err)

	service := NewService(
		books.NewRepository(db, 50),
		reviews.NewRepository(db),
		annotations.NewRepository(db),
	)

	f := &fixture{
		db:        db,
		service:   service,
		reader:    &entities.Reader{Name: "Rita", Surname: "Reader", Email: "rita@example.com", Role: entities.RoleReader},
		other:     &entities.Reader{Name: "Otto", Surname: "Other", Email: "otto@example.com", Role: entities.RoleReader},
		librarian: &entities.Reader{Name: "Lena", Surname: "Shelver", Email: "lena@example.com", Role: entities.RoleLibrarian},
	}
	require.NoError(t, db.Create(f.reader).Error)
	require.NoError(t, db.Create(f.other).Error)
	require.NoError(t, db.Create(f.librarian).Error)

	f.book = entities.Book{Title: "Visible Book", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000}
	f.hidden = entities.Book{Title: "Hidden Book", AuthorName: "C", AuthorSurname: "D", Month: "February", Year: 2001, IsHidden: true}
	require.NoError(t, db.Create(&f.book).Error)
	require.NoError(t, db.Create(&f.hidden).Error)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return f, cleanup
}

func (f *fixture) reviewCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&entities.Review{}).Count(&n).Error)
	return n
}

func TestGetBook_HiddenVisibility(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	// Anonymous and plain readers see a hidden book as missing
	_, err := f.service.GetBook(nil, f.hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.GetBook(f.reader, f.hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	book, err := f.service.GetBook(f.librarian, f.hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hidden Book", book.Title)
}

func TestListBooks_HiddenForLibrariansOnly(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	readerPage, err := f.service.ListBooks(f.reader, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, readerPage.Total)

	librarianPage, err := f.service.ListBooks(f.librarian, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, librarianPage.Total)
}

func TestCreateReview(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	review, err := f.service.CreateReview(f.reader, f.book.ID, "  Enjoyed it.  ", 4)
	require.NoError(t, err)
	assert.Equal(t, "Enjoyed it.", review.Text)
	assert.Equal(t, 4, review.Stars)
	assert.Equal(t, f.book.ID, review.BookID)
	assert.Equal(t, f.reader.ID, review.ReviewerID)
}

func TestCreateReview_ValidationRejectsAndPersistsNothing(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	cases := []struct {
		name  string
		text  string
		stars int
		field string
	}{
		{"stars too high", "fine", 9, "stars"},
		{"stars zero", "fine", 0, "stars"},
		{"empty text", "   ", 4, "text"},
		{"text too long", strings.Repeat("x", 201), 4, "text"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.CreateReview(f.reader, f.book.ID, tc.text, tc.stars)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}

	// Both fields invalid at once reports both
	_, err := f.service.CreateReview(f.reader, f.book.ID, "", 0)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "text")
	assert.Contains(t, verr.Fields, "stars")

	assert.EqualValues(t, 0, f.reviewCount(t))
}

func TestCreateReview_TextAtLimitAccepted(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	review, err := f.service.CreateReview(f.reader, f.book.ID, strings.Repeat("y", 200), 3)
	require.NoError(t, err)
	assert.Len(t, review.Text, 200)
}

func TestCreateReview_LimitCountsCharactersNotBytes(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	// 150 Cyrillic characters are 300 UTF-8 bytes but well under the
	// 200-character limit
	review, err := f.service.CreateReview(f.reader, f.book.ID, strings.Repeat("я", 150), 4)
	require.NoError(t, err)
	assert.Equal(t, 150, utf8.RuneCountInString(review.Text))

	atLimit, err := f.service.CreateReview(f.reader, f.book.ID, strings.Repeat("я", 200), 4)
	require.NoError(t, err)
	assert.Equal(t, 200, utf8.RuneCountInString(atLimit.Text))

	_, err = f.service.CreateReview(f.reader, f.book.ID, strings.Repeat("я", 201), 4)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "text")
}

func TestCreateAnnotation_LimitCountsCharactersNotBytes(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	annotation, err := f.service.CreateAnnotation(f.librarian, f.book.ID, strings.Repeat("ß", 200))
	require.NoError(t, err)
	assert.Equal(t, 200, utf8.RuneCountInString(annotation.Text))

	_, err = f.service.CreateAnnotation(f.librarian, f.book.ID, strings.Repeat("ß", 201))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "text")
}

func TestCreateReview_GatingOrder(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	// Missing book wins over missing authentication
	_, err := f.service.CreateReview(nil, 99999, "text", 5)
	assert.ErrorIs(t, err, ErrNotFound)

	// A hidden book reads as missing for an anonymous actor too
	_, err = f.service.CreateReview(nil, f.hidden.ID, "text", 5)
	assert.ErrorIs(t, err, ErrNotFound)

	// Existing, visible book: anonymous actor gets the auth error even
	// with an invalid payload
	_, err = f.service.CreateReview(nil, f.book.ID, "", 9)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateReview_AuthorOrLibrarian(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	review, err := f.service.CreateReview(f.reader, f.book.ID, "original", 3)
	require.NoError(t, err)

	newText := "changed by a stranger"
	_, err = f.service.UpdateReview(f.other, review.ID, ReviewPatch{Text: &newText})
	assert.ErrorIs(t, err, ErrForbidden)

	// Still untouched
	unchanged, err := f.service.GetReview(review.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Text)

	// The author may update
	authorText := "reconsidered"
	updated, err := f.service.UpdateReview(f.reader, review.ID, ReviewPatch{Text: &authorText})
	require.NoError(t, err)
	assert.Equal(t, "reconsidered", updated.Text)
	assert.Equal(t, 3, updated.Stars)

	// So may a librarian
	stars := 1
	moderated, err := f.service.UpdateReview(f.librarian, review.ID, ReviewPatch{Stars: &stars})
	require.NoError(t, err)
	assert.Equal(t, 1, moderated.Stars)
	assert.Equal(t, "reconsidered", moderated.Text)
}

func TestUpdateReview_EmptyPatch(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	review, err := f.service.CreateReview(f.reader, f.book.ID, "text", 3)
	require.NoError(t, err)

	_, err = f.service.UpdateReview(f.reader, review.ID, ReviewPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)
}

func TestUpdateReview_InvalidFieldRejectsWholePatch(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	review, err := f.service.CreateReview(f.reader, f.book.ID, "text", 3)
	require.NoError(t, err)

	goodText := "valid text"
	badStars := 7
	_, err = f.service.UpdateReview(f.reader, review.ID, ReviewPatch{Text: &goodText, Stars: &badStars})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "stars")

	// The valid field was not applied either
	unchanged, err := f.service.GetReview(review.ID)
	require.NoError(t, err)
	assert.Equal(t, "text", unchanged.Text)
	assert.Equal(t, 3, unchanged.Stars)
}

func TestDeleteReview(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	review, err := f.service.CreateReview(f.reader, f.book.ID, "text", 3)
	require.NoError(t, err)

	err = f.service.DeleteReview(nil, review.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = f.service.DeleteReview(f.other, review.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.service.DeleteReview(f.librarian, review.ID)
	require.NoError(t, err)

	_, err = f.service.GetReview(review.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.service.DeleteReview(f.reader, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAnnotation_LibrarianOnly(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	_, err := f.service.CreateAnnotation(nil, f.book.ID, "note")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.service.CreateAnnotation(f.reader, f.book.ID, "note")
	assert.ErrorIs(t, err, ErrForbidden)

	annotation, err := f.service.CreateAnnotation(f.librarian, f.book.ID, "  shelf 12  ")
	require.NoError(t, err)
	assert.Equal(t, "shelf 12", annotation.Text)
	assert.Equal(t, f.librarian.ID, annotation.ReviewerID)
}

func TestUpdateAnnotation(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	annotation, err := f.service.CreateAnnotation(f.librarian, f.book.ID, "note")
	require.NoError(t, err)

	text := "revised note"
	_, err = f.service.UpdateAnnotation(f.reader, annotation.ID, AnnotationPatch{Text: &text})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.UpdateAnnotation(f.librarian, annotation.ID, AnnotationPatch{})
	assert.ErrorIs(t, err, ErrEmptyPatch)

	updated, err := f.service.UpdateAnnotation(f.librarian, annotation.ID, AnnotationPatch{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "revised note", updated.Text)
}

func TestDeleteAnnotation(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	annotation, err := f.service.CreateAnnotation(f.librarian, f.book.ID, "note")
	require.NoError(t, err)

	err = f.service.DeleteAnnotation(f.reader, annotation.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.service.DeleteAnnotation(f.librarian, annotation.ID)
	require.NoError(t, err)

	_, err = f.service.GetAnnotation(annotation.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleHidden(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	_, err := f.service.ToggleHidden(f.reader, f.book.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.service.ToggleHidden(nil, f.book.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	hidden, err := f.service.ToggleHidden(f.librarian, f.book.ID)
	require.NoError(t, err)
	assert.True(t, hidden.IsHidden)

	// The book is now invisible to plain readers
	_, err = f.service.GetBook(f.reader, f.book.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	shown, err := f.service.ToggleHidden(f.librarian, f.book.ID)
	require.NoError(t, err)
	assert.False(t, shown.IsHidden)

	_, err = f.service.ToggleHidden(f.librarian, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBook(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	_, err := f.service.CreateReview(f.reader, f.book.ID, "text", 3)
	require.NoError(t, err)
	_, err = f.service.CreateAnnotation(f.librarian, f.book.ID, "note")
	require.NoError(t, err)

	err = f.service.DeleteBook(f.reader, f.book.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = f.service.DeleteBook(f.librarian, f.book.ID)
	require.NoError(t, err)

	_, err = f.service.GetBook(f.librarian, f.book.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var reviewCount, annotationCount int64
	f.db.Model(&entities.Review{}).Where("book_id = ?", f.book.ID).Count(&reviewCount)
	f.db.Model(&entities.Annotation{}).Where("book_id = ?", f.book.ID).Count(&annotationCount)
	assert.EqualValues(t, 0, reviewCount)
	assert.EqualValues(t, 0, annotationCount)
}

func TestListBookReviews_HiddenBookGatesListing(t *testing.T) {
	f, cleanup := setupService(t)
	defer cleanup()

	_, err := f.service.ListBookReviews(f.reader, f.hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	reviews, err := f.service.ListBookReviews(f.librarian, f.hidden.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
