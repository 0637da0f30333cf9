package books

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/okunevich/biblio/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.Review{}, &entities.Annotation{})
	require.NoError(t, err)

	repo := NewRepository(db, 50)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func mustCreate(t *testing.T, repo *Repository, book entities.Book) entities.Book {
	t.Helper()
	require.NoError(t, repo.Create(&book))
	return book
}

func titles(items []entities.Book) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = b.Title
	}
	return out
}

func TestList_SearchMatchesAnyField(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreate(t, repo, entities.Book{Title: "Gamma Rays", AuthorName: "Alice", AuthorSurname: "Alpha", Month: "March", Year: 1999})
	mustCreate(t, repo, entities.Book{Title: "Ordinary Days", AuthorName: "Gamma", AuthorSurname: "Beta", Month: "April", Year: 2001})
	mustCreate(t, repo, entities.Book{Title: "Quiet Nights", AuthorName: "Carol", AuthorSurname: "Gamma", Month: "May", Year: 2003})
	mustCreate(t, repo, entities.Book{Title: "Unrelated", AuthorName: "Dave", AuthorSurname: "Delta", Month: "June", Year: 2005})

	page, err := repo.List(ListParams{Search: "gamma", Page: 1, PerPage: 10})
	require.NoError(t, err)

	// Matches title, author name, and author surname, but not the fourth book
	assert.EqualValues(t, 3, page.Total)
	assert.ElementsMatch(t, []string{"Gamma Rays", "Ordinary Days", "Quiet Nights"}, titles(page.Items))
}

func TestList_SearchByMonthAndYear(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreate(t, repo, entities.Book{Title: "Spring Book", AuthorName: "A", AuthorSurname: "B", Month: "March", Year: 1984})
	mustCreate(t, repo, entities.Book{Title: "Summer Book", AuthorName: "C", AuthorSurname: "D", Month: "July", Year: 1990})

	byMonth, err := repo.List(ListParams{Search: "march", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, byMonth.Items, 1)
	assert.Equal(t, "Spring Book", byMonth.Items[0].Title)

	byYear, err := repo.List(ListParams{Search: "1990", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, byYear.Items, 1)
	assert.Equal(t, "Summer Book", byYear.Items[0].Title)

	// Substring of the year matches too, since the year is compared as text
	byYearPart, err := repo.List(ListParams{Search: "99", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, byYearPart.Items, 1)
	assert.Equal(t, "Summer Book", byYearPart.Items[0].Title)
}

func TestList_MultiTokenSearchCombinesWithAnd(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreate(t, repo, entities.Book{Title: "War and Peace", AuthorName: "Leo", AuthorSurname: "Tolstoy", Month: "March", Year: 1869})
	mustCreate(t, repo, entities.Book{Title: "Anna Karenina", AuthorName: "Leo", AuthorSurname: "Tolstoy", Month: "April", Year: 1877})
	mustCreate(t, repo, entities.Book{Title: "War Diaries", AuthorName: "Sofia", AuthorSurname: "Behrs", Month: "May", Year: 1901})

	// Each token may match a different field of the same book
	page, err := repo.List(ListParams{Search: "tolstoy war", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "War and Peace", page.Items[0].Title)

	none, err := repo.List(ListParams{Search: "tolstoy diaries", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.EqualValues(t, 0, none.Total)
}

func TestList_BlankSearchReturnsEverything(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreate(t, repo, entities.Book{Title: "One", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000})
	mustCreate(t, repo, entities.Book{Title: "Two", AuthorName: "C", AuthorSurname: "D", Month: "February", Year: 2001})

	page, err := repo.List(ListParams{Search: "   ", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestList_HiddenBooksFilteredUnlessIncluded(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreate(t, repo, entities.Book{Title: "Visible", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000})
	mustCreate(t, repo, entities.Book{Title: "Concealed", AuthorName: "C", AuthorSurname: "D", Month: "February", Year: 2001, IsHidden: true})

	visible, err := repo.List(ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, visible.Total)
	assert.Equal(t, []string{"Visible"}, titles(visible.Items))

	all, err := repo.List(ListParams{IncludeHidden: true, Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
}

func TestList_Pagination(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 12; i++ {
		mustCreate(t, repo, entities.Book{
			Title:         fmt.Sprintf("Book %02d", i),
			AuthorName:    "A",
			AuthorSurname: "B",
			Month:         "January",
			Year:          2000,
		})
	}

	first, err := repo.List(ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.EqualValues(t, 12, first.Total)
	assert.Equal(t, 2, first.Pages)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	second, err := repo.List(ListParams{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, second.Items, 2)
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrev)

	// No overlap between pages
	for _, b := range second.Items {
		assert.NotContains(t, titles(first.Items), b.Title)
	}

	// A page past the end is empty but keeps correct metadata
	beyond, err := repo.List(ListParams{Page: 5, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.EqualValues(t, 12, beyond.Total)
	assert.Equal(t, 2, beyond.Pages)
	assert.False(t, beyond.HasNext)
	assert.True(t, beyond.HasPrev)
}

func TestList_PageSizeClamped(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		mustCreate(t, repo, entities.Book{
			Title:         fmt.Sprintf("Clamp %d", i),
			AuthorName:    "A",
			AuthorSurname: "B",
			Month:         "January",
			Year:          2000,
		})
	}

	tooBig, err := repo.List(ListParams{Page: 1, PerPage: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, tooBig.PerPage)

	tooSmall, err := repo.List(ListParams{Page: 1, PerPage: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, tooSmall.PerPage)
	assert.Len(t, tooSmall.Items, 1)

	negativePage, err := repo.List(ListParams{Page: -3, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, negativePage.Page)
}

func TestList_Ordering(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreate(t, repo, entities.Book{Title: "Older", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 1990})
	mustCreate(t, repo, entities.Book{Title: "Zebra", AuthorName: "A", AuthorSurname: "B", Month: "April", Year: 2000})
	mustCreate(t, repo, entities.Book{Title: "Apple", AuthorName: "A", AuthorSurname: "B", Month: "April", Year: 2000})
	mustCreate(t, repo, entities.Book{Title: "Middle", AuthorName: "A", AuthorSurname: "B", Month: "December", Year: 2000})

	page, err := repo.List(ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)

	// Newest year first; within a year months sort as plain text, so
	// "April" precedes "December" regardless of calendar order; then title.
	assert.Equal(t, []string{"Apple", "Zebra", "Middle", "Older"}, titles(page.Items))
}

func TestList_MonthsSortLexically(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	mustCreate(t, repo, entities.Book{Title: "In February", AuthorName: "A", AuthorSurname: "B", Month: "February", Year: 2020})
	mustCreate(t, repo, entities.Book{Title: "In August", AuthorName: "A", AuthorSurname: "B", Month: "August", Year: 2020})

	page, err := repo.List(ListParams{Page: 1, PerPage: 10})
	require.NoError(t, err)

	// "August" < "February" as text even though February comes first in
	// the calendar. The ordering is intentional, matching the catalog's
	// documented behaviour.
	assert.Equal(t, []string{"In August", "In February"}, titles(page.Items))
}

func TestSetHidden(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := mustCreate(t, repo, entities.Book{Title: "Flippable", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000})

	require.NoError(t, repo.SetHidden(book.ID, true))
	got, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.True(t, got.IsHidden)

	require.NoError(t, repo.SetHidden(book.ID, false))
	got, err = repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.False(t, got.IsHidden)

	err = repo.SetHidden(99999, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreate_AppliesDefaultCover(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := mustCreate(t, repo, entities.Book{Title: "No Cover", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000})
	assert.Equal(t, entities.DefaultCoverImage, book.CoverImage)

	custom := mustCreate(t, repo, entities.Book{Title: "Custom Cover", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000, CoverImage: "book_covers/custom.png"})
	assert.Equal(t, "book_covers/custom.png", custom.CoverImage)
}

func TestDelete_CascadesReviewsAndAnnotations(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := mustCreate(t, repo, entities.Book{Title: "Doomed", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000})
	other := mustCreate(t, repo, entities.Book{Title: "Survivor", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000})

	db := repo.db
	require.NoError(t, db.Create(&entities.Review{Stars: 4, Text: "fine", BookID: book.ID, ReviewerID: 1}).Error)
	require.NoError(t, db.Create(&entities.Review{Stars: 5, Text: "kept", BookID: other.ID, ReviewerID: 1}).Error)
	require.NoError(t, db.Create(&entities.Annotation{Text: "note", BookID: book.ID, ReviewerID: 1}).Error)

	require.NoError(t, repo.Delete(book.ID))

	_, err := repo.GetByID(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reviewCount, annotationCount int64
	db.Model(&entities.Review{}).Where("book_id = ?", book.ID).Count(&reviewCount)
	db.Model(&entities.Annotation{}).Where("book_id = ?", book.ID).Count(&annotationCount)
	assert.EqualValues(t, 0, reviewCount)
	assert.EqualValues(t, 0, annotationCount)

	// Reviews of other books stay put
	var otherReviews int64
	db.Model(&entities.Review{}).Where("book_id = ?", other.ID).Count(&otherReviews)
	assert.EqualValues(t, 1, otherReviews)

	err = repo.Delete(99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListReviewsForBook_NewestFirst(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := mustCreate(t, repo, entities.Book{Title: "Reviewed", AuthorName: "A", AuthorSurname: "B", Month: "January", Year: 2000})

	first := entities.Review{Stars: 3, Text: "first", BookID: book.ID, ReviewerID: 1}
	second := entities.Review{Stars: 4, Text: "second", BookID: book.ID, ReviewerID: 2}
	require.NoError(t, repo.db.Create(&first).Error)
	require.NoError(t, repo.db.Create(&second).Error)

	reviews, err := repo.ListReviewsForBook(book.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "second", reviews[0].Text)
	assert.Equal(t, "first", reviews[1].Text)
}
