// Package seed populates a database with a demo catalog, a couple of
// reader accounts and some reviews to click around with.
package seed

import (
	"log"
	"time"

	"github.com/okunevich/biblio/internal/auth"
	"github.com/okunevich/biblio/internal/config"
	"github.com/okunevich/biblio/internal/database"
	"github.com/okunevich/biblio/internal/database/annotations"
	"github.com/okunevich/biblio/internal/database/books"
	"github.com/okunevich/biblio/internal/database/readers"
	"github.com/okunevich/biblio/internal/database/reviews"
	"github.com/okunevich/biblio/internal/entities"
)

// DemoPassword is the password for both demo accounts.
const DemoPassword = "bookworm1"

// Run seeds the database at dbPath. Existing accounts and books are left
// alone, so running it twice is safe.
func Run(dbPath string) error {
	log.Printf("Seeding database at %s...", dbPath)

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	booksRepo := books.NewRepository(db.DB, config.MaxPerPage)
	readersRepo := readers.NewRepository(db.DB)
	reviewsRepo := reviews.NewRepository(db.DB)
	annotationsRepo := annotations.NewRepository(db.DB)

	accounts, err := createReaders(readersRepo)
	if err != nil {
		return err
	}
	catalog := createBooks(booksRepo)

	if len(accounts) >= 2 && len(catalog) >= 3 {
		createReviews(reviewsRepo, annotationsRepo, accounts, catalog)
	}

	log.Println("Database seeded successfully!")
	log.Printf("Demo accounts: reader@example.com / librarian@example.com (password: %s)", DemoPassword)
	return nil
}

func createReaders(repo *readers.Repository) ([]entities.Reader, error) {
	hash, err := auth.HashPassword(DemoPassword, config.DefaultBcryptCost)
	if err != nil {
		return nil, err
	}

	accounts := []entities.Reader{
		{
			Name:         "Rita",
			Surname:      "Reader",
			Email:        "reader@example.com",
			PasswordHash: hash,
			Role:         entities.RoleReader,
			JoinedAt:     time.Now(),
		},
		{
			Name:         "Lena",
			Surname:      "Shelver",
			Email:        "librarian@example.com",
			PasswordHash: hash,
			Role:         entities.RoleLibrarian,
			JoinedAt:     time.Now(),
		},
	}

	var created []entities.Reader
	for i := range accounts {
		if _, err := repo.GetByEmail(accounts[i].Email); err == nil {
			log.Printf("Account %s already exists, skipping", accounts[i].Email)
			continue
		}
		if err := repo.Create(&accounts[i]); err != nil {
			log.Printf("Failed to create account %s: %v", accounts[i].Email, err)
			continue
		}
		log.Printf("Created account: %s (%s)", accounts[i].Email, accounts[i].Role)
		created = append(created, accounts[i])
	}
	return created, nil
}

func createBooks(repo *books.Repository) []entities.Book {
	catalog := []entities.Book{
		{Title: "The Brothers Karamazov", AuthorName: "Fyodor", AuthorSurname: "Dostoevsky", Month: "November", Year: 1880},
		{Title: "Crime and Punishment", AuthorName: "Fyodor", AuthorSurname: "Dostoevsky", Month: "January", Year: 1866},
		{Title: "Anna Karenina", AuthorName: "Leo", AuthorSurname: "Tolstoy", Month: "April", Year: 1877},
		{Title: "War and Peace", AuthorName: "Leo", AuthorSurname: "Tolstoy", Month: "March", Year: 1869},
		{Title: "Dead Souls", AuthorName: "Nikolai", AuthorSurname: "Gogol", Month: "May", Year: 1842},
		{Title: "Fathers and Sons", AuthorName: "Ivan", AuthorSurname: "Turgenev", Month: "February", Year: 1862},
		{Title: "The Master and Margarita", AuthorName: "Mikhail", AuthorSurname: "Bulgakov", Month: "December", Year: 1967},
		{Title: "Doctor Zhivago", AuthorName: "Boris", AuthorSurname: "Pasternak", Month: "September", Year: 1957},
		{Title: "Eugene Onegin", AuthorName: "Alexander", AuthorSurname: "Pushkin", Month: "June", Year: 1833},
		{Title: "A Hero of Our Time", AuthorName: "Mikhail", AuthorSurname: "Lermontov", Month: "October", Year: 1840},
		{Title: "We", AuthorName: "Yevgeny", AuthorSurname: "Zamyatin", Month: "July", Year: 1924, IsHidden: true},
		{Title: "Oblomov", AuthorName: "Ivan", AuthorSurname: "Goncharov", Month: "August", Year: 1859},
	}

	var created []entities.Book
	for i := range catalog {
		if err := repo.Create(&catalog[i]); err != nil {
			log.Printf("Failed to save book %q: %v", catalog[i].Title, err)
			continue
		}
		log.Printf("Saved: %s by %s %s (%d)", catalog[i].Title, catalog[i].AuthorName, catalog[i].AuthorSurname, catalog[i].Year)
		created = append(created, catalog[i])
	}
	return created
}

func createReviews(reviewsRepo *reviews.Repository, annotationsRepo *annotations.Repository, accounts []entities.Reader, catalog []entities.Book) {
	reader, librarian := accounts[0], accounts[1]

	demoReviews := []entities.Review{
		{Stars: 5, Text: "Read this in one sitting, could not put it down.", BookID: catalog[0].ID, ReviewerID: reader.ID},
		{Stars: 4, Text: "Heavy going in the middle, but the ending pays off.", BookID: catalog[1].ID, ReviewerID: reader.ID},
		{Stars: 5, Text: "A classic for a reason.", BookID: catalog[2].ID, ReviewerID: librarian.ID},
	}
	for i := range demoReviews {
		if err := reviewsRepo.Create(&demoReviews[i]); err != nil {
			log.Printf("Failed to create review: %v", err)
		}
	}

	demoAnnotations := []entities.Annotation{
		{Text: "First edition held in the rare books room.", BookID: catalog[0].ID, ReviewerID: librarian.ID},
		{Text: "Recommended starting point for the author.", BookID: catalog[1].ID, ReviewerID: librarian.ID},
	}
	for i := range demoAnnotations {
		if err := annotationsRepo.Create(&demoAnnotations[i]); err != nil {
			log.Printf("Failed to create annotation: %v", err)
		}
	}
}
