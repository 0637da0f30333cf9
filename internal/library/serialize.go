package library

import (
	"time"

	"github.com/okunevich/biblio/internal/entities"
)

// Payload types flatten entities for the API surface. Nested collections
// inside a book payload are projected to a narrower field subset: a
// review or annotation nested under its own book does not repeat book_id.

type BookPayload struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	AuthorName    string `json:"author_name"`
	AuthorSurname string `json:"author_surname"`
	Month         string `json:"month"`
	Year          int    `json:"year"`
	CoverImage    string `json:"cover_image"`
}

type ReviewPayload struct {
	ID         uint   `json:"id"`
	Stars      int    `json:"stars"`
	Text       string `json:"text"`
	BookID     uint   `json:"book_id"`
	ReviewerID uint   `json:"reviewer_id"`
}

type AnnotationPayload struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	BookID     uint   `json:"book_id"`
	ReviewerID uint   `json:"reviewer_id"`
}

type NestedReview struct {
	ID         uint   `json:"id"`
	Stars      int    `json:"stars"`
	Text       string `json:"text"`
	ReviewerID uint   `json:"reviewer_id"`
}

type NestedAnnotation struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	ReviewerID uint   `json:"reviewer_id"`
}

type BookDetailsPayload struct {
	BookPayload
	Reviews     []NestedReview     `json:"reviews"`
	Annotations []NestedAnnotation `json:"annotations"`
}

type ReaderPayload struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

func SerializeBook(book *entities.Book) BookPayload {
	return BookPayload{
		ID:            book.ID,
		Title:         book.Title,
		AuthorName:    book.AuthorName,
		AuthorSurname: book.AuthorSurname,
		Month:         book.Month,
		Year:          book.Year,
		CoverImage:    book.CoverImage,
	}
}

func SerializeReview(review *entities.Review) ReviewPayload {
	return ReviewPayload{
		ID:         review.ID,
		Stars:      review.Stars,
		Text:       review.Text,
		BookID:     review.BookID,
		ReviewerID: review.ReviewerID,
	}
}

func SerializeAnnotation(annotation *entities.Annotation) AnnotationPayload {
	return AnnotationPayload{
		ID:         annotation.ID,
		Text:       annotation.Text,
		BookID:     annotation.BookID,
		ReviewerID: annotation.ReviewerID,
	}
}

func SerializeBookDetails(book *entities.Book, reviews []entities.Review, annotations []entities.Annotation) BookDetailsPayload {
	payload := BookDetailsPayload{
		BookPayload: SerializeBook(book),
		Reviews:     make([]NestedReview, 0, len(reviews)),
		Annotations: make([]NestedAnnotation, 0, len(annotations)),
	}
	for _, r := range reviews {
		payload.Reviews = append(payload.Reviews, NestedReview{
			ID:         r.ID,
			Stars:      r.Stars,
			Text:       r.Text,
			ReviewerID: r.ReviewerID,
		})
	}
	for _, a := range annotations {
		payload.Annotations = append(payload.Annotations, NestedAnnotation{
			ID:         a.ID,
			Text:       a.Text,
			ReviewerID: a.ReviewerID,
		})
	}
	return payload
}

func SerializeReader(reader *entities.Reader) ReaderPayload {
	return ReaderPayload{
		ID:       reader.ID,
		Name:     reader.Name,
		Surname:  reader.Surname,
		Email:    reader.Email,
		Role:     string(reader.Role),
		JoinedAt: reader.JoinedAt.Format(time.RFC3339),
	}
}
