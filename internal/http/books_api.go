package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okunevich/biblio/internal/auth"
	"github.com/okunevich/biblio/internal/library"
)

const bookNotFoundMessage = "There is no book with this ID."

// BooksController serves the /api/v1/books endpoints.
type BooksController struct {
	service        *library.Service
	defaultPerPage int
}

// NewBooksController creates a new books API controller.
func NewBooksController(service *library.Service, defaultPerPage int) *BooksController {
	return &BooksController{service: service, defaultPerPage: defaultPerPage}
}

// List returns a paginated catalog slice with its pagination envelope.
// Hidden books appear only for librarian principals.
func (bc *BooksController) List(c *gin.Context) {
	actor := auth.CurrentReader(c)
	search := strings.TrimSpace(c.Query("search"))
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", bc.defaultPerPage)

	result, err := bc.service.ListBooks(actor, search, page, perPage)
	if respondDomainError(c, err, errorMessages{}) {
		return
	}

	items := make([]library.BookPayload, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, library.SerializeBook(&result.Items[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"pagination": PaginationMeta{
			Page:    result.Page,
			PerPage: result.PerPage,
			Pages:   result.Pages,
			Total:   result.Total,
			HasNext: result.HasNext,
			HasPrev: result.HasPrev,
		},
		"search": search,
	})
}

// Details returns a book with its reviews and annotations nested, each
// projected to the narrow subset.
func (bc *BooksController) Details(c *gin.Context) {
	id, ok := parseIDParam(c, "id", bookNotFoundMessage)
	if !ok {
		return
	}
	actor := auth.CurrentReader(c)

	book, err := bc.service.GetBook(actor, id)
	if respondDomainError(c, err, errorMessages{NotFound: bookNotFoundMessage}) {
		return
	}

	reviews, err := bc.service.ListBookReviews(actor, id)
	if respondDomainError(c, err, errorMessages{NotFound: bookNotFoundMessage}) {
		return
	}
	annotations, err := bc.service.ListBookAnnotations(actor, id)
	if respondDomainError(c, err, errorMessages{NotFound: bookNotFoundMessage}) {
		return
	}

	c.JSON(http.StatusOK, library.SerializeBookDetails(book, reviews, annotations))
}

// DetailsLegacy permanently redirects the retired data route to the
// canonical details endpoint.
func (bc *BooksController) DetailsLegacy(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, "/api/v1/books/"+c.Param("id"))
}
