package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/okunevich/biblio/internal/auth"
	"github.com/okunevich/biblio/internal/database/readers"
	"github.com/okunevich/biblio/internal/library"
)

// UIController serves the server-rendered HTML surface.
type UIController struct {
	service        *library.Service
	readers        *readers.Repository
	templates      *template.Template
	defaultPerPage int
}

// NewUIController creates a new UI controller. The template set is the one
// installed on the router; it is consulted for per-book reading templates.
func NewUIController(service *library.Service, readersRepo *readers.Repository, templates *template.Template, defaultPerPage int) *UIController {
	return &UIController{
		service:        service,
		readers:        readersRepo,
		templates:      templates,
		defaultPerPage: defaultPerPage,
	}
}

// Root sends authenticated readers to the catalog and everyone else to login.
func (uc *UIController) Root(c *gin.Context) {
	if auth.CurrentReader(c) != nil {
		c.Redirect(http.StatusFound, "/home")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// Home renders the catalog page: visibility-filtered, searched, paginated.
func (uc *UIController) Home(c *gin.Context) {
	actor := auth.CurrentReader(c)
	search := strings.TrimSpace(c.Query("search"))
	page := parseIntQuery(c, "page", 1)

	result, err := uc.service.ListBooks(actor, search, page, uc.defaultPerPage)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":       "Catalog",
		"Books":       result.Items,
		"Page":        result.Page,
		"Pages":       result.Pages,
		"Total":       result.Total,
		"HasNext":     result.HasNext,
		"HasPrev":     result.HasPrev,
		"SearchQuery": search,
		"IsLibrarian": auth.IsLibrarian(c),
		"Reader":      actor,
		"CSRFToken":   auth.GetCSRFToken(c),
		"Error":       c.Query("error"),
	})
}

// BookPage renders a book's details with its reviews and the submission forms.
func (uc *UIController) BookPage(c *gin.Context) {
	uc.renderBookPage(c, nil, nil, "", "")
}

// renderBookPage renders book.html, optionally carrying form errors and
// the rejected form input back into the page.
func (uc *UIController) renderBookPage(c *gin.Context, reviewErrors, annotationErrors map[string]string, reviewText, annotationText string) {
	actor := auth.CurrentReader(c)
	id, ok := uc.bookIDParam(c)
	if !ok {
		return
	}

	book, err := uc.service.GetBook(actor, id)
	if err != nil {
		uc.bookNotFound(c, err)
		return
	}
	reviews, err := uc.service.ListBookReviews(actor, id)
	if err != nil {
		uc.bookNotFound(c, err)
		return
	}
	annotations, err := uc.service.ListBookAnnotations(actor, id)
	if err != nil {
		uc.bookNotFound(c, err)
		return
	}

	c.HTML(http.StatusOK, "book.html", gin.H{
		"Title":            book.Title,
		"Book":             book,
		"Reviews":          reviews,
		"Annotations":      annotations,
		"IsLibrarian":      auth.IsLibrarian(c),
		"Reader":           actor,
		"CSRFToken":        auth.GetCSRFToken(c),
		"ReviewErrors":     reviewErrors,
		"AnnotationErrors": annotationErrors,
		"ReviewText":       reviewText,
		"AnnotationText":   annotationText,
		"Error":            c.Query("error"),
	})
}

// BookSubmit handles the review and annotation forms on the book page.
// The hidden "form" field tells the two apart.
func (uc *UIController) BookSubmit(c *gin.Context) {
	id, ok := uc.bookIDParam(c)
	if !ok {
		return
	}
	actor := auth.CurrentReader(c)

	switch c.PostForm("form") {
	case "review":
		text := c.PostForm("text")
		stars, _ := strconv.Atoi(c.PostForm("stars"))

		_, err := uc.service.CreateReview(actor, id, text, stars)
		if err != nil {
			var verr *library.ValidationError
			switch {
			case errors.As(err, &verr):
				uc.renderBookPage(c, verr.Fields, nil, text, "")
			case errors.Is(err, library.ErrUnauthenticated):
				c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			default:
				uc.bookNotFound(c, err)
			}
			return
		}
		c.Redirect(http.StatusFound, fmt.Sprintf("/book/%d", id))

	case "annotation":
		text := c.PostForm("text")

		_, err := uc.service.CreateAnnotation(actor, id, text)
		if err != nil {
			var verr *library.ValidationError
			switch {
			case errors.As(err, &verr):
				uc.renderBookPage(c, nil, verr.Fields, "", text)
			case errors.Is(err, library.ErrUnauthenticated):
				c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.Path))
			case errors.Is(err, library.ErrForbidden):
				c.Redirect(http.StatusFound, "/home?error="+url.QueryEscape("Only librarians can add annotations."))
			default:
				uc.bookNotFound(c, err)
			}
			return
		}
		c.Redirect(http.StatusFound, fmt.Sprintf("/book/%d", id))

	default:
		c.Redirect(http.StatusFound, fmt.Sprintf("/book/%d", id))
	}
}

// BookReadPage renders the reading view with the book's annotations.
// A book-specific template wins over the default one when present.
func (uc *UIController) BookReadPage(c *gin.Context) {
	actor := auth.CurrentReader(c)
	id, ok := uc.bookIDParam(c)
	if !ok {
		return
	}

	book, err := uc.service.GetBook(actor, id)
	if err != nil {
		uc.bookNotFound(c, err)
		return
	}
	annotations, err := uc.service.ListBookAnnotations(actor, id)
	if err != nil {
		uc.bookNotFound(c, err)
		return
	}

	name := fmt.Sprintf("book_%d_read.html", book.ID)
	if uc.templates == nil || uc.templates.Lookup(name) == nil {
		name = "book_default_read.html"
	}

	c.HTML(http.StatusOK, name, gin.H{
		"Title":       book.Title,
		"Book":        book,
		"Annotations": annotations,
		"IsLibrarian": auth.IsLibrarian(c),
		"Reader":      actor,
		"CSRFToken":   auth.GetCSRFToken(c),
	})
}

// ReviewPage renders a single review.
func (uc *UIController) ReviewPage(c *gin.Context) {
	id, ok := parseUIIDParam(c, "id")
	if !ok {
		return
	}

	review, err := uc.service.GetReview(id)
	if err != nil {
		c.String(http.StatusNotFound, reviewNotFoundMessage)
		return
	}

	c.HTML(http.StatusOK, "review.html", gin.H{
		"Title":       "Review",
		"Review":      review,
		"IsLibrarian": auth.IsLibrarian(c),
		"Reader":      auth.CurrentReader(c),
		"CSRFToken":   auth.GetCSRFToken(c),
	})
}

// Profile renders a reader's profile page.
func (uc *UIController) Profile(c *gin.Context) {
	id, ok := parseUIIDParam(c, "id")
	if !ok {
		return
	}

	reader, err := uc.readers.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusNotFound, readerNotFoundMessageUI)
			return
		}
		c.String(http.StatusInternalServerError, "Error loading profile")
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Title":       "Profile",
		"Profile":     reader,
		"IsLibrarian": auth.IsLibrarian(c),
		"Reader":      auth.CurrentReader(c),
	})
}

// ToggleHidden flips a book's visibility. Responds with JSON for the
// catalog's toggle button.
func (uc *UIController) ToggleHidden(c *gin.Context) {
	actor := auth.CurrentReader(c)
	if actor == nil || !actor.IsLibrarian() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only librarians can change visibility."})
		return
	}

	id, ok := uc.bookIDParam(c)
	if !ok {
		return
	}

	book, err := uc.service.ToggleHidden(actor, id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			c.String(http.StatusNotFound, bookNotFoundMessage)
			return
		}
		c.String(http.StatusInternalServerError, "Error updating book")
		return
	}

	buttonLabel := "Hide book"
	buttonLabelShort := "Hide"
	if book.IsHidden {
		buttonLabel = "Unhide book"
		buttonLabelShort = "Unhide"
	}

	c.JSON(http.StatusOK, gin.H{
		"book_id":            book.ID,
		"is_hidden":          book.IsHidden,
		"button_label":       buttonLabel,
		"button_label_short": buttonLabelShort,
	})
}

// DeleteReview handles the form-post deletion of a review.
func (uc *UIController) DeleteReview(c *gin.Context) {
	id, ok := parseUIIDParam(c, "id")
	if !ok {
		return
	}
	actor := auth.CurrentReader(c)

	review, err := uc.service.GetReview(id)
	if err != nil {
		c.Redirect(http.StatusFound, "/home?error="+url.QueryEscape("Review not found."))
		return
	}

	if err := uc.service.DeleteReview(actor, id); err != nil {
		if errors.Is(err, library.ErrForbidden) {
			c.Redirect(http.StatusFound, "/home?error="+url.QueryEscape("You can delete only your own review."))
			return
		}
		c.Redirect(http.StatusFound, "/home?error="+url.QueryEscape("Review not found."))
		return
	}

	uc.redirectBack(c, fmt.Sprintf("/book/%d", review.BookID))
}

// DeleteAnnotation handles the form-post deletion of an annotation.
func (uc *UIController) DeleteAnnotation(c *gin.Context) {
	id, ok := parseUIIDParam(c, "id")
	if !ok {
		return
	}
	actor := auth.CurrentReader(c)

	annotation, err := uc.service.GetAnnotation(id)
	if err != nil {
		c.Redirect(http.StatusFound, "/home?error="+url.QueryEscape("Annotation not found."))
		return
	}

	if err := uc.service.DeleteAnnotation(actor, id); err != nil {
		if errors.Is(err, library.ErrForbidden) {
			c.Redirect(http.StatusFound, "/home?error="+url.QueryEscape("You can delete only your own annotation."))
			return
		}
		c.Redirect(http.StatusFound, "/home?error="+url.QueryEscape("Annotation not found."))
		return
	}

	uc.redirectBack(c, fmt.Sprintf("/book/%d/read", annotation.BookID))
}

const readerNotFoundMessageUI = "There is no user with this ID."

// bookIDParam parses the :id param, answering 404 text on garbage.
func (uc *UIController) bookIDParam(c *gin.Context) (uint, bool) {
	return parseUIIDParam(c, "id")
}

// parseUIIDParam is the HTML-surface cousin of parseIDParam: plain-text 404.
func parseUIIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "Not found")
		return 0, false
	}
	return uint(id), true
}

// bookNotFound answers a failed book resolution on the HTML surface.
// Hidden books read as missing for non-librarians.
func (uc *UIController) bookNotFound(c *gin.Context, err error) {
	if errors.Is(err, library.ErrNotFound) {
		c.Redirect(http.StatusFound, "/home?error="+url.QueryEscape(bookNotFoundMessage))
		return
	}
	c.String(http.StatusInternalServerError, "Error loading book")
}

// redirectBack returns to the referring page when it is local, otherwise
// to the given fallback.
func (uc *UIController) redirectBack(c *gin.Context, fallback string) {
	referer := c.Request.Referer()
	if referer != "" {
		if u, err := url.Parse(referer); err == nil && u.Host == c.Request.Host {
			c.Redirect(http.StatusFound, u.RequestURI())
			return
		}
	}
	c.Redirect(http.StatusFound, fallback)
}
