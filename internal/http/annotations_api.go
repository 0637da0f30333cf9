package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okunevich/biblio/internal/auth"
	"github.com/okunevich/biblio/internal/library"
)

const annotationNotFoundMessage = "There is no annotation with this ID."

// AnnotationsController serves the /api/v1 annotation endpoints.
type AnnotationsController struct {
	service *library.Service
}

// NewAnnotationsController creates a new annotations API controller.
func NewAnnotationsController(service *library.Service) *AnnotationsController {
	return &AnnotationsController{service: service}
}

type createAnnotationRequest struct {
	Text string `json:"text"`
}

type patchAnnotationRequest struct {
	Text *string `json:"text"`
}

// Create handles POST /api/v1/books/:id/annotations. Librarian only.
func (ac *AnnotationsController) Create(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id", bookNotFoundMessage)
	if !ok {
		return
	}

	var req createAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSONError(c, http.StatusBadRequest, "Invalid JSON payload.", nil)
		return
	}

	annotation, err := ac.service.CreateAnnotation(auth.CurrentReader(c), bookID, req.Text)
	if respondDomainError(c, err, errorMessages{
		NotFound:  bookNotFoundMessage,
		Forbidden: "Only librarians can add annotations.",
	}) {
		return
	}

	c.JSON(http.StatusCreated, library.SerializeAnnotation(annotation))
}

// Update handles PATCH /api/v1/annotations/:id.
func (ac *AnnotationsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id", annotationNotFoundMessage)
	if !ok {
		return
	}

	var req patchAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSONError(c, http.StatusBadRequest, "Invalid JSON payload.", nil)
		return
	}

	annotation, err := ac.service.UpdateAnnotation(auth.CurrentReader(c), id, library.AnnotationPatch{
		Text: req.Text,
	})
	if respondDomainError(c, err, errorMessages{
		NotFound:  annotationNotFoundMessage,
		Forbidden: "You can update only your own annotation.",
	}) {
		return
	}

	c.JSON(http.StatusOK, library.SerializeAnnotation(annotation))
}

// Delete handles DELETE /api/v1/annotations/:id.
func (ac *AnnotationsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", annotationNotFoundMessage)
	if !ok {
		return
	}

	err := ac.service.DeleteAnnotation(auth.CurrentReader(c), id)
	if respondDomainError(c, err, errorMessages{
		NotFound:  annotationNotFoundMessage,
		Forbidden: "You can delete only your own annotation.",
	}) {
		return
	}

	c.Status(http.StatusNoContent)
}
