package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okunevich/biblio/internal/auth"
	"github.com/okunevich/biblio/internal/library"
)

const reviewNotFoundMessage = "There is no review with this ID."

// ReviewsController serves the /api/v1 review endpoints.
type ReviewsController struct {
	service *library.Service
}

// NewReviewsController creates a new reviews API controller.
func NewReviewsController(service *library.Service) *ReviewsController {
	return &ReviewsController{service: service}
}

type createReviewRequest struct {
	Text  string `json:"text"`
	Stars *int   `json:"stars"`
}

type patchReviewRequest struct {
	Text  *string `json:"text"`
	Stars *int    `json:"stars"`
}

// Create handles POST /api/v1/books/:id/reviews.
func (rc *ReviewsController) Create(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id", bookNotFoundMessage)
	if !ok {
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSONError(c, http.StatusBadRequest, "Invalid JSON payload.", nil)
		return
	}
	stars := 0
	if req.Stars != nil {
		stars = *req.Stars
	}

	review, err := rc.service.CreateReview(auth.CurrentReader(c), bookID, req.Text, stars)
	if respondDomainError(c, err, errorMessages{NotFound: bookNotFoundMessage}) {
		return
	}

	c.JSON(http.StatusCreated, library.SerializeReview(review))
}

// Details handles GET /api/v1/reviews/:id.
func (rc *ReviewsController) Details(c *gin.Context) {
	id, ok := parseIDParam(c, "id", reviewNotFoundMessage)
	if !ok {
		return
	}

	review, err := rc.service.GetReview(id)
	if respondDomainError(c, err, errorMessages{NotFound: reviewNotFoundMessage}) {
		return
	}

	c.JSON(http.StatusOK, library.SerializeReview(review))
}

// Update handles PATCH /api/v1/reviews/:id. The body is a partial update;
// only the original author or a librarian may apply it.
func (rc *ReviewsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id", reviewNotFoundMessage)
	if !ok {
		return
	}

	var req patchReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondJSONError(c, http.StatusBadRequest, "Invalid JSON payload.", nil)
		return
	}

	review, err := rc.service.UpdateReview(auth.CurrentReader(c), id, library.ReviewPatch{
		Text:  req.Text,
		Stars: req.Stars,
	})
	if respondDomainError(c, err, errorMessages{
		NotFound:  reviewNotFoundMessage,
		Forbidden: "You can update only your own review.",
	}) {
		return
	}

	c.JSON(http.StatusOK, library.SerializeReview(review))
}

// Delete handles DELETE /api/v1/reviews/:id.
func (rc *ReviewsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id", reviewNotFoundMessage)
	if !ok {
		return
	}

	err := rc.service.DeleteReview(auth.CurrentReader(c), id)
	if respondDomainError(c, err, errorMessages{
		NotFound:  reviewNotFoundMessage,
		Forbidden: "You can delete only your own review.",
	}) {
		return
	}

	c.Status(http.StatusNoContent)
}
