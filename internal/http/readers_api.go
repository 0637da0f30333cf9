package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/okunevich/biblio/internal/database/readers"
	"github.com/okunevich/biblio/internal/library"
)

const readerNotFoundMessage = "There is no user with this ID."

// ReadersController serves the /api/v1/readers endpoints.
type ReadersController struct {
	repo *readers.Repository
}

// NewReadersController creates a new readers API controller.
func NewReadersController(repo *readers.Repository) *ReadersController {
	return &ReadersController{repo: repo}
}

// Profile handles GET /api/v1/readers/:id.
func (rc *ReadersController) Profile(c *gin.Context) {
	id, ok := parseIDParam(c, "id", readerNotFoundMessage)
	if !ok {
		return
	}

	reader, err := rc.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondJSONError(c, http.StatusNotFound, readerNotFoundMessage, nil)
			return
		}
		respondDomainError(c, err, errorMessages{})
		return
	}

	c.JSON(http.StatusOK, library.SerializeReader(reader))
}
