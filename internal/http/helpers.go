package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/okunevich/biblio/internal/library"
)

// --- Response Types ---

// ErrorBody is the inner object of the API error envelope.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the standard error response format for all API errors:
// {"error": {"code", "message", "details?"}}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// PaginationMeta describes one page of a paginated collection.
type PaginationMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// --- Error Response Helpers ---

func respondJSONError(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorEnvelope{Error: ErrorBody{Code: status, Message: message, Details: details}})
}

// errorMessages carries the contextual messages for mapping domain errors
// on a given endpoint.
type errorMessages struct {
	NotFound  string
	Forbidden string
}

// respondDomainError translates library-layer errors into the API error
// envelope. Returns false when err is nil.
func respondDomainError(c *gin.Context, err error, msgs errorMessages) bool {
	if err == nil {
		return false
	}

	var verr *library.ValidationError
	switch {
	case errors.Is(err, library.ErrNotFound):
		respondJSONError(c, http.StatusNotFound, msgs.NotFound, nil)
	case errors.Is(err, library.ErrUnauthenticated):
		respondJSONError(c, http.StatusUnauthorized, "Authentication required.", nil)
	case errors.Is(err, library.ErrForbidden):
		respondJSONError(c, http.StatusForbidden, msgs.Forbidden, nil)
	case errors.Is(err, library.ErrEmptyPatch):
		respondJSONError(c, http.StatusBadRequest, "No valid fields to update.", nil)
	case errors.As(err, &verr):
		respondJSONError(c, http.StatusUnprocessableEntity, "Validation failed.", verr.Fields)
	default:
		log.Printf("Internal error (%s %s): %v", c.Request.Method, c.Request.URL.Path, err)
		respondJSONError(c, http.StatusInternalServerError, "Internal server error.", nil)
	}
	return true
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with 404 and returns false on malformed input: an
// unparseable id cannot resolve to an entity.
func parseIDParam(c *gin.Context, paramName, notFoundMsg string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondJSONError(c, http.StatusNotFound, notFoundMsg, nil)
		return 0, false
	}
	return uint(id), true
}

// parseIntQuery reads an integer query parameter with a fallback.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
