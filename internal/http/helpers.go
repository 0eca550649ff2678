package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/library/internal/database"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// Machine-readable error codes.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
	CodeStorageUnavailable  = "storage_unavailable"
	CodeInternalServerError = "internal_error"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string, details any) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidRequest, Details: details})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternalServerError})
}

// respondStoreError maps a repository error onto its HTTP status.
func respondStoreError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, database.ErrInvalidInput):
		respondBadRequest(c, err.Error(), nil)
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, resource)
	case errors.Is(err, database.ErrConstraintViolation):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: CodeConflict})
	case errors.Is(err, database.ErrStorageUnavailable):
		log.Printf("Storage unavailable (%s): %v", resource, err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable", Code: CodeStorageUnavailable})
	default:
		respondInternalError(c, err, resource)
	}
}

// respondBindError reports a request body that failed to decode or validate.
// Validation failures list the offending fields.
func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[jsonFieldName(fe)] = fe.Tag()
		}
		respondBadRequest(c, "invalid request body", fields)
		return
	}
	respondBadRequest(c, "invalid request body: "+err.Error(), nil)
}

// jsonFieldName turns a validator namespace like "UpdateBookRequest.Book.ISBN"
// into "book.isbn".
func jsonFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}
