package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	uploaddomain "github.com/smallbiznis/demandcast/internal/upload/domain"
	"github.com/smallbiznis/demandcast/pkg/db"
	"gorm.io/gorm"
)

type errorPayload struct {
	Status  int                     `json:"status"`
	Message string                  `json:"message"`
	Errors  []uploaddomain.RowError `json:"errors,omitempty"`
}

var ErrInvalidDate = errors.New("invalid_date")

// ErrorHandlingMiddleware converts errors recorded on the context into a
// single structured response. Every failure, upload or query alike, is a
// transport-level error with the same payload shape.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var validationErr *uploaddomain.ValidationFailedError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, errorPayload{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Errors:  validationErr.Errors,
		}
	}

	var missingErr *uploaddomain.MissingColumnsError
	if errors.As(err, &missingErr) {
		return http.StatusBadRequest, errorPayload{
			Status:  http.StatusBadRequest,
			Message: "Missing required columns: " + strings.Join(missingErr.Columns, ", "),
		}
	}

	switch {
	case errors.Is(err, uploaddomain.ErrInvalidFileType):
		return http.StatusBadRequest, errorPayload{
			Status:  http.StatusBadRequest,
			Message: "Only CSV files are allowed",
		}
	case errors.Is(err, uploaddomain.ErrMalformedCSV):
		return http.StatusBadRequest, errorPayload{
			Status:  http.StatusBadRequest,
			Message: "Malformed CSV file",
		}
	case errors.Is(err, uploaddomain.ErrFileTooLarge):
		return http.StatusBadRequest, errorPayload{
			Status:  http.StatusBadRequest,
			Message: "File exceeds the upload size limit",
		}
	case errors.Is(err, uploaddomain.ErrTooManyRows):
		return http.StatusBadRequest, errorPayload{
			Status:  http.StatusBadRequest,
			Message: "File exceeds the row limit",
		}
	case errors.Is(err, ErrInvalidDate):
		return http.StatusBadRequest, errorPayload{
			Status:  http.StatusBadRequest,
			Message: "Dates must be in YYYY-MM-DD format",
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Status:  http.StatusNotFound,
			Message: "not found",
		}
	case db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorPayload{
			Status:  http.StatusConflict,
			Message: "conflict",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Status:  http.StatusInternalServerError,
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog labels errors for request logging without exposing
// internals.
func classifyErrorForLog(err error) (string, string) {
	var validationErr *uploaddomain.ValidationFailedError
	var missingErr *uploaddomain.MissingColumnsError
	switch {
	case errors.As(err, &validationErr):
		return "validation_error", "row_validation"
	case errors.As(err, &missingErr):
		return "validation_error", "missing_columns"
	case errors.Is(err, uploaddomain.ErrInvalidFileType):
		return "validation_error", "file_type"
	case errors.Is(err, uploaddomain.ErrMalformedCSV):
		return "validation_error", "malformed_csv"
	case errors.Is(err, uploaddomain.ErrFileTooLarge):
		return "validation_error", "file_size"
	case errors.Is(err, uploaddomain.ErrTooManyRows):
		return "validation_error", "row_limit"
	case errors.Is(err, ErrInvalidDate):
		return "validation_error", "invalid_date"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "not_found", "record_not_found"
	case db.IsDuplicateKeyErr(err):
		return "conflict", "duplicate_key"
	default:
		return "internal_error", "unclassified"
	}
}
