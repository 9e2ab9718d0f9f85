// Package apperrors provides structured application errors that map cleanly onto
// GraphQL error extensions and HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	// Client errors
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeTooManyRequests  ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Extensions is picked up by graphql-go and rendered under "extensions" in the
// error payload.
func (e *AppError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": string(e.Code),
	}
	if e.Details != "" {
		ext["details"] = e.Details
	}
	for k, v := range e.Metadata {
		ext[k] = v
	}
	return ext
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeExternalServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error
func New(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func NewBadRequestError(message string) *AppError {
	return New(CodeBadRequest, message, "")
}

func NewValidationError(details string) *AppError {
	return New(CodeValidationFailed, "Validation failed", details)
}

func NewConflictError(message string) *AppError {
	return New(CodeConflict, message, "")
}

func NewTooManyRequestsError(limit int, window time.Duration, resetAt time.Time) *AppError {
	return New(
		CodeTooManyRequests,
		"Rate limit exceeded",
		fmt.Sprintf("limit of %d requests per %v reached", limit, window),
	).WithMetadata("limit", limit).
		WithMetadata("retry_after", int(time.Until(resetAt).Seconds()))
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return New(CodeInternal, message, "")
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *AppError {
	return New(
		CodeDatabaseError,
		"Database operation failed",
		fmt.Sprintf("Failed to %s", operation),
	).WithCause(cause)
}

// NewExternalServiceError creates an external service error
func NewExternalServiceError(service string, cause error) *AppError {
	return New(
		CodeExternalServiceError,
		"External service error",
		fmt.Sprintf("Failed to communicate with %s", service),
	).WithCause(cause)
}

// NewMalformedResponseError reports a language-model response that could not be
// mapped onto a recipe.
func NewMalformedResponseError(service string, cause error) *AppError {
	return New(
		CodeExternalServiceError,
		"External service returned an unusable response",
		fmt.Sprintf("Could not parse response from %s: %v", service, cause),
	).WithCause(cause)
}

// NewIngredientNotFoundError creates an ingredient not found error
func NewIngredientNotFoundError(name string) *AppError {
	return New(
		CodeNotFound,
		"Ingredient not found",
		fmt.Sprintf("Ingredient %q is not in the catalog", name),
	).WithMetadata("ingredient", name)
}

// NewIngredientListNotFoundError creates an ingredient list not found error
func NewIngredientListNotFoundError(listID string) *AppError {
	return New(
		CodeNotFound,
		"Ingredient list not found",
		fmt.Sprintf("Ingredient list with ID %s does not exist", listID),
	).WithMetadata("ingredient_list_id", listID)
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeID string) *AppError {
	return New(
		CodeNotFound,
		"Recipe not found",
		fmt.Sprintf("Recipe with ID %s does not exist", recipeID),
	).WithMetadata("recipe_id", recipeID)
}

// NewListFinalizedError is returned when a finalized ingredient list is mutated
func NewListFinalizedError(listID string) *AppError {
	return New(
		CodeConflict,
		"Ingredient list is finalized",
		fmt.Sprintf("A recipe has already been created from ingredient list %s", listID),
	).WithMetadata("ingredient_list_id", listID)
}

// NewListChangedError reports a list edited while a recipe was generated from it
func NewListChangedError(listID string) *AppError {
	return New(
		CodeConflict,
		"Ingredient list changed",
		fmt.Sprintf("Ingredient list %s was modified while the recipe was being generated", listID),
	).WithMetadata("ingredient_list_id", listID)
}

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// ErrorResponse represents a non-GraphQL error response body
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails represents the error details in HTTP responses
type ErrorDetails struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an HTTP error response
func ToErrorResponse(err *AppError) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			Details:   err.Details,
			Timestamp: fmt.Sprintf("%d", time.Now().Unix()),
		},
	}
}
