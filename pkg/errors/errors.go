package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrConflict       = errors.New("conflict")
	ErrServiceUnavail = errors.New("service unavailable")
)

// Catalog-specific sentinel errors.
var (
	ErrOrderConflict       = errors.New("display order conflict")
	ErrAttributeNotAllowed = errors.New("attribute not allowed for product type")
	ErrDuplicateAttribute  = errors.New("duplicate attribute on product line")
	ErrProtected           = errors.New("resource is protected by dependents")
)

// AppError represents a structured application error with HTTP status mapping.
// Field, when set, names the request field the error applies to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Conflict creates a generic 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// OrderConflict creates a 409 error for an explicit display order value that
// is already taken within its scope.
func OrderConflict(field string, value int) *AppError {
	return &AppError{
		Code:    "ORDER_CONFLICT",
		Message: fmt.Sprintf("The display order %q is already in use. Please choose a different value.", fmt.Sprint(value)),
		Field:   field,
		Status:  http.StatusConflict,
		Err:     ErrOrderConflict,
	}
}

// AttributeNotAllowed creates a 400 error for an attribute value whose
// attribute is not part of the product type's permitted set.
func AttributeNotAllowed(attribute, typeName string) *AppError {
	return &AppError{
		Code:    "ATTRIBUTE_NOT_ALLOWED",
		Message: fmt.Sprintf("attribute %q is not permitted for product type %q", attribute, typeName),
		Field:   "attribute_value_ids",
		Status:  http.StatusBadRequest,
		Err:     ErrAttributeNotAllowed,
	}
}

// DuplicateAttribute creates a 409 error for a product line that would carry
// two values of the same attribute.
func DuplicateAttribute(attribute string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_ATTRIBUTE",
		Message: fmt.Sprintf("product line already has a value for attribute %q", attribute),
		Field:   "attribute_value_ids",
		Status:  http.StatusConflict,
		Err:     ErrDuplicateAttribute,
	}
}

// Protected creates a 409 error for a delete blocked by dependent rows.
func Protected(resource, dependent string) *AppError {
	return &AppError{
		Code:    "PROTECTED",
		Message: fmt.Sprintf("%s cannot be deleted while %s reference it", resource, dependent),
		Status:  http.StatusConflict,
		Err:     ErrProtected,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict),
		errors.Is(err, ErrOrderConflict), errors.Is(err, ErrDuplicateAttribute),
		errors.Is(err, ErrProtected):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrAttributeNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
