package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a CustomError for callers of the schema manager and the encoder.
type ErrorKind string

const (
	KindSchemaViolation   ErrorKind = "schemaViolation"
	KindValidationFailure ErrorKind = "validationFailure"
	KindOrderingConflict  ErrorKind = "orderingConflict"
	KindIdentityCollision ErrorKind = "identityCollision"
	KindNotFound          ErrorKind = "notFound"
	KindFormClosed        ErrorKind = "formClosed"
)

// FieldIssue names one offending field of a rejected submission.
type FieldIssue struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

type CustomError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Type    string       `json:"type"`
	Kind    ErrorKind    `json:"kind,omitempty"`
	Issues  []FieldIssue `json:"issues,omitempty"`
	cause   error
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// IsKind reports whether err carries a CustomError of the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

// AsCustomError extracts the first CustomError in the chain.
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	ok := errors.As(err, &ce)
	return ce, ok
}

// NewSchemaViolation reports an illegal form or field definition.
func NewSchemaViolation(format string, args ...interface{}) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
		Type:    "forms.schema.violation",
		Kind:    KindSchemaViolation,
	}
}

// NewValidationFailure reports every offending field of a submission at once.
func NewValidationFailure(issues []FieldIssue) *CustomError {
	labels := make([]string, 0, len(issues))
	for _, issue := range issues {
		labels = append(labels, issue.Label)
	}
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Submission rejected for: %s", strings.Join(labels, ", ")),
		Type:    "forms.submission.validation",
		Kind:    KindValidationFailure,
		Issues:  issues,
	}
}

// NewOrderingConflict reports a torn or colliding order state that survived a retry.
func NewOrderingConflict(format string, args ...interface{}) *CustomError {
	return &CustomError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf(format, args...),
		Type:    "forms.ordering.conflict",
		Kind:    KindOrderingConflict,
	}
}

// NewIdentityCollision wraps a unique constraint rejection from the database.
func NewIdentityCollision(cause error, format string, args ...interface{}) *CustomError {
	return &CustomError{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf(format, args...),
		Type:    "forms.identity.collision",
		Kind:    KindIdentityCollision,
		cause:   cause,
	}
}

// NewNotFound reports a missing form, field or public address.
func NewNotFound(format string, args ...interface{}) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf(format, args...),
		Type:    "forms.notfound",
		Kind:    KindNotFound,
	}
}

// NewFormClosed rejects submissions against an unpublished form.
func NewFormClosed(slug string) *CustomError {
	return &CustomError{
		Code:    http.StatusForbidden,
		Message: fmt.Sprintf("Form '%s' is not accepting submissions", slug),
		Type:    "forms.submission.closed",
		Kind:    KindFormClosed,
	}
}
