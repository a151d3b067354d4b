package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// ConflictResponse sends an ordering conflict error (409). The client should
// reload the field list and retry.
func ConflictResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"status":           fiber.StatusConflict,
		"message":          "E_ORDER - Refresh the field order and retry. " + message,
		"ok":               false,
		"orderingConflict": true,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"url":              c.OriginalURL(),
		"type":             "forms.ordering.conflict",
	})
}

// ValidationErrorResponse sends a rejected submission (422) with every field issue.
func ValidationErrorResponse(c *fiber.Ctx, err *types.CustomError) error {
	return c.Status(err.Code).JSON(fiber.Map{
		"status":    err.Code,
		"message":   err.Message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      err.Type,
		"issues":    err.Issues,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      "forms.notfound",
	})
}

// CustomErrorResponse renders err in the envelope its kind calls for.
func CustomErrorResponse(c *fiber.Ctx, err *types.CustomError) error {
	switch err.Kind {
	case types.KindValidationFailure:
		return ValidationErrorResponse(c, err)
	case types.KindOrderingConflict:
		return ConflictResponse(c, err.Message)
	case types.KindNotFound:
		return NotFoundResponse(c, err.Message)
	}
	return ErrorResponse(c, err.Message, err.Code, err.Type)
}

// MutationSuccessResponse sends a success response for mutations without a body to return
func MutationSuccessResponse(c *fiber.Ctx, affectedRows int64) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":      "Success",
		"ok":           true,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"affectedRows": affectedRows,
	})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status           int                `json:"status"`
	Message          string             `json:"message"`
	Ok               bool               `json:"ok"`
	Timestamp        string             `json:"timestamp"`
	URL              string             `json:"url"`
	Type             string             `json:"type,omitempty"`
	OrderingConflict bool               `json:"orderingConflict,omitempty"`
	Issues           []types.FieldIssue `json:"issues,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message      string `json:"message"`
	Ok           bool   `json:"ok"`
	Timestamp    string `json:"timestamp"`
	AffectedRows int64  `json:"affectedRows"`
}
