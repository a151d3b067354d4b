// Package store is the persistence boundary of the forms service. Services
// only talk to the Store interface; GormStore implements it for every
// database gorm is configured with.
package store

import (
	"context"

	"github.com/localnerve/jam-build-formsdb/internal/models"
)

// Page selects a window of submissions.
type Page struct {
	Limit  int
	Offset int
}

// Store loads and saves forms, fields and submissions. Errors are
// *types.CustomError values: NotFound for missing rows, IdentityCollision
// for unique constraint rejections and OrderingConflict when a conditional
// order write finds the row changed.
type Store interface {
	LoadForm(ctx context.Context, id string) (*models.Form, error)
	// LockForm loads a form and holds a row lock until the transaction ends
	// where the database supports it.
	LockForm(ctx context.Context, id string) (*models.Form, error)
	FindFormBySlug(ctx context.Context, ownerID, slug string) (*models.Form, error)
	ListForms(ctx context.Context, ownerID string) ([]models.Form, error)
	// OwnerSlugs returns the owner's slugs equal to base or starting with "base-".
	OwnerSlugs(ctx context.Context, ownerID, base string) ([]string, error)
	SaveForm(ctx context.Context, form *models.Form) error
	DeleteForm(ctx context.Context, id string) error

	LoadFields(ctx context.Context, formID string) ([]models.FormField, error)
	LoadField(ctx context.Context, formID, fieldID string) (*models.FormField, error)
	SaveField(ctx context.Context, field *models.FormField) error
	// UpdateFieldOrder writes to only if the stored order still equals from.
	UpdateFieldOrder(ctx context.Context, fieldID string, from, to int) error
	DeleteField(ctx context.Context, formID, fieldID string) error

	LoadSubmissions(ctx context.Context, formID string, page Page) ([]models.Submission, int64, error)
	SaveSubmission(ctx context.Context, record *models.Submission) error

	// Transaction runs fn in a single unit of work. A non-nil error from fn
	// rolls everything back.
	Transaction(ctx context.Context, fn func(Store) error) error
}
