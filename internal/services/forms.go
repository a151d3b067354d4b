// forms.go
//
// Form builder and submission collection service for jam-build
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jam-build-formsdb.
// jam-build-formsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jam-build-formsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jam-build-formsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/slug"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// maxIdentityAttempts bounds the recompute-and-resubmit loop that follows a
// unique constraint rejection.
const maxIdentityAttempts = 3

const maxTitleLength = 255

// FormService owns forms and their field collections.
type FormService struct {
	Store store.Store
}

// NewFormService creates a FormService over st.
func NewFormService(st store.Store) *FormService {
	return &FormService{Store: st}
}

// FormInput is the body of a create request.
type FormInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// FormPatch updates the presentation attributes of a form. The slug is not
// touched; see RenameSlug.
type FormPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// retryIdentity reruns fn while the database rejects it with an identity
// collision, so every attempt recomputes against the latest state.
func retryIdentity(what string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxIdentityAttempts; attempt++ {
		err = fn()
		if !types.IsKind(err, types.KindIdentityCollision) {
			return err
		}
		log.Printf("%s: identity collision on attempt %d: %v", what, attempt, err)
	}
	return err
}

func cleanTitle(title string) (string, error) {
	clean, err := exactText(title, "Form title")
	if err != nil {
		return "", err
	}
	if len([]rune(clean)) > maxTitleLength {
		return "", types.NewSchemaViolation("Form title must be at most %d characters", maxTitleLength)
	}
	return clean, nil
}

// CreateForm creates an unpublished form with a slug derived from its title.
func (s *FormService) CreateForm(ctx context.Context, ownerID string, input FormInput) (*models.Form, error) {
	title, err := cleanTitle(input.Title)
	if err != nil {
		return nil, err
	}
	description := plainText(input.Description)
	base := slug.Make(title)

	var form *models.Form
	err = retryIdentity("create form", func() error {
		existing, err := s.Store.OwnerSlugs(ctx, ownerID, base)
		if err != nil {
			return err
		}
		form = &models.Form{
			ID:          uuid.New().String(),
			OwnerID:     ownerID,
			Title:       title,
			Description: description,
			Slug:        slug.AssignFrom(base, existing),
		}
		return s.Store.SaveForm(ctx, form)
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

// GetForm loads a form of ownerID with its ordered fields. Forms of other
// owners are reported as not found.
func (s *FormService) GetForm(ctx context.Context, ownerID, formID string) (*models.Form, error) {
	form, err := s.ownedForm(ctx, s.Store, ownerID, formID)
	if err != nil {
		return nil, err
	}
	fields, err := s.Store.LoadFields(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	form.Fields = fields
	return form, nil
}

// ListForms returns the owner's forms, newest first, without fields.
func (s *FormService) ListForms(ctx context.Context, ownerID string) ([]models.Form, error) {
	return s.Store.ListForms(ctx, ownerID)
}

// UpdateForm changes title and description.
func (s *FormService) UpdateForm(ctx context.Context, ownerID, formID string, patch FormPatch) (*models.Form, error) {
	var form *models.Form
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if form, err = s.lockedForm(ctx, tx, ownerID, formID); err != nil {
			return err
		}
		if patch.Title != nil {
			if form.Title, err = cleanTitle(*patch.Title); err != nil {
				return err
			}
		}
		if patch.Description != nil {
			form.Description = plainText(*patch.Description)
		}
		return tx.SaveForm(ctx, form)
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

// RenameSlug explicitly moves a form to a new public address. The requested
// slug is normalized and suffixed like a fresh one if the owner already uses it.
func (s *FormService) RenameSlug(ctx context.Context, ownerID, formID, requested string) (*models.Form, error) {
	base := slug.Normalize(requested)

	var form *models.Form
	err := retryIdentity("rename slug", func() error {
		return s.Store.Transaction(ctx, func(tx store.Store) error {
			var err error
			if form, err = s.lockedForm(ctx, tx, ownerID, formID); err != nil {
				return err
			}
			if form.Slug == base {
				return nil
			}
			existing, err := tx.OwnerSlugs(ctx, ownerID, base)
			if err != nil {
				return err
			}
			others := existing[:0]
			for _, used := range existing {
				if used != form.Slug {
					others = append(others, used)
				}
			}
			form.Slug = slug.AssignFrom(base, others)
			return tx.SaveForm(ctx, form)
		})
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

// TogglePublish flips the published flag and nothing else.
func (s *FormService) TogglePublish(ctx context.Context, ownerID, formID string) (*models.Form, error) {
	var form *models.Form
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		var err error
		if form, err = s.lockedForm(ctx, tx, ownerID, formID); err != nil {
			return err
		}
		form.Published = !form.Published
		return tx.SaveForm(ctx, form)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Form %s published=%t", form.ID, form.Published)
	return form, nil
}

// DeleteForm removes a form, its fields and its submissions.
func (s *FormService) DeleteForm(ctx context.Context, ownerID, formID string) error {
	if _, err := s.ownedForm(ctx, s.Store, ownerID, formID); err != nil {
		return err
	}
	return s.Store.DeleteForm(ctx, formID)
}

func (s *FormService) ownedForm(ctx context.Context, st store.Store, ownerID, formID string) (*models.Form, error) {
	form, err := st.LoadForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.OwnerID != ownerID {
		return nil, types.NewNotFound("Form '%s' not found", formID)
	}
	return form, nil
}

func (s *FormService) lockedForm(ctx context.Context, tx store.Store, ownerID, formID string) (*models.Form, error) {
	form, err := tx.LockForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.OwnerID != ownerID {
		return nil, types.NewNotFound("Form '%s' not found", formID)
	}
	return form, nil
}
