// gorm.go
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

package store

import (
	"context"
	"fmt"

	"github.com/localnerve/jam-build-formsdb/internal/database"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

const ownerSlugIndex = "idx_form_owner_slug"

// GormStore implements Store on a gorm connection.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore wraps db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) quiet(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Session(&gorm.Session{Logger: s.DB.Logger.LogMode(logger.Silent)})
}

func translate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if database.IsNotFound(err) {
		return types.NewNotFound(format, args...)
	}
	if database.IsUniqueViolation(err) {
		return types.NewIdentityCollision(err, format, args...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func (s *GormStore) LoadForm(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	if err := s.quiet(ctx).Where("id = ?", id).First(&form).Error; err != nil {
		return nil, translate(err, "Form '%s' not found", id)
	}
	return &form, nil
}

func (s *GormStore) LockForm(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	if err := s.quiet(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&form).Error; err != nil {
		return nil, translate(err, "Form '%s' not found", id)
	}
	return &form, nil
}

// FindFormBySlug resolves a public address through the (owner_id, slug) unique index.
func (s *GormStore) FindFormBySlug(ctx context.Context, ownerID, slug string) (*models.Form, error) {
	query := s.quiet(ctx)
	if query.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex(ownerSlugIndex))
	}

	var form models.Form
	if err := query.Where("owner_id = ? AND slug = ?", ownerID, slug).First(&form).Error; err != nil {
		return nil, translate(err, "Form '%s' not found", slug)
	}
	return &form, nil
}

func (s *GormStore) ListForms(ctx context.Context, ownerID string) ([]models.Form, error) {
	var forms []models.Form
	if err := s.quiet(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id").
		Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}

func (s *GormStore) OwnerSlugs(ctx context.Context, ownerID, base string) ([]string, error) {
	var slugs []string
	if err := s.quiet(ctx).
		Model(&models.Form{}).
		Where("owner_id = ? AND (slug = ? OR slug LIKE ?)", ownerID, base, base+"-%").
		Pluck("slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("load slugs: %w", err)
	}
	return slugs, nil
}

func (s *GormStore) SaveForm(ctx context.Context, form *models.Form) error {
	db := s.DB.WithContext(ctx).Omit(clause.Associations)
	var err error
	if form.CreatedAt.IsZero() {
		err = db.Create(form).Error
	} else {
		err = db.Save(form).Error
	}
	return translate(err, "Form slug '%s' is already in use", form.Slug)
}

// DeleteForm removes a form with its fields and submissions.
func (s *GormStore) DeleteForm(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", id).Delete(&models.FormField{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Form{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return types.NewNotFound("Form '%s' not found", id)
		}
		return nil
	})
}

func (s *GormStore) LoadFields(ctx context.Context, formID string) ([]models.FormField, error) {
	var fields []models.FormField
	if err := s.quiet(ctx).
		Where("form_id = ?", formID).
		Order("sort_order").
		Order("created_at").
		Order("id").
		Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("load fields: %w", err)
	}
	models.SortFields(fields)
	return fields, nil
}

func (s *GormStore) LoadField(ctx context.Context, formID, fieldID string) (*models.FormField, error) {
	var field models.FormField
	if err := s.quiet(ctx).
		Where("form_id = ? AND id = ?", formID, fieldID).
		First(&field).Error; err != nil {
		return nil, translate(err, "Field '%s' not found", fieldID)
	}
	return &field, nil
}

func (s *GormStore) SaveField(ctx context.Context, field *models.FormField) error {
	db := s.DB.WithContext(ctx)
	var err error
	if field.CreatedAt.IsZero() {
		err = db.Create(field).Error
	} else {
		err = db.Save(field).Error
	}
	return translate(err, "Field label '%s' is already in use", field.Label)
}

func (s *GormStore) UpdateFieldOrder(ctx context.Context, fieldID string, from, to int) error {
	result := s.DB.WithContext(ctx).
		Model(&models.FormField{}).
		Where("id = ? AND sort_order = ?", fieldID, from).
		Update("sort_order", to)
	if result.Error != nil {
		return fmt.Errorf("update order of field %s: %w", fieldID, result.Error)
	}
	if result.RowsAffected == 0 {
		return types.NewOrderingConflict("Field '%s' changed position concurrently", fieldID)
	}
	return nil
}

func (s *GormStore) DeleteField(ctx context.Context, formID, fieldID string) error {
	result := s.DB.WithContext(ctx).
		Where("form_id = ? AND id = ?", formID, fieldID).
		Delete(&models.FormField{})
	if result.Error != nil {
		return fmt.Errorf("delete field: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return types.NewNotFound("Field '%s' not found", fieldID)
	}
	return nil
}

func (s *GormStore) LoadSubmissions(ctx context.Context, formID string, page Page) ([]models.Submission, int64, error) {
	var total int64
	if err := s.quiet(ctx).Model(&models.Submission{}).Where("form_id = ?", formID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	query := s.quiet(ctx).Where("form_id = ?", formID).Order("created_at DESC").Order("id")
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}

	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("load submissions: %w", err)
	}
	return submissions, total, nil
}

func (s *GormStore) SaveSubmission(ctx context.Context, record *models.Submission) error {
	return translate(s.DB.WithContext(ctx).Create(record).Error, "Submission '%s' already exists", record.ID)
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}
