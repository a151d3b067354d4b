// fields.go
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
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/jam-build-formsdb/internal/fieldtype"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/ordering"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

const maxLabelLength = 255

// FieldInput defines a new field.
type FieldInput struct {
	Label       string          `json:"label"`
	Type        string          `json:"type"`
	Placeholder string          `json:"placeholder,omitempty"`
	Required    bool            `json:"required"`
	Options     []string        `json:"options,omitempty"`
	Config      json.RawMessage `json:"config,omitempty" swaggertype:"object"`
	Order       *types.FlexInt  `json:"order,omitempty" swaggertype:"integer"`
}

// FieldPatch changes the attributes that are present.
type FieldPatch struct {
	Label       *string         `json:"label,omitempty"`
	Type        *string         `json:"type,omitempty"`
	Placeholder *string         `json:"placeholder,omitempty"`
	Required    *bool           `json:"required,omitempty"`
	Options     *[]string       `json:"options,omitempty"`
	Config      json.RawMessage `json:"config,omitempty" swaggertype:"object"`
	Order       *types.FlexInt  `json:"order,omitempty" swaggertype:"integer"`
}

func cleanLabel(label string, siblings []models.FormField, selfID string) (string, error) {
	clean, err := exactText(label, "Field label")
	if err != nil {
		return "", err
	}
	if len([]rune(clean)) > maxLabelLength {
		return "", types.NewSchemaViolation("Field label must be at most %d characters", maxLabelLength)
	}
	if labelTaken(clean, siblings, selfID) {
		return "", types.NewSchemaViolation("Field label '%s' is already used in this form", clean)
	}
	return clean, nil
}

func labelTaken(label string, siblings []models.FormField, selfID string) bool {
	for _, f := range siblings {
		if f.ID != selfID && f.Label == label {
			return true
		}
	}
	return false
}

func parseKind(name string) (fieldtype.Kind, error) {
	kind, ok := fieldtype.ParseKind(name)
	if !ok {
		return "", types.NewSchemaViolation("Unknown field type '%s'", name)
	}
	return kind, nil
}

func cleanOptions(kind fieldtype.Kind, options []string) (models.JSON, error) {
	if !fieldtype.IsChoiceType(kind) {
		return models.JSON{}, nil
	}
	trimmed := make([]string, len(options))
	for i, opt := range options {
		trimmed[i] = strings.TrimSpace(opt)
	}
	if err := fieldtype.ValidateOptions(kind, trimmed); err != nil {
		return models.JSON{}, types.NewSchemaViolation("Invalid options: %v", err)
	}
	return models.NewJSON(trimmed)
}

// decodeConfig keeps only the keys kind understands and rejects malformed
// values of those keys.
func decodeConfig(kind fieldtype.Kind, raw []byte) (models.JSON, error) {
	cfg, err := fieldtype.DecodeConfig(kind, raw)
	if err != nil {
		return models.JSON{}, types.NewSchemaViolation("Invalid config: %v", err)
	}
	if err := fieldtype.ValidateConfig(kind, cfg); err != nil {
		return models.JSON{}, types.NewSchemaViolation("Invalid config for %s: %v", kind, err)
	}
	return models.NewJSON(cfg)
}

func entries(fields []models.FormField) []ordering.Entry {
	out := make([]ordering.Entry, len(fields))
	for i, f := range fields {
		out[i] = f.Entry()
	}
	return out
}

// buildField validates input against the current siblings and returns the
// new row, ordered after the current maximum unless an order was given.
func buildField(formID string, input FieldInput, siblings []models.FormField) (*models.FormField, error) {
	kind, err := parseKind(input.Type)
	if err != nil {
		return nil, err
	}
	label, err := cleanLabel(input.Label, siblings, "")
	if err != nil {
		return nil, err
	}
	options, err := cleanOptions(kind, input.Options)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeConfig(kind, input.Config)
	if err != nil {
		return nil, err
	}

	order := ordering.Append(entries(siblings))
	if input.Order != nil {
		order = input.Order.Int()
	}

	return &models.FormField{
		ID:          uuid.New().String(),
		FormID:      formID,
		Label:       label,
		Type:        string(kind),
		Placeholder: plainText(input.Placeholder),
		Required:    input.Required,
		Order:       order,
		Options:     options,
		Config:      cfg,
	}, nil
}

// AddField appends a field to the form.
func (s *FormService) AddField(ctx context.Context, ownerID, formID string, input FieldInput) (*models.FormField, error) {
	fields, err := s.AddFields(ctx, ownerID, formID, []FieldInput{input})
	if err != nil {
		return nil, err
	}
	return &fields[0], nil
}

// AddFields appends several fields in one transaction, in input order. Either
// all of them are added or none.
func (s *FormService) AddFields(ctx context.Context, ownerID, formID string, inputs []FieldInput) ([]models.FormField, error) {
	if len(inputs) == 0 {
		return nil, types.NewSchemaViolation("No field definitions given")
	}

	var created []models.FormField
	err := retryIdentity("add fields", func() error {
		created = created[:0]
		return s.Store.Transaction(ctx, func(tx store.Store) error {
			if _, err := s.lockedForm(ctx, tx, ownerID, formID); err != nil {
				return err
			}
			siblings, err := tx.LoadFields(ctx, formID)
			if err != nil {
				return err
			}
			for _, input := range inputs {
				field, err := buildField(formID, input, siblings)
				if err != nil {
					return err
				}
				if err := tx.SaveField(ctx, field); err != nil {
					return err
				}
				siblings = append(siblings, *field)
				created = append(created, *field)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListFields returns the form's fields in display order.
func (s *FormService) ListFields(ctx context.Context, ownerID, formID string) ([]models.FormField, error) {
	if _, err := s.ownedForm(ctx, s.Store, ownerID, formID); err != nil {
		return nil, err
	}
	return s.Store.LoadFields(ctx, formID)
}

// UpdateField applies patch to a field. Changing the type away from a choice
// kind clears the options, and the stored config is re-read under the new
// kind so keys the new kind does not know are dropped.
func (s *FormService) UpdateField(ctx context.Context, ownerID, formID, fieldID string, patch FieldPatch) (*models.FormField, error) {
	var field *models.FormField
	err := retryIdentity("update field", func() error {
		return s.Store.Transaction(ctx, func(tx store.Store) error {
			if _, err := s.lockedForm(ctx, tx, ownerID, formID); err != nil {
				return err
			}
			siblings, err := tx.LoadFields(ctx, formID)
			if err != nil {
				return err
			}
			if field, err = tx.LoadField(ctx, formID, fieldID); err != nil {
				return err
			}
			if err := applyPatch(field, patch, siblings); err != nil {
				return err
			}
			return tx.SaveField(ctx, field)
		})
	})
	if err != nil {
		return nil, err
	}
	return field, nil
}

func applyPatch(field *models.FormField, patch FieldPatch, siblings []models.FormField) error {
	if patch.Label != nil {
		label, err := cleanLabel(*patch.Label, siblings, field.ID)
		if err != nil {
			return err
		}
		field.Label = label
	}

	kind := field.Kind()
	kindChanged := false
	if patch.Type != nil {
		next, err := parseKind(*patch.Type)
		if err != nil {
			return err
		}
		kindChanged = next != kind
		kind = next
		field.Type = string(kind)
	}

	switch {
	case patch.Options != nil:
		options, err := cleanOptions(kind, *patch.Options)
		if err != nil {
			return err
		}
		field.Options = options
	case kindChanged && !fieldtype.IsChoiceType(kind):
		field.Options = models.JSON{}
	case kindChanged:
		if _, err := cleanOptions(kind, field.OptionList()); err != nil {
			return err
		}
	}

	switch {
	case patch.Config != nil:
		cfg, err := decodeConfig(kind, patch.Config)
		if err != nil {
			return err
		}
		field.Config = cfg
	case kindChanged:
		cfg, err := decodeConfig(kind, field.Config.Bytes())
		if err != nil {
			// the old values do not fit the new kind at all
			if cfg, err = decodeConfig(kind, nil); err != nil {
				return err
			}
		}
		field.Config = cfg
	}

	if patch.Placeholder != nil {
		field.Placeholder = plainText(*patch.Placeholder)
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Order != nil {
		field.Order = patch.Order.Int()
	}
	return nil
}

// RemoveField deletes a field. The orders of the remaining fields are kept,
// gaps included.
func (s *FormService) RemoveField(ctx context.Context, ownerID, formID, fieldID string) error {
	if _, err := s.ownedForm(ctx, s.Store, ownerID, formID); err != nil {
		return err
	}
	return s.Store.DeleteField(ctx, formID, fieldID)
}
