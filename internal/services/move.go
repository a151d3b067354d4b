// move.go
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
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/localnerve/jam-build-formsdb/internal/metrics"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/ordering"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// moveAttempts is the first try plus one retry with fresh data.
const moveAttempts = 2

// MoveField swaps the order of a field with its neighbor in direction d and
// returns the form's fields in their new display order. Moving the first
// field up or the last field down changes nothing and reports false.
func (s *FormService) MoveField(ctx context.Context, ownerID, formID, fieldID string, d ordering.Direction) ([]models.FormField, bool, error) {
	var (
		fields  []models.FormField
		swapped bool
		err     error
	)
	for attempt := 1; attempt <= moveAttempts; attempt++ {
		fields, swapped, err = s.moveOnce(ctx, ownerID, formID, fieldID, d)
		if err == nil {
			if swapped {
				metrics.FieldMoves.WithLabelValues(metrics.MoveSwapped).Inc()
			} else {
				metrics.FieldMoves.WithLabelValues(metrics.MoveNoop).Inc()
			}
			return fields, swapped, nil
		}
		if !types.IsKind(err, types.KindOrderingConflict) {
			return nil, false, err
		}
		metrics.FieldMoves.WithLabelValues(metrics.MoveConflict).Inc()
		log.Printf("Move of field %s %s conflicted on attempt %d: %v", fieldID, d, attempt, err)
	}
	return nil, false, err
}

func (s *FormService) moveOnce(ctx context.Context, ownerID, formID, fieldID string, d ordering.Direction) ([]models.FormField, bool, error) {
	var (
		result  []models.FormField
		swapped bool
	)
	err := s.Store.Transaction(ctx, func(tx store.Store) error {
		if _, err := s.lockedForm(ctx, tx, ownerID, formID); err != nil {
			return err
		}
		fields, err := tx.LoadFields(ctx, formID)
		if err != nil {
			return err
		}
		current := entries(fields)

		swap, ok, err := ordering.Plan(current, fieldID, d)
		if errors.Is(err, ordering.ErrUnknownEntry) {
			return types.NewNotFound("Field '%s' not found", fieldID)
		}
		if err != nil {
			return types.NewSchemaViolation("%v", err)
		}
		if !ok {
			result = fields
			return nil
		}

		if swap.Colliding() {
			if current, err = resequence(ctx, tx, current); err != nil {
				return err
			}
			if swap, _, err = ordering.Plan(current, fieldID, d); err != nil {
				return err
			}
		}

		if err := tx.UpdateFieldOrder(ctx, swap.Moved.ID, swap.Moved.Order, swap.Neighbor.Order); err != nil {
			return err
		}
		if err := tx.UpdateFieldOrder(ctx, swap.Neighbor.ID, swap.Neighbor.Order, swap.Moved.Order); err != nil {
			return err
		}
		if err := verifySwap(ctx, tx, formID, swap); err != nil {
			return err
		}

		swapped = true
		result, err = tx.LoadFields(ctx, formID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return result, swapped, nil
}

// resequence repairs colliding orders with conditional writes and returns
// the entries carrying their new orders.
func resequence(ctx context.Context, tx store.Store, current []ordering.Entry) ([]ordering.Entry, error) {
	changed := ordering.Resequence(current)
	next := make(map[string]int, len(changed))
	for _, e := range changed {
		next[e.ID] = e.Order
	}

	out := make([]ordering.Entry, len(current))
	for i, e := range current {
		out[i] = e
		order, ok := next[e.ID]
		if !ok {
			continue
		}
		if err := tx.UpdateFieldOrder(ctx, e.ID, e.Order, order); err != nil {
			return nil, err
		}
		out[i].Order = order
	}
	log.Printf("Resequenced %d colliding field orders", len(changed))
	return out, nil
}

// verifySwap re-reads both records and reports a torn write as an
// OrderingConflict, which rolls the transaction back.
func verifySwap(ctx context.Context, tx store.Store, formID string, swap ordering.Swap) error {
	moved, err := tx.LoadField(ctx, formID, swap.Moved.ID)
	if err != nil {
		return err
	}
	neighbor, err := tx.LoadField(ctx, formID, swap.Neighbor.ID)
	if err != nil {
		return err
	}
	if moved.Order != swap.Neighbor.Order || neighbor.Order != swap.Moved.Order {
		return types.NewOrderingConflict("Field '%s' did not reach order %d", swap.Moved.ID, swap.Neighbor.Order)
	}
	return nil
}

// copyLabel returns "<label> (Copy)", then "<label> (Copy 2)" and so on,
// whichever is free first.
func copyLabel(label string, siblings []models.FormField) string {
	candidate := label + " (Copy)"
	for n := 2; labelTaken(candidate, siblings, ""); n++ {
		candidate = fmt.Sprintf("%s (Copy %d)", label, n)
	}
	return candidate
}

// DuplicateField clones a field under a free label and places the clone
// after the current last field.
func (s *FormService) DuplicateField(ctx context.Context, ownerID, formID, fieldID string) (*models.FormField, error) {
	var clone *models.FormField
	err := retryIdentity("duplicate field", func() error {
		return s.Store.Transaction(ctx, func(tx store.Store) error {
			if _, err := s.lockedForm(ctx, tx, ownerID, formID); err != nil {
				return err
			}
			siblings, err := tx.LoadFields(ctx, formID)
			if err != nil {
				return err
			}
			source, err := tx.LoadField(ctx, formID, fieldID)
			if err != nil {
				return err
			}

			clone = &models.FormField{
				ID:          uuid.New().String(),
				FormID:      formID,
				Label:       copyLabel(source.Label, siblings),
				Type:        source.Type,
				Placeholder: source.Placeholder,
				Required:    source.Required,
				Order:       ordering.Append(entries(siblings)),
				Options:     source.Options,
				Config:      source.Config,
			}
			return tx.SaveField(ctx, clone)
		})
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}
