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

package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/ordering"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/types"
	"github.com/localnerve/jam-build-formsdb/internal/utils"
)

const maxMoveSteps = 100

// FieldHandler handles the field routes of a form
type FieldHandler struct {
	Forms *services.FormService
}

// MoveInput is the body of a move request. Steps repeats the move, one
// neighbor swap at a time.
type MoveInput struct {
	Direction string         `json:"direction"`
	Steps     *types.FlexInt `json:"steps,omitempty" swaggertype:"integer"`
}

// ListFields handles GET /api/forms/:form/fields
// @Summary List fields
// @Description List the fields of a form in display order
// @Tags Fields
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Success 200 {array} models.FormField
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/fields [get]
func (h *FieldHandler) ListFields(c *fiber.Ctx) error {
	fields, err := h.Forms.ListFields(c.UserContext(), owner(c), param(c, "form"))
	if err != nil {
		return respondError(c, err, "listFields")
	}
	if fields == nil {
		fields = []models.FormField{}
	}
	return c.Status(fiber.StatusOK).JSON(fields)
}

// AddFields handles POST /api/forms/:form/fields
// @Summary Add fields
// @Description Append one field definition, or an array of them in one transaction
// @Tags Fields
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Param body body services.FieldInput true "Field definition or array of definitions"
// @Success 201 {object} models.FormField
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/fields [post]
func (h *FieldHandler) AddFields(c *fiber.Ctx) error {
	body := bytes.TrimSpace(c.Body())
	var inputs types.FlexList[services.FieldInput]
	if err := json.Unmarshal(body, &inputs); err != nil {
		return badRequest(c, "Invalid request body", "addFields")
	}

	fields, err := h.Forms.AddFields(c.UserContext(), owner(c), param(c, "form"), inputs.Slice())
	if err != nil {
		return respondError(c, err, "addFields")
	}

	if len(body) > 0 && body[0] == '[' {
		return c.Status(fiber.StatusCreated).JSON(fields)
	}
	return c.Status(fiber.StatusCreated).JSON(fields[0])
}

// UpdateField handles PATCH /api/forms/:form/fields/:field
// @Summary Update a field
// @Description Change any of label, type, placeholder, required, options, config or order
// @Tags Fields
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Param field path string true "Field ID"
// @Param body body services.FieldPatch true "Attributes to change"
// @Success 200 {object} models.FormField
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/fields/{field} [patch]
func (h *FieldHandler) UpdateField(c *fiber.Ctx) error {
	var patch services.FieldPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return badRequest(c, "Invalid request body", "updateField")
	}

	field, err := h.Forms.UpdateField(c.UserContext(), owner(c), param(c, "form"), param(c, "field"), patch)
	if err != nil {
		return respondError(c, err, "updateField")
	}
	return c.Status(fiber.StatusOK).JSON(field)
}

// RemoveField handles DELETE /api/forms/:form/fields/:field
// @Summary Remove a field
// @Description Delete a field. Remaining fields keep their order values.
// @Tags Fields
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Param field path string true "Field ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/fields/{field} [delete]
func (h *FieldHandler) RemoveField(c *fiber.Ctx) error {
	if err := h.Forms.RemoveField(c.UserContext(), owner(c), param(c, "form"), param(c, "field")); err != nil {
		return respondError(c, err, "removeField")
	}
	return utils.MutationSuccessResponse(c, 1)
}

// MoveField handles POST /api/forms/:form/fields/:field/move
// @Summary Move a field
// @Description Swap a field with its neighbor above or below. Moving past either end is a no-op.
// @Tags Fields
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Param field path string true "Field ID"
// @Param body body MoveInput true "Direction and optional step count"
// @Success 200 {array} models.FormField
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/fields/{field}/move [post]
func (h *FieldHandler) MoveField(c *fiber.Ctx) error {
	var input MoveInput
	if err := json.Unmarshal(c.Body(), &input); err != nil {
		return badRequest(c, "Invalid request body", "moveField")
	}
	direction, err := ordering.ParseDirection(input.Direction)
	if err != nil {
		return badRequest(c, err.Error(), "moveField")
	}

	steps := 1
	if input.Steps != nil {
		steps = input.Steps.Int()
	}
	if steps < 1 || steps > maxMoveSteps {
		return badRequest(c, "steps must be between 1 and 100", "moveField")
	}

	var fields []models.FormField
	for i := 0; i < steps; i++ {
		var swapped bool
		fields, swapped, err = h.Forms.MoveField(c.UserContext(), owner(c), param(c, "form"), param(c, "field"), direction)
		if err != nil {
			return respondError(c, err, "moveField")
		}
		// at an edge, the remaining steps cannot move it further
		if !swapped {
			break
		}
	}
	return c.Status(fiber.StatusOK).JSON(fields)
}

// DuplicateField handles POST /api/forms/:form/fields/:field/duplicate
// @Summary Duplicate a field
// @Description Clone a field under a "(Copy)" label, placed after the last field
// @Tags Fields
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Param field path string true "Field ID"
// @Success 201 {object} models.FormField
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/fields/{field}/duplicate [post]
func (h *FieldHandler) DuplicateField(c *fiber.Ctx) error {
	field, err := h.Forms.DuplicateField(c.UserContext(), owner(c), param(c, "form"), param(c, "field"))
	if err != nil {
		return respondError(c, err, "duplicateField")
	}
	return c.Status(fiber.StatusCreated).JSON(field)
}
