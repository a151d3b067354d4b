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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/utils"
)

// FormHandler handles the owner's form routes
type FormHandler struct {
	Forms *services.FormService
}

// SlugInput is the body of a slug rename.
type SlugInput struct {
	Slug string `json:"slug"`
}

// ListForms handles GET /api/forms
// @Summary List forms
// @Description List the authenticated owner's forms, newest first
// @Tags Forms
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.Form
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /forms [get]
func (h *FormHandler) ListForms(c *fiber.Ctx) error {
	forms, err := h.Forms.ListForms(c.UserContext(), owner(c))
	if err != nil {
		return respondError(c, err, "listForms")
	}
	if forms == nil {
		forms = []models.Form{}
	}
	return c.Status(fiber.StatusOK).JSON(forms)
}

// CreateForm handles POST /api/forms
// @Summary Create a form
// @Description Create an unpublished form. The slug is derived from the title and suffixed when the owner already uses it.
// @Tags Forms
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param body body services.FormInput true "Form title and description"
// @Success 201 {object} models.Form
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /forms [post]
func (h *FormHandler) CreateForm(c *fiber.Ctx) error {
	var input services.FormInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body", "createForm")
	}

	form, err := h.Forms.CreateForm(c.UserContext(), owner(c), input)
	if err != nil {
		return respondError(c, err, "createForm")
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// GetForm handles GET /api/forms/:form
// @Summary Get a form
// @Description Get a form with its fields in display order
// @Tags Forms
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Success 200 {object} models.Form
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form} [get]
func (h *FormHandler) GetForm(c *fiber.Ctx) error {
	form, err := h.Forms.GetForm(c.UserContext(), owner(c), param(c, "form"))
	if err != nil {
		return respondError(c, err, "getForm")
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// UpdateForm handles PATCH /api/forms/:form
// @Summary Update a form
// @Description Change title or description. The slug is never recomputed.
// @Tags Forms
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Param body body services.FormPatch true "Attributes to change"
// @Success 200 {object} models.Form
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form} [patch]
func (h *FormHandler) UpdateForm(c *fiber.Ctx) error {
	var patch services.FormPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body", "updateForm")
	}

	form, err := h.Forms.UpdateForm(c.UserContext(), owner(c), param(c, "form"), patch)
	if err != nil {
		return respondError(c, err, "updateForm")
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// RenameSlug handles PUT /api/forms/:form/slug
// @Summary Rename a form's slug
// @Description Move the form to a new public address
// @Tags Forms
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Param body body SlugInput true "Requested slug"
// @Success 200 {object} models.Form
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/slug [put]
func (h *FormHandler) RenameSlug(c *fiber.Ctx) error {
	var input SlugInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body", "renameSlug")
	}

	form, err := h.Forms.RenameSlug(c.UserContext(), owner(c), param(c, "form"), input.Slug)
	if err != nil {
		return respondError(c, err, "renameSlug")
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// TogglePublish handles POST /api/forms/:form/publish
// @Summary Toggle publication
// @Description Flip the published flag. Only published forms accept submissions.
// @Tags Forms
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Success 200 {object} models.Form
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/publish [post]
func (h *FormHandler) TogglePublish(c *fiber.Ctx) error {
	form, err := h.Forms.TogglePublish(c.UserContext(), owner(c), param(c, "form"))
	if err != nil {
		return respondError(c, err, "togglePublish")
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// DeleteForm handles DELETE /api/forms/:form
// @Summary Delete a form
// @Description Delete a form with its fields and submissions
// @Tags Forms
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form} [delete]
func (h *FormHandler) DeleteForm(c *fiber.Ctx) error {
	if err := h.Forms.DeleteForm(c.UserContext(), owner(c), param(c, "form")); err != nil {
		return respondError(c, err, "deleteForm")
	}
	return utils.MutationSuccessResponse(c, 1)
}
