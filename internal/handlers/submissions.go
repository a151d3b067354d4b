// submissions.go
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
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/fieldtype"
	"github.com/localnerve/jam-build-formsdb/internal/services"
)

// SubmissionHandler handles the public collector and the owner's
// submission listing
type SubmissionHandler struct {
	Submissions *services.SubmissionService
}

// SubmitResponse acknowledges a stored submission.
type SubmitResponse struct {
	OK      bool                   `json:"ok"`
	ID      string                 `json:"id"`
	Data    map[string]interface{} `json:"data"`
	Unknown []string               `json:"unknown,omitempty"`
}

// ListSubmissions handles GET /api/forms/:form/submissions
// @Summary List submissions
// @Description Page through a form's submissions, newest first
// @Tags Submissions
// @Produce json
// @Security CookieAuth
// @Param form path string true "Form ID"
// @Param limit query int false "Page size, capped by SUBMISSION_PAGE_LIMIT"
// @Param offset query int false "Records to skip"
// @Success 200 {object} services.SubmissionPage
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{form}/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *fiber.Ctx) error {
	page, err := h.Submissions.ListSubmissions(c.UserContext(), owner(c), param(c, "form"), parsePage(c))
	if err != nil {
		return respondError(c, err, "listSubmissions")
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

// GetPublicForm handles GET /api/public/:owner/:slug
// @Summary Get a published form
// @Description Resolve a public address to a published form and its fields
// @Tags Public
// @Produce json
// @Param owner path string true "Owner ID"
// @Param slug path string true "Form slug"
// @Success 200 {object} models.Form
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /public/{owner}/{slug} [get]
func (h *SubmissionHandler) GetPublicForm(c *fiber.Ctx) error {
	form, err := h.Submissions.PublicForm(c.UserContext(), param(c, "owner"), param(c, "slug"))
	if err != nil {
		return respondError(c, err, "getPublicForm")
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// Submit handles POST /api/public/:owner/:slug/submissions
// @Summary Submit a form
// @Description Validate values against the form's current fields and store the canonical record
// @Tags Public
// @Accept json
// @Produce json
// @Param owner path string true "Owner ID"
// @Param slug path string true "Form slug"
// @Param body body object true "Values keyed by field label"
// @Success 201 {object} SubmitResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /public/{owner}/{slug}/submissions [post]
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(c.Body(), &payload); err != nil || payload == nil {
		return badRequest(c, "Submission body must be a JSON object", "submit")
	}

	record, result, err := h.Submissions.Submit(c.UserContext(), param(c, "owner"), param(c, "slug"), payload)
	if err != nil {
		return respondError(c, err, "submit")
	}
	return c.Status(fiber.StatusCreated).JSON(SubmitResponse{
		OK:      true,
		ID:      record.ID,
		Data:    result.Data,
		Unknown: result.Unknown,
	})
}

// GetFieldTypes handles GET /api/field-types
// @Summary List field types
// @Description Describe every field type with its configuration keys
// @Tags Public
// @Produce json
// @Success 200 {array} fieldtype.Descriptor
// @Router /field-types [get]
func GetFieldTypes(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fieldtype.Descriptors())
}
