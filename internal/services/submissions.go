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

package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/localnerve/jam-build-formsdb/internal/metrics"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/submission"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

// SubmissionService is the public collector and the owner's view of
// collected records.
type SubmissionService struct {
	Store     store.Store
	KeyByID   bool
	PageLimit int
}

// NewSubmissionService creates a SubmissionService over st.
func NewSubmissionService(st store.Store, keyByID bool, pageLimit int) *SubmissionService {
	return &SubmissionService{Store: st, KeyByID: keyByID, PageLimit: pageLimit}
}

// SubmissionPage is one window of a form's submissions.
type SubmissionPage struct {
	Submissions []models.Submission `json:"submissions"`
	Total       int64               `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}

// PublicForm resolves a public address to a published form and its fields.
// Unpublished forms are not found.
func (s *SubmissionService) PublicForm(ctx context.Context, ownerID, slug string) (*models.Form, error) {
	form, err := s.Store.FindFormBySlug(ctx, ownerID, slug)
	if err != nil {
		return nil, err
	}
	if !form.Published {
		return nil, types.NewNotFound("Form '%s' not found", slug)
	}
	if form.Fields, err = s.Store.LoadFields(ctx, form.ID); err != nil {
		return nil, err
	}
	return form, nil
}

// Submit validates payload against the form's current fields and stores the
// canonical record. Unpublished forms reject with FormClosed.
func (s *SubmissionService) Submit(ctx context.Context, ownerID, slug string, payload map[string]interface{}) (*models.Submission, submission.Result, error) {
	form, err := s.Store.FindFormBySlug(ctx, ownerID, slug)
	if err != nil {
		return nil, submission.Result{}, err
	}
	if !form.Published {
		metrics.Submissions.WithLabelValues(metrics.OutcomeClosed).Inc()
		return nil, submission.Result{}, types.NewFormClosed(slug)
	}

	fields, err := s.Store.LoadFields(ctx, form.ID)
	if err != nil {
		return nil, submission.Result{}, err
	}

	var opts []submission.Option
	if s.KeyByID {
		opts = append(opts, submission.KeyByID())
	}
	result, err := submission.ValidateAndEncode(models.Snapshots(fields), payload, opts...)
	if err != nil {
		metrics.Submissions.WithLabelValues(metrics.OutcomeRejected).Inc()
		if ce, ok := types.AsCustomError(err); ok {
			metrics.FieldIssues.Add(float64(len(ce.Issues)))
		}
		return nil, submission.Result{}, err
	}

	data, err := models.NewJSON(result.Data)
	if err != nil {
		return nil, submission.Result{}, err
	}
	record := &models.Submission{
		ID:     uuid.New().String(),
		FormID: form.ID,
		Data:   data,
	}
	if err := s.Store.SaveSubmission(ctx, record); err != nil {
		return nil, submission.Result{}, err
	}

	metrics.Submissions.WithLabelValues(metrics.OutcomeAccepted).Inc()
	metrics.UnknownKeys.Add(float64(len(result.Unknown)))
	return record, result, nil
}

// ListSubmissions returns a page of the owner's submissions for a form,
// newest first. The limit is capped at PageLimit.
func (s *SubmissionService) ListSubmissions(ctx context.Context, ownerID, formID string, page store.Page) (*SubmissionPage, error) {
	form, err := s.Store.LoadForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.OwnerID != ownerID {
		return nil, types.NewNotFound("Form '%s' not found", formID)
	}

	if page.Limit <= 0 || (s.PageLimit > 0 && page.Limit > s.PageLimit) {
		page.Limit = s.PageLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}

	records, total, err := s.Store.LoadSubmissions(ctx, formID, page)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Submission{}
	}
	return &SubmissionPage{Submissions: records, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
