package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

func TestSubmitClosedForm(t *testing.T) {
	svc, st := setupTestService(t)
	collector := NewSubmissionService(st, false, 100)
	form := mustForm(t, svc, "Contact")
	mustField(t, svc, form.ID, FieldInput{Label: "Name", Type: "TEXT", Required: true})

	_, _, err := collector.Submit(context.Background(), owner, form.Slug, map[string]interface{}{"Name": "Ada"})
	if !types.IsKind(err, types.KindFormClosed) {
		t.Errorf("Expected form closed, got %v", err)
	}

	_, err = collector.PublicForm(context.Background(), owner, form.Slug)
	if !types.IsKind(err, types.KindNotFound) {
		t.Errorf("Expected an unpublished form to be hidden, got %v", err)
	}
}

func TestSubmitValidatesAndStores(t *testing.T) {
	svc, st := setupTestService(t)
	ctx := context.Background()
	collector := NewSubmissionService(st, false, 100)
	form := mustForm(t, svc, "Contact")
	mustField(t, svc, form.ID, FieldInput{Label: "Name", Type: "TEXT", Required: true})
	mustField(t, svc, form.ID, FieldInput{Label: "Interests", Type: "CHECKBOX", Options: []string{"A", "B"}})
	mustField(t, svc, form.ID, FieldInput{Label: "Stars", Type: "RATING"})
	if _, err := svc.TogglePublish(ctx, owner, form.ID); err != nil {
		t.Fatal(err)
	}

	_, _, err := collector.Submit(ctx, owner, form.Slug, map[string]interface{}{
		"Interests": []interface{}{"A", "C"},
	})
	ce, ok := types.AsCustomError(err)
	if !ok || ce.Kind != types.KindValidationFailure {
		t.Fatalf("Expected validation failure, got %v", err)
	}
	var failed []string
	for _, issue := range ce.Issues {
		failed = append(failed, issue.Label)
	}
	if diff := cmp.Diff([]string{"Name", "Interests"}, failed); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}

	record, result, err := collector.Submit(ctx, owner, form.Slug, map[string]interface{}{
		"Name":      "Ada",
		"Interests": []interface{}{"B"},
		"Stars":     "4",
		"extra":     true,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if diff := cmp.Diff([]string{"extra"}, result.Unknown); diff != "" {
		t.Errorf("unknown keys mismatch (-want +got):\n%s", diff)
	}

	var stored map[string]interface{}
	if err := json.Unmarshal(record.Data.Bytes(), &stored); err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"Name":      "Ada",
		"Interests": []interface{}{"B"},
		"Stars":     float64(4),
		"extra":     true,
	}
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Errorf("stored data mismatch (-want +got):\n%s", diff)
	}

	page, err := collector.ListSubmissions(ctx, owner, form.ID, store.Page{Limit: 500})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Limit != 100 {
		t.Errorf("Expected total 1 and capped limit 100, got %d and %d", page.Total, page.Limit)
	}
}

func TestSubmitKeyByID(t *testing.T) {
	svc, st := setupTestService(t)
	ctx := context.Background()
	collector := NewSubmissionService(st, true, 100)
	form := mustForm(t, svc, "Contact")
	field := mustField(t, svc, form.ID, FieldInput{Label: "Name", Type: "TEXT", Required: true})
	if _, err := svc.TogglePublish(ctx, owner, form.ID); err != nil {
		t.Fatal(err)
	}

	_, result, err := collector.Submit(ctx, owner, form.Slug, map[string]interface{}{field.ID: "Ada"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Data[field.ID] != "Ada" {
		t.Errorf("Expected value keyed by field id, got %v", result.Data)
	}
}

func TestListSubmissionsOwnerScoped(t *testing.T) {
	svc, st := setupTestService(t)
	collector := NewSubmissionService(st, false, 100)
	form := mustForm(t, svc, "Contact")

	_, err := collector.ListSubmissions(context.Background(), "someone-else", form.ID, store.Page{})
	if !types.IsKind(err, types.KindNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}
