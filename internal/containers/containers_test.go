package containers

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/localnerve/jam-build-formsdb/internal/database"
	"github.com/localnerve/jam-build-formsdb/internal/models"
	"github.com/localnerve/jam-build-formsdb/internal/ordering"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"github.com/localnerve/jam-build-formsdb/internal/store"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

const owner = "integration-owner"

// startStack runs the database named by DB_IMAGE. Skipped in -short mode or
// when no image is configured.
func startStack(t *testing.T) *Stack {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	opts := OptionsFromEnv()
	opts.AuthzImage = ""
	if opts.DBImage == "" {
		t.Skip("DB_IMAGE not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	stack, err := Start(ctx, opts, t.Logf)
	if err != nil {
		t.Fatalf("Failed to start containers: %v", err)
	}
	t.Cleanup(func() { stack.Terminate(t.Logf) })
	return stack
}

func TestFormLifecycleOnServer(t *testing.T) {
	stack := startStack(t)
	ctx := context.Background()

	appDB, err := database.Connect(stack.Config)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer database.Close(appDB)
	publicDB, err := database.ConnectPublic(stack.Config)
	if err != nil {
		t.Fatalf("ConnectPublic: %v", err)
	}
	defer database.Close(publicDB)

	forms := services.NewFormService(store.NewGormStore(appDB))
	collector := services.NewSubmissionService(store.NewGormStore(publicDB), false, stack.Config.SubmissionPageLimit)

	form, err := forms.CreateForm(ctx, owner, services.FormInput{Title: "Café Feedback"})
	if err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	if form.Slug != "cafe-feedback" {
		t.Errorf("Expected slug cafe-feedback, got %s", form.Slug)
	}
	again, err := forms.CreateForm(ctx, owner, services.FormInput{Title: "Cafe feedback"})
	if err != nil {
		t.Fatalf("CreateForm: %v", err)
	}
	if again.Slug != "cafe-feedback-2" {
		t.Errorf("Expected slug cafe-feedback-2, got %s", again.Slug)
	}

	if _, err := forms.AddFields(ctx, owner, form.ID, []services.FieldInput{
		{Label: "Name", Type: "TEXT", Required: true},
		{Label: "Visit", Type: "DATE"},
		{Label: "Drinks", Type: "CHECKBOX", Options: []string{"Tea", "Coffee"}},
	}); err != nil {
		t.Fatalf("AddFields: %v", err)
	}

	fields, err := forms.ListFields(ctx, owner, form.ID)
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	if _, _, err := forms.MoveField(ctx, owner, form.ID, fields[2].ID, ordering.Up); err != nil {
		t.Fatalf("MoveField: %v", err)
	}
	fields, err = forms.ListFields(ctx, owner, form.ID)
	if err != nil {
		t.Fatalf("ListFields: %v", err)
	}
	var got []string
	for _, f := range fields {
		got = append(got, f.Label)
	}
	if diff := cmp.Diff([]string{"Name", "Drinks", "Visit"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	if _, err := forms.TogglePublish(ctx, owner, form.ID); err != nil {
		t.Fatalf("TogglePublish: %v", err)
	}
	record, _, err := collector.Submit(ctx, owner, form.Slug, map[string]interface{}{
		"Name":   "Ada",
		"Visit":  "2024-03-01",
		"Drinks": []interface{}{"Coffee"},
	})
	if err != nil {
		t.Fatalf("Submit through the public pool: %v", err)
	}

	page, err := collector.ListSubmissions(ctx, owner, form.ID, store.Page{Limit: 10})
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if page.Total != 1 || page.Submissions[0].ID != record.ID {
		t.Errorf("Expected the stored submission, got %+v", page)
	}
}

func TestUniqueViolationIsIdentityCollision(t *testing.T) {
	stack := startStack(t)
	ctx := context.Background()

	appDB, err := database.Connect(stack.Config)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer database.Close(appDB)
	st := store.NewGormStore(appDB)

	form := &models.Form{ID: uuid.New().String(), OwnerID: owner, Title: "Dup", Slug: "dup"}
	if err := st.SaveForm(ctx, form); err != nil {
		t.Fatalf("SaveForm: %v", err)
	}
	clash := &models.Form{ID: uuid.New().String(), OwnerID: owner, Title: "Dup", Slug: "dup"}
	if err := st.SaveForm(ctx, clash); !types.IsKind(err, types.KindIdentityCollision) {
		t.Errorf("Expected identity collision on slug, got %v", err)
	}

	first := &models.FormField{ID: uuid.New().String(), FormID: form.ID, Label: "Email", Type: "EMAIL", Order: 1}
	if err := st.SaveField(ctx, first); err != nil {
		t.Fatalf("SaveField: %v", err)
	}
	second := &models.FormField{ID: uuid.New().String(), FormID: form.ID, Label: "Email", Type: "TEXT", Order: 2}
	err = st.SaveField(ctx, second)
	if !types.IsKind(err, types.KindIdentityCollision) {
		t.Errorf("Expected identity collision on label, got %v", err)
	}
	if !database.IsUniqueViolation(err) {
		t.Errorf("Expected the driver error to remain in the chain, got %v", err)
	}
}
