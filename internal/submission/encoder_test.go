package submission

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/localnerve/jam-build-formsdb/internal/fieldtype"
	"github.com/localnerve/jam-build-formsdb/internal/types"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func issuesOf(t *testing.T, err error) []types.FieldIssue {
	t.Helper()
	ce, ok := types.AsCustomError(err)
	if !ok || ce.Kind != types.KindValidationFailure {
		t.Fatalf("expected validation failure, got %v", err)
	}
	return ce.Issues
}

func labelsOf(issues []types.FieldIssue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Label
	}
	return out
}

func TestRequiredTextMissing(t *testing.T) {
	fields := []Field{{ID: "f1", Label: "Name", Kind: fieldtype.Text, Required: true}}

	_, err := ValidateAndEncode(fields, map[string]interface{}{})
	issues := issuesOf(t, err)
	if diff := cmp.Diff([]types.FieldIssue{{Label: "Name", Reason: "is required"}}, issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredCompleteness(t *testing.T) {
	fields := []Field{
		{ID: "1", Label: "Name", Kind: fieldtype.Text, Required: true},
		{ID: "2", Label: "Interests", Kind: fieldtype.Checkbox, Required: true, Options: []string{"A", "B"}},
		{ID: "3", Label: "Age", Kind: fieldtype.Number, Required: true},
		{ID: "4", Label: "Notes", Kind: fieldtype.LongText},
	}
	payloads := []map[string]interface{}{
		{},
		{"Name": "   ", "Interests": []interface{}{}, "Age": nil},
		{"Name": "", "Interests": []string{}},
	}
	for _, payload := range payloads {
		_, err := ValidateAndEncode(fields, payload)
		if diff := cmp.Diff([]string{"Name", "Interests", "Age"}, labelsOf(issuesOf(t, err))); diff != "" {
			t.Errorf("payload %v: labels mismatch (-want +got):\n%s", payload, diff)
		}
	}
}

func TestCheckboxUnknownOption(t *testing.T) {
	fields := []Field{{ID: "f1", Label: "Interests", Kind: fieldtype.Checkbox, Options: []string{"A", "B"}}}

	_, err := ValidateAndEncode(fields, map[string]interface{}{"Interests": []interface{}{"A", "C"}})
	issues := issuesOf(t, err)
	if len(issues) != 1 || issues[0].Label != "Interests" || issues[0].Reason != `"C" is not one of the listed options` {
		t.Errorf("unexpected issues %+v", issues)
	}
}

func TestChoiceContainment(t *testing.T) {
	fields := []Field{
		{ID: "1", Label: "Color", Kind: fieldtype.Dropdown, Options: []string{"Red", "Blue"}},
		{ID: "2", Label: "Size", Kind: fieldtype.Radio, Options: []string{"S", "M"}},
		{ID: "3", Label: "Toppings", Kind: fieldtype.Checkbox, Options: []string{"Cheese", "Ham"}},
	}

	bad := []map[string]interface{}{
		{"Color": "red"},
		{"Size": "L"},
		{"Toppings": "Cheese"},
		{"Toppings": []interface{}{"Cheese", "Cheese"}},
		{"Toppings": []interface{}{"Cheese", 3}},
		{"Color": 1},
	}
	for _, payload := range bad {
		if _, err := ValidateAndEncode(fields, payload); err == nil {
			t.Errorf("payload %v: expected rejection", payload)
		}
	}

	got, err := ValidateAndEncode(fields, map[string]interface{}{
		"Color":    "Blue",
		"Size":     "S",
		"Toppings": []interface{}{"Ham", "Cheese"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]interface{}{"Color": "Blue", "Size": "S", "Toppings": []string{"Ham", "Cheese"}}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestNumericKinds(t *testing.T) {
	fields := []Field{
		{ID: "1", Label: "Qty", Kind: fieldtype.Number, Config: fieldtype.NumberConfig{Min: floatp(1), Max: floatp(10), Step: floatp(0.5)}},
		{ID: "2", Label: "Volume", Kind: fieldtype.Slider, Config: fieldtype.SliderConfig{}},
		{ID: "3", Label: "Stars", Kind: fieldtype.Rating, Config: fieldtype.RatingConfig{MaxStars: intp(3)}},
		{ID: "4", Label: "Agree", Kind: fieldtype.Scale, Config: fieldtype.ScaleConfig{Labels: []string{"No", "Meh", "Yes"}}},
	}

	got, err := ValidateAndEncode(fields, map[string]interface{}{
		"Qty":    "2.5",
		"Volume": json.Number("40"),
		"Stars":  3.0,
		"Agree":  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]interface{}{"Qty": 2.5, "Volume": 40.0, "Stars": 3.0, "Agree": 2.0}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	_, err = ValidateAndEncode(fields, map[string]interface{}{
		"Qty":    11,
		"Volume": 100.5,
		"Stars":  4,
		"Agree":  "two",
	})
	issues := issuesOf(t, err)
	want2 := []types.FieldIssue{
		{Label: "Qty", Reason: "must be at most 10"},
		{Label: "Volume", Reason: "must be at most 100"},
		{Label: "Stars", Reason: "must be between 1 and 3"},
		{Label: "Agree", Reason: "must be a whole number"},
	}
	if diff := cmp.Diff(want2, issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}

	_, err = ValidateAndEncode(fields, map[string]interface{}{"Qty": 1.25})
	if diff := cmp.Diff([]types.FieldIssue{{Label: "Qty", Reason: "must be a multiple of 0.5"}}, issuesOf(t, err)); diff != "" {
		t.Errorf("step mismatch (-want +got):\n%s", diff)
	}
}

func TestTemporalKinds(t *testing.T) {
	fields := []Field{
		{ID: "1", Label: "Day", Kind: fieldtype.Date, Config: fieldtype.TemporalConfig{Min: "2026-01-01", Max: "2026-12-31"}},
		{ID: "2", Label: "At", Kind: fieldtype.Time},
		{ID: "3", Label: "When", Kind: fieldtype.DateTime},
	}

	got, err := ValidateAndEncode(fields, map[string]interface{}{
		"Day":  "2026-06-01",
		"At":   "09:15",
		"When": "2026-06-01T09:15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]interface{}{"Day": "2026-06-01", "At": "09:15:00", "When": "2026-06-01T09:15:00Z"}
	if diff := cmp.Diff(want, got.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	_, err = ValidateAndEncode(fields, map[string]interface{}{"Day": "2025-12-31", "At": "25:00", "When": 5})
	if diff := cmp.Diff([]string{"Day", "At", "When"}, labelsOf(issuesOf(t, err))); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestStringKinds(t *testing.T) {
	fields := []Field{
		{ID: "1", Label: "Email", Kind: fieldtype.Email},
		{ID: "2", Label: "Site", Kind: fieldtype.URL, Config: fieldtype.URLConfig{RequireHTTPS: true, ValidationMessage: "Use a secure link"}},
		{ID: "3", Label: "Phone", Kind: fieldtype.Phone},
		{ID: "4", Label: "Nick", Kind: fieldtype.Text, Config: fieldtype.TextConfig{MinLength: intp(2), MaxLength: intp(4)}},
		{ID: "5", Label: "Bio", Kind: fieldtype.LongText, Config: fieldtype.LongTextConfig{MaxChars: intp(5)}},
		{ID: "6", Label: "CV", Kind: fieldtype.File, Config: fieldtype.FileConfig{Accept: ".pdf,image/*"}},
	}

	valid := map[string]interface{}{
		"Email": "ada@example.com",
		"Site":  "https://example.com/a",
		"Phone": "+1 (555) 010-9999",
		"Nick":  "Ada",
		"Bio":   "héllo",
		"CV":    "resume.PDF",
	}
	got, err := ValidateAndEncode(fields, valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(valid, got.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	if _, err := ValidateAndEncode(fields, map[string]interface{}{"CV": "photo.png"}); err != nil {
		t.Errorf("image/* should accept png: %v", err)
	}

	_, err = ValidateAndEncode(fields, map[string]interface{}{
		"Email": "Ada <ada@example.com>",
		"Site":  "http://example.com",
		"Phone": "555-12",
		"Nick":  "A",
		"Bio":   "too long",
		"CV":    "notes.txt",
	})
	want := []types.FieldIssue{
		{Label: "Email", Reason: "must be a valid email address"},
		{Label: "Site", Reason: "Use a secure link"},
		{Label: "Phone", Reason: "must contain between 7 and 15 digits"},
		{Label: "Nick", Reason: "must be at least 2 characters"},
		{Label: "Bio", Reason: "must be at most 5 characters"},
		{Label: "CV", Reason: "must be one of .pdf,image/*"},
	}
	if diff := cmp.Diff(want, issuesOf(t, err)); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownKeysPassThrough(t *testing.T) {
	fields := []Field{{ID: "1", Label: "Name", Kind: fieldtype.Text}}

	got, err := ValidateAndEncode(fields, map[string]interface{}{"Name": "Ada", "Old Field": 3.0, "Another": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Another", "Old Field"}, got.Unknown); diff != "" {
		t.Errorf("unknown mismatch (-want +got):\n%s", diff)
	}
	if got.Data["Old Field"] != 3.0 || got.Data["Another"] != "x" {
		t.Errorf("unknown values must be kept unchanged: %v", got.Data)
	}
}

func TestEmptyOptionalDropped(t *testing.T) {
	fields := []Field{{ID: "1", Label: "Nick", Kind: fieldtype.Text}, {ID: "2", Label: "Tags", Kind: fieldtype.Checkbox, Options: []string{"a"}}}

	got, err := ValidateAndEncode(fields, map[string]interface{}{"Nick": "", "Tags": []interface{}{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data) != 0 || len(got.Unknown) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
}

func TestKeyByID(t *testing.T) {
	fields := []Field{{ID: "f-1", Label: "Name", Kind: fieldtype.Text, Required: true}}

	got, err := ValidateAndEncode(fields, map[string]interface{}{"f-1": "Ada", "Name": "stale"}, KeyByID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Data["f-1"] != "Ada" {
		t.Errorf("expected value keyed by id, got %v", got.Data)
	}
	if diff := cmp.Diff([]string{"Name"}, got.Unknown); diff != "" {
		t.Errorf("unknown mismatch (-want +got):\n%s", diff)
	}

	_, err = ValidateAndEncode(fields, map[string]interface{}{"Name": "Ada"}, KeyByID())
	if diff := cmp.Diff([]string{"Name"}, labelsOf(issuesOf(t, err))); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

// Encoding canonical output again yields the same canonical output.
func TestRoundTripIdempotent(t *testing.T) {
	fields := []Field{
		{ID: "1", Label: "Name", Kind: fieldtype.Text, Required: true},
		{ID: "2", Label: "Qty", Kind: fieldtype.Number},
		{ID: "3", Label: "Day", Kind: fieldtype.Date},
		{ID: "4", Label: "At", Kind: fieldtype.Time},
		{ID: "5", Label: "When", Kind: fieldtype.DateTime},
		{ID: "6", Label: "Tags", Kind: fieldtype.Checkbox, Options: []string{"x", "y"}},
		{ID: "7", Label: "Stars", Kind: fieldtype.Rating},
		{ID: "8", Label: "Pick", Kind: fieldtype.Radio, Options: []string{"p"}},
	}
	sample := map[string]interface{}{
		"Name":  "Ada",
		"Qty":   "42",
		"Day":   "2026-10-17",
		"At":    "07:05",
		"When":  "2026-10-17 07:05",
		"Tags":  []interface{}{"y"},
		"Stars": "5",
		"Pick":  "p",
		"Extra": true,
	}

	first, err := ValidateAndEncode(fields, sample)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := ValidateAndEncode(fields, first.Data)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("not idempotent (-first +second):\n%s", diff)
	}
}
