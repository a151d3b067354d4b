package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlexListAcceptsObjectOrArray(t *testing.T) {
	type def struct {
		Label string `json:"label"`
	}

	var single FlexList[def]
	if err := json.Unmarshal([]byte(`{"label":"Name"}`), &single); err != nil {
		t.Fatalf("unmarshal single: %v", err)
	}
	if diff := cmp.Diff([]def{{Label: "Name"}}, single.Slice()); diff != "" {
		t.Errorf("single mismatch (-want +got):\n%s", diff)
	}

	var many FlexList[def]
	if err := json.Unmarshal([]byte(` [{"label":"A"},{"label":"B"}]`), &many); err != nil {
		t.Fatalf("unmarshal array: %v", err)
	}
	if diff := cmp.Diff([]def{{Label: "A"}, {Label: "B"}}, many.Slice()); diff != "" {
		t.Errorf("array mismatch (-want +got):\n%s", diff)
	}
}

func TestFlexInt(t *testing.T) {
	cases := map[string]int{
		`3`:     3,
		`"7"`:   7,
		`" 12"`: 12,
		`-1`:    -1,
	}
	for in, want := range cases {
		var got FlexInt
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if got.Int() != want {
			t.Errorf("unmarshal %s: expected %d, got %d", in, want, got.Int())
		}
	}

	var bad FlexInt
	if err := json.Unmarshal([]byte(`"seven"`), &bad); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestIsKind(t *testing.T) {
	err := NewSchemaViolation("label %q already exists", "Email")
	if !IsKind(err, KindSchemaViolation) {
		t.Error("expected schema violation kind")
	}
	if IsKind(err, KindNotFound) {
		t.Error("did not expect not found kind")
	}

	failure := NewValidationFailure([]FieldIssue{{Label: "Name", Reason: "is required"}, {Label: "Age", Reason: "must be a number"}})
	if failure.Message != "Submission rejected for: Name, Age" {
		t.Errorf("unexpected message %q", failure.Message)
	}
}
