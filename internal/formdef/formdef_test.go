package formdef

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const feedback = `
owner: owner-1
title: Customer feedback
description: Tell us how we did
publish: true
fields:
  - label: Name
    type: TEXT
    required: true
    config:
      maxLength: 80
  - label: Visit
    type: RADIO
    options: [Store, Online]
  - label: Stars
    type: rating
    order: 10
`

func TestParse(t *testing.T) {
	def, err := Parse(strings.NewReader(feedback))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if def.Owner != "owner-1" || !def.Publish || def.Form().Title != "Customer feedback" {
		t.Errorf("Unexpected definition %+v", def)
	}

	inputs, err := def.Inputs()
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 3 {
		t.Fatalf("Expected 3 inputs, got %d", len(inputs))
	}

	var cfg map[string]interface{}
	if err := json.Unmarshal(inputs[0].Config, &cfg); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]interface{}{"maxLength": float64(80)}, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Store", "Online"}, inputs[1].Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	if inputs[1].Order != nil {
		t.Errorf("Expected no explicit order, got %v", *inputs[1].Order)
	}
	if inputs[2].Order == nil || inputs[2].Order.Int() != 10 {
		t.Errorf("Expected order 10, got %v", inputs[2].Order)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no title", "owner: a\n"},
		{"unknown key", "title: T\ncolour: red\n"},
		{"field without label", "title: T\nfields:\n  - type: TEXT\n"},
		{"field without type", "title: T\nfields:\n  - label: A\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.doc)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
