package fieldtype

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsChoiceType(t *testing.T) {
	for _, k := range Kinds() {
		want := k == Dropdown || k == Radio || k == Checkbox
		if got := IsChoiceType(k); got != want {
			t.Errorf("IsChoiceType(%s) = %v, want %v", k, got, want)
		}
		d, ok := Describe(k)
		if !ok {
			t.Fatalf("missing descriptor for %s", k)
		}
		if d.Options != want {
			t.Errorf("descriptor %s options = %v, want %v", k, d.Options, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := ParseKind(" long_text "); !ok || k != LongText {
		t.Errorf("expected LONG_TEXT, got %q %v", k, ok)
	}
	if _, ok := ParseKind("SIGNATURE"); ok {
		t.Error("expected unknown kind to be rejected")
	}
}

func TestDecodeConfigIgnoresForeignKeys(t *testing.T) {
	cfg, err := DecodeConfig(Rating, []byte(`{"maxStars":7,"minLength":3,"futureKey":{"a":1}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rating, ok := cfg.(RatingConfig)
	if !ok {
		t.Fatalf("expected RatingConfig, got %T", cfg)
	}
	if rating.Stars() != 7 {
		t.Errorf("expected 7 stars, got %d", rating.Stars())
	}

	encoded, err := EncodeConfig(cfg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if diff := cmp.Diff(`{"maxStars":7}`, string(encoded)); diff != "" {
		t.Errorf("encoded mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeConfigSharedShapes(t *testing.T) {
	cases := []struct {
		kind Kind
		want Config
	}{
		{Date, TemporalConfig{Min: "2024-01-01"}},
		{Checkbox, ChoiceConfig{Vertical: true}},
		{Radio, ChoiceConfig{Vertical: true}},
		{URL, URLConfig{RequireHTTPS: true}},
	}
	raw := []byte(`{"min":"2024-01-01","vertical":true,"requireHttps":true}`)
	for _, tc := range cases {
		got, err := DecodeConfig(tc.kind, raw)
		if err != nil {
			t.Fatalf("%s: %v", tc.kind, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tc.kind, diff)
		}
	}
}

func TestDecodeConfigWrongValueType(t *testing.T) {
	if _, err := DecodeConfig(Rating, []byte(`{"maxStars":"lots"}`)); err == nil {
		t.Error("expected error for string maxStars")
	}
	if _, err := DecodeConfig(Kind("SIGNATURE"), nil); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestValidateConfig(t *testing.T) {
	eleven := 11
	three, one := 3, 1
	lo, hi := 10.0, 5.0
	zero := 0.0

	bad := []struct {
		kind Kind
		cfg  Config
	}{
		{Rating, RatingConfig{MaxStars: &eleven}},
		{Text, TextConfig{MinLength: &three, MaxLength: &one}},
		{Number, NumberConfig{Min: &lo, Max: &hi}},
		{Slider, SliderConfig{Step: &zero}},
		{Date, TemporalConfig{Min: "2024-02-01", Max: "2024-01-01"}},
		{Time, TemporalConfig{Min: "noon"}},
		{File, FileConfig{Accept: "pdf"}},
		{Scale, ScaleConfig{Labels: []string{"Low", "Low"}}},
	}
	for _, tc := range bad {
		if err := ValidateConfig(tc.kind, tc.cfg); err == nil {
			t.Errorf("%s %+v: expected error", tc.kind, tc.cfg)
		}
	}

	good := []struct {
		kind Kind
		cfg  Config
	}{
		{Rating, RatingConfig{}},
		{Slider, SliderConfig{}},
		{DateTime, TemporalConfig{Min: "2024-01-01T08:00", Max: "2024-01-01T17:00:00Z"}},
		{File, FileConfig{Accept: ".pdf, image/*"}},
	}
	for _, tc := range good {
		if err := ValidateConfig(tc.kind, tc.cfg); err != nil {
			t.Errorf("%s %+v: unexpected error %v", tc.kind, tc.cfg, err)
		}
	}
}

func TestValidateOptions(t *testing.T) {
	if err := ValidateOptions(Dropdown, nil); err == nil {
		t.Error("expected empty options to be rejected")
	}
	if err := ValidateOptions(Checkbox, []string{"A", "A"}); err == nil {
		t.Error("expected duplicate options to be rejected")
	}
	if err := ValidateOptions(Text, nil); err != nil {
		t.Errorf("non-choice kinds take no options: %v", err)
	}
}

func TestTemporalRoundTrip(t *testing.T) {
	cases := []struct {
		kind Kind
		in   string
		want string
	}{
		{Date, "2024-03-09", "2024-03-09"},
		{Time, "09:30", "09:30:00"},
		{DateTime, "2024-03-09T09:30", "2024-03-09T09:30:00Z"},
		{DateTime, "2024-03-09T09:30:00+02:00", "2024-03-09T09:30:00+02:00"},
	}
	for _, tc := range cases {
		parsed, err := ParseTemporal(tc.kind, tc.in)
		if err != nil {
			t.Fatalf("%s %q: %v", tc.kind, tc.in, err)
		}
		got := FormatTemporal(tc.kind, parsed)
		if got != tc.want {
			t.Errorf("%s %q: expected %q, got %q", tc.kind, tc.in, tc.want, got)
		}
		again, err := ParseTemporal(tc.kind, got)
		if err != nil || FormatTemporal(tc.kind, again) != got {
			t.Errorf("%s %q: canonical form does not round-trip", tc.kind, got)
		}
	}
}
