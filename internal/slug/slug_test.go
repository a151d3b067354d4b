package slug

import "testing"

func TestMake(t *testing.T) {
	cases := map[string]string{
		"My Survey!!":             "my-survey",
		"My Survey":               "my-survey",
		"  --Customer  Feedback ": "customer-feedback",
		"Café Crème 2026":         "cafe-creme-2026",
		"Ünïcödé":                 "unicode",
		"!!!":                     Fallback,
		"":                        Fallback,
		"a_b.c/d":                 "a-b-c-d",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Errorf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abc "
	}
	got := Make(long)
	if len(got) > MaxLength {
		t.Errorf("expected at most %d chars, got %d", MaxLength, len(got))
	}
	if got[len(got)-1] == '-' {
		t.Errorf("slug must not end with a separator: %q", got)
	}
}

func TestAssignSuffixes(t *testing.T) {
	first := AssignFrom(Make("My Survey!!"), nil)
	second := AssignFrom(Make("My Survey"), []string{first})
	third := AssignFrom(Make("my survey"), []string{first, second})

	if first != "my-survey" || second != "my-survey-2" || third != "my-survey-3" {
		t.Errorf("unexpected slugs %q %q %q", first, second, third)
	}
}
