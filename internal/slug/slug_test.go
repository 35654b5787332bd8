package slug

import "testing"

// TestGenerate exercises the slug generator with typical titles, special
// characters, and edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "punctuation stripped", input: "Hello, World!", want: "hello-world"},
		{name: "leading and trailing space", input: "  Trimmed Title  ", want: "trimmed-title"},
		{name: "consecutive separators collapse", input: "a  --  b", want: "a-b"},
		{name: "apostrophes removed", input: "Go's Error Handling", want: "gos-error-handling"},
		{name: "empty string", input: "", want: ""},
		{name: "only punctuation", input: "!?#@", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{"hello", "hello-world", "post-2026", "a"}
	for _, s := range valid {
		if !IsValid(s) {
			t.Errorf("IsValid(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "Hello", "hello world", "-leading", "trailing-", "double--hyphen", "under_score"}
	for _, s := range invalid {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}
