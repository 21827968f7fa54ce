package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \n\t ", want: ""},
		{name: "single token", input: "milk", want: "milk"},
		{name: "collapses spaces", input: "buy   oat    milk", want: "buy oat milk"},
		{name: "collapses newlines", input: "one\n\n two\tthree", want: "one two three"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeWhitespace(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "dueDate", want: "duedate"},
		{input: "due_date", want: "duedate"},
		{input: " Due-Date ", want: "duedate"},
		{input: "due date", want: "duedate"},
		{input: "title", want: "title"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			if got := NormalizeKey(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "crlf", input: "a\r\nb", want: "a\nb"},
		{name: "lone cr", input: "a\rb", want: "a\nb"},
		{name: "mixed", input: "a\r\nb\rc\n", want: "a\nb\nc\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeNewlines(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTrimHelpers(t *testing.T) {
	if got := TrimTrailingNewlines("body\r\n\n"); got != "body" {
		t.Fatalf("TrimTrailingNewlines = %q", got)
	}
	if got := TrimTrailingSlash("http://localhost:5000/api/todos//"); got != "http://localhost:5000/api/todos" {
		t.Fatalf("TrimTrailingSlash = %q", got)
	}
	if got := NormalizeLowerTrimSpace("  HIGH "); got != "high" {
		t.Fatalf("NormalizeLowerTrimSpace = %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{input: "", want: true},
		{input: "   ", want: true},
		{input: "\t\n　", want: true},
		{input: " x ", want: false},
	}

	for _, tc := range cases {
		if got := IsBlank(tc.input); got != tc.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
