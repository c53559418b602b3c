package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Ravi Kumar", want: "Ravi Kumar"},
		{name: "tags stripped", input: "<b>urgent</b> callback", want: "urgent callback"},
		{name: "script stripped", input: `<script>alert(1)</script>note`, want: "alert(1)note"},
		{name: "encoded tags stripped", input: "&lt;img src=x&gt;hello", want: "hello"},
		{name: "whitespace trimmed", input: "  spaced  ", want: "spaced"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.input); got != tc.want {
				t.Errorf("Text(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestTextPtr(t *testing.T) {
	if got := TextPtr(nil); got != nil {
		t.Fatalf("TextPtr(nil) = %v, want nil", got)
	}
	in := "<i>web</i>"
	got := TextPtr(&in)
	if got == nil || *got != "web" {
		t.Fatalf("TextPtr(%q) = %v, want web", in, got)
	}
}
