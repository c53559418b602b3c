package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "national indian number", input: "98765 43210", want: "+919876543210"},
		{name: "already e164", input: "+919876543210", want: "+919876543210"},
		{name: "foreign e164 kept", input: "+31612345678", want: "+31612345678"},
		{name: "invalid number returned trimmed", input: "  12345  ", want: "12345"},
		{name: "empty input", input: "   ", want: ""},
		{name: "garbage returned as is", input: "not a phone", want: "not a phone"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
