package chunker

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "hello   world\n\nagain here", "hello world again here"},
		{"trims ends", "  padded out enough text  ", "padded out enough text"},
		{"nbsp becomes space", "alpha beta gamma delta", "alpha beta gamma delta"},
		{"tabs and newlines", "one\ttwo\r\nthree four five", "one two three four five"},
		{"too short", "tiny", ""},
		{"nine chars", "123 45678", ""},
		{"ten chars kept", "123 456789", "123 456789"},
		{"empty", "", ""},
		{"whitespace only", "   \n\t  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCountsRunesNotBytes(t *testing.T) {
	// Five two-byte runes: ten bytes but only five characters, so the
	// content threshold must reject it.
	if got := Normalize("ééééé"); got != "" {
		t.Errorf("Normalize(five runes) = %q, want empty", got)
	}
}
