package cli

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report"},
		{"Annual Report 2025.pdf", "Annual-Report-2025"},
		{"weird:name?.pdf", "weird_name_"},
		{"/data/deep/path.pdf", "path"},
		{".pdf", "report"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
