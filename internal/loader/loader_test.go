package loader

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mobsr/greenwashing-analyzer/internal/model"
)

func TestPageChunks(t *testing.T) {
	long := strings.Repeat("sustainability narrative ", 10)

	tests := []struct {
		name     string
		text     string
		minChars int
		want     int
	}{
		{"substantial page kept", long, 50, 1},
		{"short page dropped", "Cover", 50, 0},
		{"whitespace only dropped", "   \n\t  ", 50, 0},
		{"exactly at threshold kept", strings.Repeat("x", 50), 50, 1},
		{"one below threshold dropped", strings.Repeat("x", 49), 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := pageChunks(tt.text, 3, "report.pdf", tt.minChars)
			if len(chunks) != tt.want {
				t.Fatalf("expected %d chunks, got %d", tt.want, len(chunks))
			}
			if tt.want == 1 {
				c := chunks[0]
				if c.Page != 3 || c.Source != "report.pdf" || c.Text != tt.text {
					t.Errorf("unexpected chunk: %+v", c)
				}
			}
		})
	}
}

func TestNew_MinCharsDefault(t *testing.T) {
	l := New(model.LoaderConfig{}, nil, zerolog.Nop())
	if l.minChars != 50 {
		t.Errorf("expected default min chars 50, got %d", l.minChars)
	}

	l = New(model.LoaderConfig{MinPageChars: 10}, nil, zerolog.Nop())
	if l.minChars != 10 {
		t.Errorf("expected configured min chars 10, got %d", l.minChars)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l := New(model.LoaderConfig{}, nil, zerolog.Nop())
	if _, err := l.Load("/nonexistent/report.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
