package analyze

import (
	"reflect"
	"testing"
)

func TestClaimKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "long words kept",
			text: "Achieve carbon neutrality by 2030",
			want: []string{"Achieve", "carbon", "neutrality"},
		},
		{
			name: "short words dropped",
			text: "we cut all risk now",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "multibyte runes counted not bytes",
			text: "émissions réduites d'ici 2030",
			want: []string{"émissions", "réduites"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := claimKeywords(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("claimKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPassesFilter(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		text     string
		want     bool
	}{
		{
			name:     "one of three hits passes",
			keywords: []string{"renewable", "capacity", "turbines"},
			text:     "the renewable program expanded last year",
			want:     true,
		},
		{
			name:     "zero hits fails",
			keywords: []string{"renewable", "capacity", "turbines"},
			text:     "board remuneration policy",
			want:     false,
		},
		{
			name:     "case insensitive",
			keywords: []string{"Renewable"},
			text:     "RENEWABLE energy sources",
			want:     true,
		},
		{
			name:     "exactly at threshold fails",
			keywords: []string{"alpha1", "bravo2", "charlie", "deltas", "echoes", "foxtro", "golfer", "hotels", "indigo", "juliet"},
			text:     "alpha1 bravo2 charlie mentioned here",
			want:     false,
		},
		{
			name:     "no keywords never passes",
			keywords: nil,
			text:     "any text at all",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := passesFilter(tt.keywords, tt.text); got != tt.want {
				t.Errorf("passesFilter(%v, %q) = %v, want %v", tt.keywords, tt.text, got, tt.want)
			}
		})
	}
}
