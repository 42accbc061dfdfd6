package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", nil},
		{"only punctuation", " ,.!? ", nil},
		{"lowercases", "Sunny LOFT", []string{"sunny", "loft"}},
		{"splits on punctuation", "2-bedroom, riverside", []string{"2", "bedroom", "riverside"}},
		{"keeps digits", "MLS 12345", []string{"mls", "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeQuery(tt.query))
		})
	}
}
