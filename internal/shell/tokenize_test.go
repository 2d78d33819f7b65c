package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"blank", "   ", nil},
		{"plain words", "sign_in alice secret", []string{"sign_in", "alice", "secret"}},
		{"extra whitespace", "  show_levels \t ", []string{"show_levels"}},
		{"quoted phrase", `transfer_city "New York" "United States" Canada`, []string{"transfer_city", "New York", "United States", "Canada"}},
		{"single quoted word", `get_statistics "Paris"`, []string{"get_statistics", "Paris"}},
		{"empty quotes", `adjust_population Springfield "" 10`, []string{"adjust_population", "Springfield", "", "10"}},
		{"unterminated quote", `get_statistics "Rio de Janeiro`, []string{"get_statistics", "Rio de Janeiro"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.line))
		})
	}
}
