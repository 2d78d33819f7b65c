package shell

import "strings"

// Tokenize splits a command line on whitespace. A run of words wrapped in
// double quotes is one token with the quotes removed, so "New York" and
// "" are single tokens. An unterminated quote runs to the end of the line.
func Tokenize(line string) []string {
	var (
		tokens  []string
		current []string
		quoted  bool
	)
	for _, word := range strings.Fields(line) {
		switch {
		case !quoted && len(word) > 1 && strings.HasPrefix(word, `"`) && strings.HasSuffix(word, `"`):
			tokens = append(tokens, word[1:len(word)-1])
		case !quoted && strings.HasPrefix(word, `"`):
			quoted = true
			current = []string{word[1:]}
		case quoted && strings.HasSuffix(word, `"`):
			current = append(current, word[:len(word)-1])
			tokens = append(tokens, strings.Join(current, " "))
			quoted = false
		case quoted:
			current = append(current, word)
		default:
			tokens = append(tokens, word)
		}
	}
	if quoted {
		tokens = append(tokens, strings.Join(current, " "))
	}
	return tokens
}
