package token

import "unicode"

// Tokenize splits a pretty-printed expression into fragments: maximal runs
// of letters, digits and underscores become identifier tokens, every other
// non-space rune becomes a single-rune symbol token. Case is preserved since
// expression syntax is case-sensitive.
func Tokenize(pretty string) []string {
	var (
		tokens []string
		start  = -1
	)

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, pretty[start:end])
			start = -1
		}
	}

	for i, r := range pretty {
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case unicode.IsSpace(r):
			flush(i)
		default:
			flush(i)
			tokens = append(tokens, string(r))
		}
	}
	flush(len(pretty))

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
