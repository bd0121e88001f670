package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent case-folds an identifier and strips separators, so that
// "UnmarshalJSON", "unmarshal_json" and "unmarshal-json" compare equal.
func NormalizeIdent(s string) string {
	return strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return -1
		}

		return unicode.ToLower(r)
	}, s)
}

// TokenizeIdent splits an identifier into lowercase tokens at separators and
// CamelCase boundaries, keeping acronyms together.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenizeCamelCase splits at separators, before an upper-case rune that
// follows a lower-case rune or digit ("shapeKind", "V2Kind"), and before the
// last rune of an acronym followed by lower case ("XMLParser").
func tokenizeCamelCase(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
