package textutil

import (
	"strings"
	"unicode"
)

// edgePunctuation lists characters trimmed from token edges before counting.
const edgePunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~“”‘’«»…–—·•"

// TrimPunctuation removes edge punctuation from a single token.
func TrimPunctuation(token string) string {
	return strings.Trim(token, edgePunctuation)
}

// TokenKey returns the comparison key for a token: lower-cased with edge
// punctuation removed. Empty keys mean the token carries no content.
func TokenKey(token string) string {
	return TrimPunctuation(strings.ToLower(token))
}

// StatTokens lower-cases text, splits it on whitespace and strips edge
// punctuation. Tokens that become empty are dropped.
func StatTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if key := TrimPunctuation(field); key != "" {
			tokens = append(tokens, key)
		}
	}
	return tokens
}

// UniqueTokens returns the distinct StatTokens of text.
func UniqueTokens(text string) map[string]struct{} {
	tokens := StatTokens(text)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// IsSingleGlyph reports whether token is exactly one rune.
func IsSingleGlyph(token string) bool {
	count := 0
	for range token {
		count++
		if count > 1 {
			return false
		}
	}
	return count == 1
}

// IsDigitToken reports whether every rune of token is a decimal digit.
func IsDigitToken(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CollapseSpace trims text and joins its whitespace-separated fields with a
// single space.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
