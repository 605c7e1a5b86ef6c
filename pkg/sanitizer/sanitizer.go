package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersOnly = regexp.MustCompile(`[^\p{L}]+`)
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeAddress(address string) string {
	return TrimAndNormalize(address)
}

// NormalizeCity lowercases and strips everything but letters, so city values
// compare equal regardless of spacing or punctuation.
func NormalizeCity(city string) string {
	p := Pipeline{
		func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
		func(s string) string { return reKeepLettersOnly.ReplaceAllString(s, "") },
	}
	return p.Apply(city)
}

// NormalizeID trims and lowercases an opaque identifier. Guest and hotel ids
// appear inside composite view keys, so their representation must be stable.
func NormalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
