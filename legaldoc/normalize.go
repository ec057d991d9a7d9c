package legaldoc

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalize collapses every run of whitespace (including newlines) into
// a single space and trims the ends. Idempotent; no case folding or
// de-hyphenation.
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}

var (
	crRe     = regexp.MustCompile(`\r\n?`)
	blankRe  = regexp.MustCompile(`\n+`)
	inlineWS = regexp.MustCompile(`[ \t]+`)
)

// NormalizePDFText canonicalizes page-extracted text while keeping
// newlines, which the heading regexes and the paragraph chunker need:
// CR/CRLF become LF, newline runs collapse to one, and runs of spaces
// and tabs collapse to a single space.
func NormalizePDFText(text string) string {
	text = crRe.ReplaceAllString(text, "\n")
	text = blankRe.ReplaceAllString(text, "\n")
	text = inlineWS.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
