package legaldoc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	subsectionRe    = regexp.MustCompile(`\([a-zA-Z0-9]+\)`)
	formulaRe       = regexp.MustCompile(`[+\-*/=]|\d+%|\$\d+`)
)

// ComplexityScore rates text on a 0-100 scale from sentence length,
// word length, subsection-marker density and the presence of formulas:
//
//	min(100, floor(avgSentenceWords*2 + avgWordLen*5 + markers*3 + formulaBonus))
//
// where markers counts parenthesized tokens like "(a)" or "(3)" and the
// formula bonus is 30 when the text contains an arithmetic operator, a
// percentage or a dollar amount. Empty input scores 0.
func ComplexityScore(text string) int {
	if text == "" {
		return 0
	}

	sentences := sentenceSplitRe.Split(text, -1)
	totalWords := 0
	for _, s := range sentences {
		totalWords += len(strings.Fields(s))
	}
	avgSentence := float64(totalWords) / float64(max(1, len(sentences)))

	words := strings.Fields(text)
	totalChars := 0
	for _, w := range words {
		totalChars += utf8.RuneCountInString(w)
	}
	avgWord := float64(totalChars) / float64(max(1, len(words)))

	markers := len(subsectionRe.FindAllString(text, -1))

	bonus := 0.0
	if formulaRe.MatchString(text) {
		bonus = 30
	}

	score := int(avgSentence*2 + avgWord*5 + float64(markers)*3 + bonus)
	return min(100, score)
}
