// Package timeparse turns raw chat text into structured time mentions,
// an optional date anchor and an optional explicit timezone token. It is
// a closed rule set evaluated in a fixed precedence order, not a general
// NLP model; parsing never fails, at worst it detects nothing.
package timeparse

import (
	"regexp"
	"sort"
	"strings"

	"TimezoneBot/internal/model"
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`]*`")
	cyrillicRe   = regexp.MustCompile(`[А-Яа-яЁё]`)
)

// stripCodeBlocks blanks out inline and fenced code so nothing inside is
// recognized. Spans are replaced with spaces of equal byte length to keep
// every offset in the original text valid.
func stripCodeBlocks(text string) string {
	blank := func(s string) string { return strings.Repeat(" ", len(s)) }
	text = fencedCodeRe.ReplaceAllStringFunc(text, blank)
	return inlineCodeRe.ReplaceAllStringFunc(text, blank)
}

// DetectLanguage is deliberately simple: any Cyrillic character makes the
// whole message Russian, otherwise English. Detection is per message,
// never per mention.
func DetectLanguage(text string) model.Language {
	if cyrillicRe.MatchString(text) {
		return model.LangRU
	}
	return model.LangEN
}

// extractTimeMentions runs the matchers in precedence order. Ranges are
// claimed first; every later candidate whose span intersects an already
// claimed span is discarded, so first-claimed always wins regardless of
// form specificity. The result is ordered by first character offset.
func extractTimeMentions(text string) []candidate {
	claimed := rangeMatcher.find(text)

	for _, mt := range singleMatchers {
	next:
		for _, c := range mt.find(text) {
			for _, occ := range claimed {
				if c.span.overlaps(occ.span) {
					continue next
				}
			}
			claimed = append(claimed, c)
		}
	}

	sort.SliceStable(claimed, func(i, j int) bool {
		return claimed[i].span.start < claimed[j].span.start
	})
	return claimed
}

// maskSpans blanks the claimed mention spans so the timezone-token search
// cannot latch onto digits or case markers inside a time.
func maskSpans(text string, claimed []candidate) string {
	b := []byte(text)
	for _, c := range claimed {
		for i := c.span.start; i < c.span.end && i < len(b); i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// Parse extracts everything the pipeline needs from one message. It is a
// total function: malformed or adversarial text yields an empty result,
// never an error.
func Parse(text string) *model.ParseResult {
	cleaned := stripCodeBlocks(text)
	lang := DetectLanguage(cleaned)

	claimed := extractTimeMentions(cleaned)
	times := make([]model.TimeMention, 0, len(claimed))
	for _, c := range claimed {
		times = append(times, c.mention)
	}

	return &model.ParseResult{
		Language:         lang,
		Times:            times,
		ExplicitTimezone: extractExplicitTimezone(maskSpans(cleaned, claimed)),
		DateAnchor:       extractDateAnchor(cleaned),
	}
}
