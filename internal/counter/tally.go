// Package counter computes text statistics based on Unicode text segmentation.
package counter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/language"

	"github.com/sevigo/text-warden/internal/core"
)

// Tally implements core.Counter. Characters are user-perceived characters
// (extended grapheme clusters), words and sentences follow the Unicode
// segmentation rules of UAX #29. The segmentation rules are the same for
// every language, so the locale is informational and does not change any
// count.
type Tally struct {
	locale language.Tag
}

var _ core.Counter = (*Tally)(nil)

// New creates a Tally for the given locale.
func New(locale language.Tag) *Tally {
	return &Tally{locale: locale}
}

// Locale returns the locale the tally was created for.
func (t *Tally) Locale() language.Tag {
	return t.locale
}

// Count returns the statistics for text.
func (t *Tally) Count(text string) core.Counts {
	var c core.Counts
	if text == "" {
		return c
	}

	countGraphemes(text, &c)
	c.Words = countWords(text)
	c.Sentences = countSentences(text)
	c.Lines = strings.Count(text, "\n") + 1
	c.Paragraphs = countParagraphs(text)
	return c
}

func countGraphemes(text string, c *core.Counts) {
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		c.Characters++

		r, _ := utf8.DecodeRuneInString(cluster)
		switch {
		case unicode.IsSpace(r):
			c.Spaces++
		case unicode.IsLetter(r):
			c.Letters++
		case unicode.IsNumber(r):
			c.Digits++
		case unicode.IsPunct(r):
			c.Punctuation++
		case unicode.IsSymbol(r):
			c.Symbols++
		}
	}
}

// countWords counts word segments that contain at least one letter or number.
// Segments made of spaces or punctuation are boundaries, not words.
func countWords(text string) int {
	n := 0
	state := -1
	for text != "" {
		var word string
		word, text, state = uniseg.FirstWordInString(text, state)
		if isWordLike(word) {
			n++
		}
	}
	return n
}

func countSentences(text string) int {
	n := 0
	state := -1
	for text != "" {
		var sentence string
		sentence, text, state = uniseg.FirstSentenceInString(text, state)
		if strings.TrimSpace(sentence) != "" {
			n++
		}
	}
	return n
}

// countParagraphs counts runs of non-blank lines.
func countParagraphs(text string) int {
	n := 0
	inParagraph := false
	for line := range strings.Lines(text) {
		blank := strings.TrimSpace(line) == ""
		if !blank && !inParagraph {
			n++
		}
		inParagraph = !blank
	}
	return n
}

func isWordLike(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
