package lint

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/sevigo/text-warden/internal/core"
)

// variant lists the spellings of one word. An empty canadian form means
// Canada follows the commonwealth spelling.
type variant struct {
	american     string
	commonwealth string
	canadian     string
}

var variants = []variant{
	{"color", "colour", ""},
	{"colors", "colours", ""},
	{"favorite", "favourite", ""},
	{"favorites", "favourites", ""},
	{"honor", "honour", ""},
	{"behavior", "behaviour", ""},
	{"neighbor", "neighbour", ""},
	{"neighbors", "neighbours", ""},
	{"center", "centre", ""},
	{"centers", "centres", ""},
	{"theater", "theatre", ""},
	{"catalog", "catalogue", ""},
	{"defense", "defence", ""},
	{"gray", "grey", ""},
	{"traveled", "travelled", ""},
	{"traveling", "travelling", ""},
	{"organize", "organise", "organize"},
	{"organized", "organised", "organized"},
	{"organization", "organisation", "organization"},
	{"realize", "realise", "realize"},
	{"realized", "realised", "realized"},
	{"recognize", "recognise", "recognize"},
	{"analyze", "analyse", "analyze"},
}

func (v variant) preferred(d core.Dialect) string {
	switch d {
	case core.DialectAmerican:
		return v.american
	case core.DialectCanadian:
		return cmp.Or(v.canadian, v.commonwealth)
	default:
		return v.commonwealth
	}
}

// replacementsFor maps every lower-case spelling that the dialect does not
// use to the one it does.
func replacementsFor(d core.Dialect) map[string]string {
	out := make(map[string]string)
	for _, v := range variants {
		want := v.preferred(d)
		for _, form := range []string{v.american, v.commonwealth, v.canadian} {
			if form != "" && form != want {
				out[form] = want
			}
		}
	}
	return out
}

func newSpellingRule(d core.Dialect) (*rule, error) {
	replacements := replacementsFor(d)

	words := slices.Collect(maps.Keys(replacements))
	slices.SortFunc(words, func(a, b string) int {
		return cmp.Or(len(b)-len(a), strings.Compare(a, b))
	})
	for i, w := range words {
		words[i] = regexp2.Escape(w)
	}

	re, err := compile(`\b(?:`+strings.Join(words, "|")+`)\b`, regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("compile %s spelling rule: %w", d, err)
	}

	return &rule{
		kind: core.IssueSpelling,
		re:   re,
		build: func(m *regexp2.Match) (finding, bool) {
			word := m.String()
			want, ok := replacements[strings.ToLower(word)]
			if !ok {
				return finding{}, false
			}
			want = matchCase(want, word)
			return finding{
				start:       m.Index,
				end:         m.Index + m.Length,
				message:     fmt.Sprintf("Use the %s spelling %q.", d, want),
				suggestions: []string{want},
			}, true
		},
	}, nil
}

// matchCase applies the capitalization of like to word.
func matchCase(word, like string) string {
	switch {
	case utf8.RuneCountInString(like) > 1 && like == strings.ToUpper(like):
		return strings.ToUpper(word)
	case startsUpper(like):
		return capitalize(word)
	default:
		return word
	}
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
