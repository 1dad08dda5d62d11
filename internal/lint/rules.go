package lint

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/sevigo/text-warden/internal/core"
)

const matchTimeout = 2 * time.Second

// finding is a rule hit in rune offsets, as reported by regexp2.
type finding struct {
	start       int
	end         int
	message     string
	suggestions []string
}

type rule struct {
	kind  core.IssueKind
	re    *regexp2.Regexp
	build func(m *regexp2.Match) (finding, bool)
}

func compile(pattern string, opts regexp2.RegexOptions) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = matchTimeout
	return re, nil
}

func mustCompile(pattern string, opts regexp2.RegexOptions) *regexp2.Regexp {
	re, err := compile(pattern, opts)
	if err != nil {
		panic(fmt.Sprintf("lint: compile %q: %v", pattern, err))
	}
	return re
}

// apply runs the rule over text. offsets maps rune indexes to byte offsets
// and has one extra entry for the end of text.
func (r *rule) apply(text string, offsets []int) ([]core.Issue, error) {
	var issues []core.Issue

	m, err := r.re.FindStringMatch(text)
	for ; m != nil && err == nil; m, err = r.re.FindNextMatch(m) {
		f, ok := r.build(m)
		if !ok {
			continue
		}
		issues = append(issues, core.Issue{
			Kind:        r.kind,
			Message:     f.message,
			Span:        core.Span{Start: offsets[f.start], End: offsets[f.end]},
			Suggestions: f.suggestions,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("%s rule: %w", r.kind, err)
	}
	return issues, nil
}

var repeatedWordRule = &rule{
	kind: core.IssueRepetition,
	re:   mustCompile(`\b(\w+)\s+\1\b`, regexp2.IgnoreCase),
	build: func(m *regexp2.Match) (finding, bool) {
		word := m.GroupByNumber(1).String()
		if !hasLetter(word) {
			return finding{}, false
		}
		return finding{
			start:       m.Index,
			end:         m.Index + m.Length,
			message:     fmt.Sprintf("The word %q is repeated.", word),
			suggestions: []string{word},
		}, true
	},
}

// Words starting with a vowel letter but a consonant sound, and the reverse.
var (
	consonantSoundPrefixes = []string{"uni", "use", "usu", "uti", "eu", "one", "once", "ur"}
	vowelSoundPrefixes     = []string{"hour", "honest", "honor", "honour", "heir"}
)

var articleBeforeVowelRule = &rule{
	kind: core.IssueArticle,
	re:   mustCompile(`\b(a)\s+(?=([aeiou]\w*))`, regexp2.IgnoreCase),
	build: func(m *regexp2.Match) (finding, bool) {
		next := m.GroupByNumber(2).String()
		if isAcronym(next) || hasAnyPrefix(next, consonantSoundPrefixes) {
			return finding{}, false
		}
		return articleFinding(m, "an", next)
	},
}

var articleBeforeConsonantRule = &rule{
	kind: core.IssueArticle,
	re:   mustCompile(`\b(an)\s+(?=([b-df-hj-np-tv-z]\w*))`, regexp2.IgnoreCase),
	build: func(m *regexp2.Match) (finding, bool) {
		next := m.GroupByNumber(2).String()
		if isAcronym(next) || hasAnyPrefix(next, vowelSoundPrefixes) {
			return finding{}, false
		}
		return articleFinding(m, "a", next)
	},
}

func articleFinding(m *regexp2.Match, want, next string) (finding, bool) {
	article := m.GroupByNumber(1)
	want = matchCase(want, article.String())
	return finding{
		start:       article.Index,
		end:         article.Index + article.Length,
		message:     fmt.Sprintf("Use %q before %q.", want, next),
		suggestions: []string{want},
	}, true
}

// Abbreviations whose trailing period does not end a sentence. The entries
// are the last word before the period, so "e.g." is listed as "g".
var abbreviations = map[string]struct{}{
	"g": {}, "e": {}, "etc": {}, "vs": {}, "cf": {}, "al": {},
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "st": {}, "approx": {},
}

var sentenceStartRule = &rule{
	kind: core.IssueCapitalize,
	re:   mustCompile(`(?<=\b(\w+)([.!?]+)[ \t]+)[a-z]\w*`, regexp2.None),
	build: func(m *regexp2.Match) (finding, bool) {
		prev := strings.ToLower(m.GroupByNumber(1).String())
		if m.GroupByNumber(2).String() == "." {
			if _, ok := abbreviations[prev]; ok {
				return finding{}, false
			}
		}
		return finding{
			start:       m.Index,
			end:         m.Index + m.Length,
			message:     "A sentence should start with a capital letter.",
			suggestions: []string{capitalize(m.String())},
		}, true
	},
}

var spacingRule = &rule{
	kind: core.IssueSpacing,
	re:   mustCompile(`(?<=\S) {2,}(?=\S)`, regexp2.None),
	build: func(m *regexp2.Match) (finding, bool) {
		return finding{
			start:       m.Index,
			end:         m.Index + m.Length,
			message:     "Use a single space.",
			suggestions: []string{" "},
		}, true
	},
}

func baseRules() []*rule {
	return []*rule{
		repeatedWordRule,
		articleBeforeVowelRule,
		articleBeforeConsonantRule,
		sentenceStartRule,
		spacingRule,
	}
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isAcronym(s string) bool {
	return len(s) > 1 && s == strings.ToUpper(s)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	s = strings.ToLower(s)
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
