package core

import (
	"fmt"
	"strings"
)

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Shift returns the span moved by offset bytes.
func (s Span) Shift(offset int) Span {
	return Span{Start: s.Start + offset, End: s.End + offset}
}

// IssueKind classifies a lint issue.
type IssueKind string

const (
	IssueRepetition IssueKind = "repetition"
	IssueArticle    IssueKind = "article"
	IssueCapitalize IssueKind = "capitalization"
	IssueSpacing    IssueKind = "spacing"
	IssueSpelling   IssueKind = "spelling"
)

// Issue is a single finding reported by a Linter.
type Issue struct {
	Kind        IssueKind `json:"kind" yaml:"kind"`
	Message     string    `json:"message" yaml:"message"`
	Span        Span      `json:"span" yaml:"span"`
	Suggestions []string  `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Counts holds the statistics produced by a Counter.
type Counts struct {
	Characters  int `json:"characters" yaml:"characters"`
	Words       int `json:"words" yaml:"words"`
	Sentences   int `json:"sentences" yaml:"sentences"`
	Paragraphs  int `json:"paragraphs" yaml:"paragraphs"`
	Lines       int `json:"lines" yaml:"lines"`
	Spaces      int `json:"spaces" yaml:"spaces"`
	Letters     int `json:"letters" yaml:"letters"`
	Digits      int `json:"digits" yaml:"digits"`
	Punctuation int `json:"punctuation" yaml:"punctuation"`
	Symbols     int `json:"symbols" yaml:"symbols"`
}

// Dialect identifies a regional variant of a language used by the linter.
type Dialect int

const (
	DialectAmerican Dialect = iota
	DialectBritish
	DialectAustralian
	DialectCanadian
	DialectIndian
)

var dialectNames = map[Dialect]string{
	DialectAmerican:   "American",
	DialectBritish:    "British",
	DialectAustralian: "Australian",
	DialectCanadian:   "Canadian",
	DialectIndian:     "Indian",
}

func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// ParseDialect converts a dialect name such as "British" into a Dialect.
// Matching is case-insensitive.
func ParseDialect(name string) (Dialect, error) {
	for d, n := range dialectNames {
		if strings.EqualFold(n, name) {
			return d, nil
		}
	}
	return DialectAmerican, fmt.Errorf("unknown dialect %q", name)
}
