package analysis

import (
	"log/slog"
	"unicode/utf8"

	"github.com/sevigo/text-warden/internal/core"
)

// validateIssues splits engine output into issues whose spans lie within text
// and on rune boundaries, and the rest. Only valid issues are published.
func validateIssues(logger *slog.Logger, issues []core.Issue, text string) (valid, invalid []core.Issue) {
	onBoundary := func(i int) bool {
		return i == len(text) || utf8.RuneStart(text[i])
	}

	for _, issue := range issues {
		s := issue.Span
		if s.Start < 0 || s.End > len(text) || s.Start > s.End {
			logger.Warn("dropping issue outside its chunk",
				"kind", issue.Kind,
				"start", s.Start,
				"end", s.End,
				"chunk_length", len(text),
			)
			invalid = append(invalid, issue)
			continue
		}
		if !onBoundary(s.Start) || !onBoundary(s.End) {
			logger.Warn("dropping issue that splits a character",
				"kind", issue.Kind,
				"start", s.Start,
				"end", s.End,
			)
			invalid = append(invalid, issue)
			continue
		}
		valid = append(valid, issue)
	}
	return valid, invalid
}
