package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/chunk"
	"github.com/sevigo/text-warden/internal/core"
	"github.com/sevigo/text-warden/internal/lint"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
	formatYAML  format = "yaml"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(s)); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q, expected table, json or yaml", s)
	}
}

// located is an issue with a human readable position.
type located struct {
	core.Issue `yaml:",inline"`
	Line       int `json:"line" yaml:"line"`
	Column     int `json:"column" yaml:"column"`
}

type report struct {
	Source  string        `json:"source" yaml:"source"`
	Locale  string        `json:"locale" yaml:"locale"`
	Region  string        `json:"region" yaml:"region"`
	Counts  core.Counts   `json:"counts" yaml:"counts"`
	Chunks  []chunk.Chunk `json:"chunks" yaml:"chunks"`
	Issues  []located     `json:"issues" yaml:"issues"`
	Linting bool          `json:"linting" yaml:"linting"`
}

func newReport(source, text string, counts core.Counts, layout []chunk.Chunk, results []analysis.ChunkResult, opts analysis.Options) report {
	rep := report{
		Source:  source,
		Locale:  opts.Locale,
		Region:  opts.Region,
		Counts:  counts,
		Chunks:  []chunk.Chunk{},
		Issues:  []located{},
		Linting: opts.EnableLinting && lint.SupportsLinting(opts.Locale),
	}

	byKey := make(map[chunk.Key]analysis.ChunkResult, len(results))
	for _, r := range results {
		if !r.Discarded {
			byKey[r.Key] = r
		}
	}
	for _, c := range layout {
		r, ok := byKey[c.Key]
		if !ok {
			continue
		}
		rep.Chunks = append(rep.Chunks, c)
		for _, issue := range r.Absolute() {
			line, col := position(text, issue.Span.Start)
			rep.Issues = append(rep.Issues, located{Issue: issue, Line: line, Column: col})
		}
	}
	slices.SortStableFunc(rep.Issues, func(a, b located) int { return cmp.Compare(a.Span.Start, b.Span.Start) })
	return rep
}

// position converts a byte offset into a 1-based line and rune column.
func position(text string, offset int) (line, col int) {
	offset = min(max(offset, 0), len(text))
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return line, utf8.RuneCountInString(before) + 1
}

func (r report) render(w io.Writer, f format) error {
	switch f {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(r); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return r.renderTable(w)
	}
}

func (r report) renderTable(w io.Writer) error {
	titleColor.Fprintf(w, "Statistics for %s\n", r.Source)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	rows := []struct {
		label string
		value int
	}{
		{"Characters", r.Counts.Characters},
		{"Words", r.Counts.Words},
		{"Sentences", r.Counts.Sentences},
		{"Paragraphs", r.Counts.Paragraphs},
		{"Lines", r.Counts.Lines},
		{"Spaces", r.Counts.Spaces},
		{"Letters", r.Counts.Letters},
		{"Digits", r.Counts.Digits},
		{"Punctuation", r.Counts.Punctuation},
		{"Symbols", r.Counts.Symbols},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "  %s\t%d\n", row.label, row.value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if !r.Linting {
		dimColor.Fprintln(w, "Linting is disabled.")
		return nil
	}

	titleColor.Fprintf(w, "Issues (%s, region %s)\n", r.Locale, r.Region)
	if len(r.Issues) == 0 {
		successColor.Fprintln(w, "  No issues found.")
		return nil
	}

	tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  POSITION\tKIND\tMESSAGE\tSUGGESTIONS")
	for _, issue := range r.Issues {
		fmt.Fprintf(tw, "  %d:%d\t%s\t%s\t%s\n",
			issue.Line, issue.Column,
			issue.Kind,
			issue.Message,
			strings.Join(issue.Suggestions, ", "),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	boldColor.Fprintf(w, "\n%d issue(s) in %d chunk(s)\n", len(r.Issues), len(r.Chunks))
	return nil
}
