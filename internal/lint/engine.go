// Package lint implements a rule based grammar and spelling engine for
// English text, and the mapping from locales and regions to dialects.
package lint

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/sevigo/text-warden/internal/core"
)

var ErrUnsupportedDialect = errors.New("unsupported dialect")

// Engine implements core.Linter. It is safe for concurrent use; Configure
// takes effect for Lint calls that start after it returns.
type Engine struct {
	logger *slog.Logger

	mu       sync.RWMutex
	dialect  core.Dialect
	spelling *rule
	rules    []*rule
}

var _ core.Linter = (*Engine)(nil)

// NewEngine creates an engine for the given dialect.
func NewEngine(dialect core.Dialect, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		logger: logger,
		rules:  baseRules(),
	}
	if err := e.Configure(context.Background(), dialect); err != nil {
		return nil, err
	}
	return e, nil
}

// Dialect returns the dialect currently in use.
func (e *Engine) Dialect() core.Dialect {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dialect
}

// Configure switches the spelling rules to dialect.
func (e *Engine) Configure(ctx context.Context, dialect core.Dialect) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := core.ParseDialect(dialect.String()); err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedDialect, dialect)
	}

	spelling, err := newSpellingRule(dialect)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.dialect = dialect
	e.spelling = spelling
	e.mu.Unlock()

	e.logger.Debug("linter configured", "dialect", dialect)
	return nil
}

// Lint returns the issues found in text ordered by position. Spans are byte
// offsets into text.
func (e *Engine) Lint(ctx context.Context, text string) ([]core.Issue, error) {
	e.mu.RLock()
	rules := append(slices.Clip(e.rules), e.spelling)
	e.mu.RUnlock()

	start := time.Now()
	offsets := runeOffsets(text)

	var issues []core.Issue
	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := r.apply(text, offsets)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}

	slices.SortStableFunc(issues, func(a, b core.Issue) int {
		return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
	})

	e.logger.Debug("linted text", "bytes", len(text), "issues", len(issues), "elapsed", time.Since(start))
	return issues, nil
}

// runeOffsets returns the byte offset of every rune in text followed by
// len(text).
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
