// Package core defines the essential interfaces and data structures shared by
// the analysis pipeline. The engines behind these interfaces are external to
// the orchestration logic, so the orchestrator can be driven by real engines in
// production and by mocks in tests.
package core

import (
	"context"
)

//go:generate mockgen -destination=../../mocks/mock_engines.go -package=mocks github.com/sevigo/text-warden/internal/core Linter,Counter,Confirmer

// Linter defines the contract for a grammar and spelling engine.
type Linter interface {
	// Configure switches the engine to another dialect. Subsequent calls to
	// Lint use the new dialect.
	Configure(ctx context.Context, dialect Dialect) error

	// Lint inspects text and returns the issues it found. Issue spans are
	// byte offsets relative to the start of text, never to a larger document.
	Lint(ctx context.Context, text string) ([]Issue, error)
}

// Counter computes statistics for a text. It is synchronous and cheap compared
// to linting, so it runs on the caller's goroutine.
type Counter interface {
	Count(text string) Counts
}

// Confirmer asks the user whether an expensive operation should continue.
type Confirmer interface {
	// Confirm returns true when the user accepts. A cancelled context counts as
	// a decline.
	Confirm(ctx context.Context, message string) bool
}

// ConfirmFunc adapts a plain function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, message string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool {
	return f(ctx, message)
}

// StaticConfirmer always answers with the same value. It is used for
// non-interactive callers such as the HTTP API or `analyze --yes`.
type StaticConfirmer bool

// Confirm returns the static answer.
func (s StaticConfirmer) Confirm(_ context.Context, _ string) bool {
	return bool(s)
}

type confirmationKey struct{}

// WithConfirmation returns a context that carries a pre-made answer for
// ContextConfirmer.
func WithConfirmation(ctx context.Context, accept bool) context.Context {
	return context.WithValue(ctx, confirmationKey{}, accept)
}

// ContextConfirmer answers with the value stored by WithConfirmation, or with
// fallback when the context carries none.
func ContextConfirmer(fallback bool) Confirmer {
	return ConfirmFunc(func(ctx context.Context, _ string) bool {
		if ctx.Err() != nil {
			return false
		}
		if accept, ok := ctx.Value(confirmationKey{}).(bool); ok {
			return accept
		}
		return fallback
	})
}
