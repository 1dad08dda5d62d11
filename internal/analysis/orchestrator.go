// Package analysis turns text changes into counts and chunked lint jobs and
// publishes their results.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sevigo/text-warden/internal/chunk"
	"github.com/sevigo/text-warden/internal/core"
	"github.com/sevigo/text-warden/internal/jobs"
	"github.com/sevigo/text-warden/internal/lint"
)

// DefaultMaxCharacters is the input size at which the user is asked before
// the text is analyzed.
const DefaultMaxCharacters = 100_000

var ErrLintingUnsupported = errors.New("linting is not supported for this locale")

// Options are the user preferences the orchestrator reads.
type Options struct {
	WarnOnLargeInput bool
	EnableLinting    bool
	MaxCharacters    int
	MinChunkSize     int
	Locale           string
	Region           string
	PreferredLocales []string
}

// request is the argument of a lint job.
type request struct {
	Key   chunk.Key
	Start int
	Text  string
}

// Scheduled is a lint job created for one chunk.
type Scheduled struct {
	Key    chunk.Key
	Future *jobs.Future[ChunkResult]
}

// Submission lists the jobs scheduled by a single call in submission order.
// It is empty when nothing was scheduled.
type Submission []Scheduled

// Keys returns the chunk keys in submission order.
func (s Submission) Keys() []chunk.Key {
	keys := make([]chunk.Key, len(s))
	for i, sc := range s {
		keys[i] = sc.Key
	}
	return keys
}

// Wait blocks until every job has finished and returns the results of the
// successful ones. Failures are joined into the returned error.
func (s Submission) Wait(ctx context.Context) ([]ChunkResult, error) {
	var (
		results []ChunkResult
		errs    []error
	)
	for _, sc := range s {
		r, err := sc.Future.Wait(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s chunk: %w", sc.Key, err))
			continue
		}
		results = append(results, r)
	}
	return results, errors.Join(errs...)
}

// Orchestrator counts text synchronously and lints it in up to three chunks
// on a single serialized job runner, visible chunk first.
type Orchestrator struct {
	linter    core.Linter
	counter   core.Counter
	confirmer core.Confirmer
	state     *State
	runner    *jobs.Runner[request, ChunkResult]
	logger    *slog.Logger

	// mu guards opts and layout. Lint jobs hold it for reading while they
	// publish, so disabling linting and clearing chunks is atomic with
	// respect to publication.
	mu       sync.RWMutex
	opts     Options
	layout   map[chunk.Key]bool
	localeOK bool
}

// NewOrchestrator creates an orchestrator. Start must be called before lint
// jobs are executed.
func NewOrchestrator(opts Options, linter core.Linter, counter core.Counter, confirmer core.Confirmer, state *State, logger *slog.Logger) *Orchestrator {
	if opts.MaxCharacters <= 0 {
		opts.MaxCharacters = DefaultMaxCharacters
	}
	if opts.MinChunkSize <= 0 {
		opts.MinChunkSize = chunk.DefaultMinSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	o := &Orchestrator{
		linter:    linter,
		counter:   counter,
		confirmer: confirmer,
		state:     state,
		logger:    logger,
		opts:      opts,
		layout:    make(map[chunk.Key]bool),
		localeOK:  lint.SupportsLinting(opts.Locale),
	}
	o.runner = jobs.NewRunner(o.lintChunk, logger.With("component", "lint_runner"))
	return o
}

// Start launches the lint job runner.
func (o *Orchestrator) Start(ctx context.Context) {
	o.runner.Start(ctx)
}

// Stop waits for the running lint job and drops the pending ones.
func (o *Orchestrator) Stop() {
	o.runner.Stop()
}

// State returns the container results are published to.
func (o *Orchestrator) State() *State {
	return o.state
}

// Options returns the current preferences.
func (o *Orchestrator) Options() Options {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.opts
}

// OnTextChanged analyzes a new version of the text. Counts are published
// before it returns; lint results are published as their jobs finish.
func (o *Orchestrator) OnTextChanged(ctx context.Context, text string, visible chunk.Range) Submission {
	o.state.setInput(Input{Text: text, Visible: visible})

	if !o.continueAfterPrompt(ctx, text) {
		o.logger.Info("analysis of large input declined", "characters", utf8.RuneCountInString(text))
		o.state.clearCounts()
		o.clearChunks()
		return nil
	}

	o.count(text)
	return o.lintText(ctx, text, visible, true)
}

// ToggleLinting enables or disables linting. Disabling clears all published
// chunks; enabling lints the current input again.
func (o *Orchestrator) ToggleLinting(ctx context.Context, enabled bool) Submission {
	o.mu.Lock()
	o.opts.EnableLinting = enabled
	if !enabled {
		o.state.clearChunks()
	}
	o.mu.Unlock()

	o.logger.Info("linting toggled", "enabled", enabled)
	if !enabled {
		return nil
	}

	in := o.state.Input()
	return o.lintText(ctx, in.Text, in.Visible, false)
}

// SetWarnOnLargeInput sets whether large inputs need confirmation.
func (o *Orchestrator) SetWarnOnLargeInput(warn bool) {
	o.mu.Lock()
	o.opts.WarnOnLargeInput = warn
	o.mu.Unlock()
}

// UpdateLintingRegion switches the linter to the dialect of region and lints
// the current input again. An empty region is ignored.
func (o *Orchestrator) UpdateLintingRegion(ctx context.Context, region string) (Submission, error) {
	o.mu.RLock()
	locale, preferred, ok := o.opts.Locale, o.opts.PreferredLocales, o.localeOK
	o.mu.RUnlock()

	if region == "" {
		return nil, nil
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLintingUnsupported, locale)
	}

	dialect, err := lint.ResolveDialect(locale, region, preferred)
	if err != nil {
		return nil, err
	}
	if err := o.linter.Configure(ctx, dialect); err != nil {
		return nil, fmt.Errorf("failed to configure linter: %w", err)
	}

	o.mu.Lock()
	o.opts.Region = region
	o.mu.Unlock()
	o.logger.Info("linting region updated", "region", region, "dialect", dialect)

	in := o.state.Input()
	return o.lintText(ctx, in.Text, in.Visible, false), nil
}

// continueAfterPrompt asks the confirmer when large-input warnings are on and
// text has at least MaxCharacters characters.
func (o *Orchestrator) continueAfterPrompt(ctx context.Context, text string) bool {
	o.mu.RLock()
	warn, limit := o.opts.WarnOnLargeInput, o.opts.MaxCharacters
	o.mu.RUnlock()

	if !warn {
		return true
	}
	n := utf8.RuneCountInString(text)
	if n < limit {
		return true
	}
	return o.confirmer.Confirm(ctx, fmt.Sprintf(
		"The text has %d characters, which may take a while to analyze. Continue?", n))
}

func (o *Orchestrator) count(text string) {
	start := time.Now()
	counts := o.counter.Count(text)
	o.state.publishCounts(counts)
	o.logger.Debug("counted text", "elapsed", time.Since(start))
}

// lintText partitions text and schedules a job per chunk. When prompted is
// false the large-input confirmation is asked here.
func (o *Orchestrator) lintText(ctx context.Context, text string, visible chunk.Range, prompted bool) Submission {
	if !o.lintingEnabled() || (!prompted && !o.continueAfterPrompt(ctx, text)) {
		o.clearChunks()
		return nil
	}

	o.mu.RLock()
	minSize := o.opts.MinChunkSize
	o.mu.RUnlock()

	chunks := chunk.Split(text, visible, minSize)
	o.setLayout(chunks)

	sub := make(Submission, 0, len(chunks))
	for _, c := range chunk.SubmissionOrder(chunks) {
		req := request{Key: c.Key, Start: c.Start, Text: c.Text}
		sub = append(sub, Scheduled{
			Key:    c.Key,
			Future: o.runner.Submit(string(c.Key), req, jobs.PriorityLow),
		})
	}
	return sub
}

// lintChunk is the function bound to the job runner.
func (o *Orchestrator) lintChunk(ctx context.Context, req request) (ChunkResult, error) {
	result := ChunkResult{Key: req.Key, Start: req.Start}

	if !o.lintingEnabled() {
		o.logger.Debug("skipping chunk, linting disabled", "chunk", req.Key)
		result.Discarded = true
		return result, nil
	}

	start := time.Now()
	issues, err := o.linter.Lint(ctx, req.Text)
	if err != nil {
		return ChunkResult{}, fmt.Errorf("failed to lint %s chunk: %w", req.Key, err)
	}
	result.Issues, _ = validateIssues(o.logger, issues, req.Text)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.enabledLocked() || !o.layout[req.Key] {
		o.logger.Debug("discarding stale chunk result", "chunk", req.Key)
		result.Discarded = true
		return result, nil
	}
	o.state.publishChunk(result)

	o.logger.Debug("linted text chunk",
		"chunk", req.Key,
		"issues", len(result.Issues),
		"elapsed", time.Since(start),
	)
	return result, nil
}

// setLayout records which chunks exist for the latest text and clears the
// published results of the ones that were merged away.
func (o *Orchestrator) setLayout(chunks []chunk.Chunk) {
	o.mu.Lock()
	defer o.mu.Unlock()

	clear(o.layout)
	for _, c := range chunks {
		o.layout[c.Key] = true
	}
	for _, key := range chunk.Keys {
		if !o.layout[key] {
			o.state.clearChunk(key)
		}
	}
}

func (o *Orchestrator) clearChunks() {
	o.mu.Lock()
	clear(o.layout)
	o.state.clearChunks()
	o.mu.Unlock()
}

func (o *Orchestrator) lintingEnabled() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.enabledLocked()
}

func (o *Orchestrator) enabledLocked() bool {
	return o.localeOK && o.opts.EnableLinting
}
