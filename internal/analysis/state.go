package analysis

import (
	"maps"
	"sync"

	"github.com/sevigo/text-warden/internal/chunk"
	"github.com/sevigo/text-warden/internal/core"
)

// ChunkResult is the lint output for one chunk. Issue spans are relative to
// Start.
type ChunkResult struct {
	Key    chunk.Key    `json:"key" yaml:"key"`
	Start  int          `json:"start" yaml:"start"`
	Issues []core.Issue `json:"issues" yaml:"issues"`

	// Discarded is set when the result arrived after linting was disabled or
	// the chunk no longer exists, and was therefore not published.
	Discarded bool `json:"-" yaml:"-"`
}

// Absolute returns the issues with spans relative to the whole document.
func (r ChunkResult) Absolute() []core.Issue {
	out := make([]core.Issue, len(r.Issues))
	for i, issue := range r.Issues {
		issue.Span = issue.Span.Shift(r.Start)
		out[i] = issue
	}
	return out
}

// Input is the text most recently handed to the orchestrator.
type Input struct {
	Text    string
	Visible chunk.Range
}

// EventKind tells subscribers which part of the state changed.
type EventKind string

const (
	EventCounts       EventKind = "counts"
	EventCountsClear  EventKind = "counts_cleared"
	EventChunk        EventKind = "chunk"
	EventChunkCleared EventKind = "chunk_cleared"
)

// Event describes a single change. Counts is set for EventCounts, Chunk for
// EventChunk and Key for both chunk kinds.
type Event struct {
	Kind   EventKind    `json:"kind"`
	Key    chunk.Key    `json:"key,omitempty"`
	Counts *core.Counts `json:"counts,omitempty"`
	Chunk  *ChunkResult `json:"chunk,omitempty"`
}

// Snapshot is a copy of the published state.
type Snapshot struct {
	Counts *core.Counts              `json:"counts" yaml:"counts"`
	Chunks map[chunk.Key]ChunkResult `json:"chunks" yaml:"chunks"`
}

// State holds the published analysis output. Readers may call any method at
// any time; only the orchestrator writes. Updates to different keys are not
// atomic with respect to each other.
type State struct {
	mu     sync.RWMutex
	input  Input
	counts *core.Counts
	chunks map[chunk.Key]ChunkResult

	subs   map[int]chan Event
	nextID int
}

// NewState creates an empty state container.
func NewState() *State {
	return &State{
		chunks: make(map[chunk.Key]ChunkResult),
		subs:   make(map[int]chan Event),
	}
}

// Counts returns the published counts, if any.
func (s *State) Counts() (core.Counts, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.counts == nil {
		return core.Counts{}, false
	}
	return *s.counts, true
}

// Chunk returns the published result for key, if any.
func (s *State) Chunk(key chunk.Key) (ChunkResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.chunks[key]
	return r, ok
}

// Input returns the text most recently analyzed.
func (s *State) Input() Input {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// Snapshot returns a copy of counts and chunk results.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Chunks: maps.Clone(s.chunks)}
	if s.counts != nil {
		c := *s.counts
		snap.Counts = &c
	}
	return snap
}

// Subscribe returns a channel receiving every subsequent change and a
// function that ends the subscription. Events are dropped for subscribers
// whose buffer is full.
func (s *State) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, max(buffer, 1))

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *State) setInput(in Input) {
	s.mu.Lock()
	s.input = in
	s.mu.Unlock()
}

func (s *State) publishCounts(c core.Counts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = &c
	s.broadcastLocked(Event{Kind: EventCounts, Counts: &c})
}

func (s *State) clearCounts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		return
	}
	s.counts = nil
	s.broadcastLocked(Event{Kind: EventCountsClear})
}

func (s *State) publishChunk(r ChunkResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[r.Key] = r
	s.broadcastLocked(Event{Kind: EventChunk, Key: r.Key, Chunk: &r})
}

func (s *State) clearChunk(key chunk.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearChunkLocked(key)
}

func (s *State) clearChunks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range chunk.Keys {
		s.clearChunkLocked(key)
	}
}

func (s *State) clearChunkLocked(key chunk.Key) {
	if _, ok := s.chunks[key]; !ok {
		return
	}
	delete(s.chunks, key)
	s.broadcastLocked(Event{Kind: EventChunkCleared, Key: key})
}

func (s *State) broadcastLocked(e Event) {
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
