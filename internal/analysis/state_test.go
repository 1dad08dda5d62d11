package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/text-warden/internal/chunk"
	"github.com/sevigo/text-warden/internal/core"
)

func TestState_PublishAndClear(t *testing.T) {
	s := NewState()
	_, ok := s.Counts()
	assert.False(t, ok)

	s.publishCounts(core.Counts{Words: 3})
	s.publishChunk(ChunkResult{Key: chunk.Visible, Start: 10})

	snap := s.Snapshot()
	require.NotNil(t, snap.Counts)
	assert.Equal(t, 3, snap.Counts.Words)
	assert.Contains(t, snap.Chunks, chunk.Visible)

	// The snapshot is a copy.
	snap.Counts.Words = 99
	delete(snap.Chunks, chunk.Visible)
	c, _ := s.Counts()
	assert.Equal(t, 3, c.Words)
	_, ok = s.Chunk(chunk.Visible)
	assert.True(t, ok)

	s.clearChunks()
	s.clearCounts()
	snap = s.Snapshot()
	assert.Nil(t, snap.Counts)
	assert.Empty(t, snap.Chunks)
}

func TestState_Subscribe(t *testing.T) {
	s := NewState()
	events, cancel := s.Subscribe(8)

	s.publishCounts(core.Counts{Characters: 1})
	s.publishChunk(ChunkResult{Key: chunk.Trailing})
	s.clearChunk(chunk.Leading) // absent, no event
	s.clearChunk(chunk.Trailing)
	s.clearCounts()
	s.clearCounts() // already clear

	var kinds []EventKind
	for range 4 {
		kinds = append(kinds, (<-events).Kind)
	}
	assert.Equal(t, []EventKind{EventCounts, EventChunk, EventChunkCleared, EventCountsClear}, kinds)

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)

	// Publishing after cancel must not panic.
	s.publishCounts(core.Counts{})
}

func TestState_SlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewState()
	events, cancel := s.Subscribe(1)
	defer cancel()

	for i := range 5 {
		s.publishCounts(core.Counts{Words: i})
	}
	e := <-events
	assert.Equal(t, 0, e.Counts.Words)
}

func TestChunkResult_Absolute(t *testing.T) {
	r := ChunkResult{
		Start:  100,
		Issues: []core.Issue{{Kind: core.IssueSpacing, Span: core.Span{Start: 2, End: 4}}},
	}
	abs := r.Absolute()
	assert.Equal(t, core.Span{Start: 102, End: 104}, abs[0].Span)
	assert.Equal(t, core.Span{Start: 2, End: 4}, r.Issues[0].Span)
}
