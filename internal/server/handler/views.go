package handler

import (
	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/chunk"
	"github.com/sevigo/text-warden/internal/core"
)

// chunkView is a chunk result as served over HTTP. Issue spans are relative to
// the whole document.
type chunkView struct {
	Key    chunk.Key    `json:"key"`
	Start  int          `json:"start"`
	Issues []core.Issue `json:"issues"`
}

func newChunkView(r analysis.ChunkResult) chunkView {
	return chunkView{Key: r.Key, Start: r.Start, Issues: r.Absolute()}
}

type snapshotView struct {
	Counts *core.Counts            `json:"counts"`
	Chunks map[chunk.Key]chunkView `json:"chunks"`
}

func newSnapshotView(s analysis.Snapshot) snapshotView {
	view := snapshotView{Counts: s.Counts, Chunks: make(map[chunk.Key]chunkView, len(s.Chunks))}
	for key, r := range s.Chunks {
		view.Chunks[key] = newChunkView(r)
	}
	return view
}

type eventView struct {
	Kind   analysis.EventKind `json:"kind"`
	Key    chunk.Key          `json:"key,omitempty"`
	Counts *core.Counts       `json:"counts,omitempty"`
	Chunk  *chunkView         `json:"chunk,omitempty"`
}

func newEventView(e analysis.Event) eventView {
	view := eventView{Kind: e.Kind, Key: e.Key, Counts: e.Counts}
	if e.Chunk != nil {
		c := newChunkView(*e.Chunk)
		view.Chunk = &c
	}
	return view
}
