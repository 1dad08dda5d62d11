// Package chunk splits a document into up to three contiguous regions around
// the part the user is currently looking at.
package chunk

import (
	"slices"
	"unicode/utf8"
)

// Key names a region of the document.
type Key string

const (
	Leading  Key = "leading"
	Visible  Key = "visible"
	Trailing Key = "trailing"
)

// Keys lists the regions in document order.
var Keys = [...]Key{Leading, Visible, Trailing}

// Absent marks a region that was merged into the visible one.
const Absent = -1

// DefaultMinSize is the smallest edge region that gets a chunk of its own.
const DefaultMinSize = 1000

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Clamp limits r to [0, docLen] and orders its bounds.
func (r Range) Clamp(docLen int) Range {
	clamp := func(v int) int { return max(0, min(v, docLen)) }
	start, end := clamp(r.Start), clamp(r.End)
	if start > end {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Starts holds the start offsets of the regions in document order. A region
// whose start is Absent has no chunk.
type Starts [len(Keys)]int

// Partition computes the region starts for a document of docLen bytes.
//
// The leading region covers [0, visible.Start) and the trailing region covers
// [visible.End, docLen). An edge region shorter than minSize is dropped and
// its bytes belong to the visible region instead.
func Partition(docLen int, visible Range, minSize int) Starts {
	v := visible.Clamp(docLen)

	starts := Starts{0, v.Start, v.End}
	if v.Start < minSize {
		starts[0] = Absent
		starts[1] = 0
	}
	if docLen-v.End < minSize {
		starts[2] = Absent
	}
	return starts
}

// Chunk is one region of a document.
type Chunk struct {
	Key   Key    `json:"key" yaml:"key"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"-" yaml:"-"`
}

// Split partitions text and returns the present chunks in document order. The
// chunks tile text without gaps. Boundaries that fall inside a UTF-8 sequence
// are moved back to the start of that rune.
func Split(text string, visible Range, minSize int) []Chunk {
	v := visible.Clamp(len(text))
	v = Range{Start: runeStart(text, v.Start), End: runeStart(text, v.End)}
	starts := Partition(len(text), v, minSize)

	chunks := make([]Chunk, 0, len(Keys))
	for i, start := range starts {
		if start == Absent {
			continue
		}
		end := len(text)
		for _, next := range starts[i+1:] {
			if next != Absent {
				end = next
				break
			}
		}
		chunks = append(chunks, Chunk{
			Key:   Keys[i],
			Start: start,
			End:   end,
			Text:  text[start:end],
		})
	}
	return chunks
}

// submissionRank is the document order rotated left by one.
var submissionRank = map[Key]int{Visible: 0, Trailing: 1, Leading: 2}

// SubmissionOrder returns chunks ordered visible, trailing, leading. Absent
// regions keep their slot in the rotation, so a document without a leading
// region is still serviced visible first.
func SubmissionOrder(chunks []Chunk) []Chunk {
	out := append([]Chunk(nil), chunks...)
	slices.SortStableFunc(out, func(a, b Chunk) int {
		return submissionRank[a.Key] - submissionRank[b.Key]
	})
	return out
}

func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
