package analysis

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/text-warden/internal/core"
)

func TestValidateIssues(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	text := "naïve text" // ï is two bytes at offsets 2 and 3

	tests := []struct {
		name        string
		spans       []core.Span
		wantValid   int
		wantInvalid int
	}{
		{
			name:      "All valid",
			spans:     []core.Span{{Start: 0, End: 6}, {Start: 7, End: 11}},
			wantValid: 2,
		},
		{
			name:      "Empty span at end",
			spans:     []core.Span{{Start: 11, End: 11}},
			wantValid: 1,
		},
		{
			name:        "Past the end",
			spans:       []core.Span{{Start: 7, End: 12}},
			wantInvalid: 1,
		},
		{
			name:        "Negative start",
			spans:       []core.Span{{Start: -1, End: 2}},
			wantInvalid: 1,
		},
		{
			name:        "Reversed",
			spans:       []core.Span{{Start: 5, End: 4}},
			wantInvalid: 1,
		},
		{
			name:        "Inside a multi-byte character",
			spans:       []core.Span{{Start: 3, End: 6}, {Start: 0, End: 2}},
			wantValid:   1,
			wantInvalid: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := make([]core.Issue, len(tt.spans))
			for i, s := range tt.spans {
				issues[i] = core.Issue{Kind: core.IssueSpelling, Span: s}
			}

			valid, invalid := validateIssues(logger, issues, text)
			assert.Len(t, valid, tt.wantValid)
			assert.Len(t, invalid, tt.wantInvalid)
		})
	}
}
