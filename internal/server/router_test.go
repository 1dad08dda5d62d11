package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/sevigo/text-warden/internal/analysis"
	"github.com/sevigo/text-warden/internal/chunk"
	"github.com/sevigo/text-warden/internal/core"
	"github.com/sevigo/text-warden/internal/counter"
	"github.com/sevigo/text-warden/internal/lint"
)

func newTestRouter(t *testing.T) (http.Handler, *analysis.Orchestrator) {
	t.Helper()
	engine, err := lint.NewEngine(core.DialectAmerican, nil)
	require.NoError(t, err)

	orch := analysis.NewOrchestrator(analysis.Options{
		WarnOnLargeInput: true,
		EnableLinting:    true,
		MaxCharacters:    50,
		MinChunkSize:     chunk.DefaultMinSize,
		Locale:           "en",
		Region:           lint.RegionAuto,
	}, engine, counter.New(language.English), core.ContextConfirmer(false), analysis.NewState(), nil)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	return NewRouter(orch, nil), orch
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type analyzeBody struct {
	Scheduled []chunk.Key  `json:"scheduled"`
	Counts    *core.Counts `json:"counts"`
	Issues    []core.Issue `json:"issues"`
	Errors    []string     `json:"errors"`
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestAnalyze_Wait(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/analysis?wait=true", `{"text":"I saw the the cat."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[analyzeBody](t, rec)
	assert.Equal(t, []chunk.Key{chunk.Visible}, body.Scheduled)
	require.NotNil(t, body.Counts)
	assert.Equal(t, 5, body.Counts.Words)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, core.IssueRepetition, body.Issues[0].Kind)
	assert.Equal(t, core.Span{Start: 6, End: 13}, body.Issues[0].Span)
	assert.Empty(t, body.Errors)
}

func TestAnalyze_Async(t *testing.T) {
	h, orch := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/analysis", `{"text":"She ate a apple.","visible":{"start":0,"end":5}}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		_, ok := orch.State().Chunk(chunk.Visible)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	rec = do(t, h, http.MethodGet, "/api/v1/analysis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeBody[analysis.Snapshot](t, rec)
	require.NotNil(t, snap.Counts)
	require.Contains(t, snap.Chunks, chunk.Visible)
	assert.Equal(t, core.IssueArticle, snap.Chunks[chunk.Visible].Issues[0].Kind)
}

// offsetDocument puts "I saw the the cat." after a leading chunk of 1200
// bytes, so the repetition is reported at [1206, 1213).
func offsetDocument(t *testing.T) string {
	t.Helper()
	text := strings.Repeat("a", 1199) + " I saw the the cat."
	body, err := json.Marshal(map[string]any{
		"text":    text,
		"visible": chunk.Range{Start: 1200, End: len(text)},
		"confirm": true,
	})
	require.NoError(t, err)
	return string(body)
}

type chunkBody struct {
	Key    chunk.Key    `json:"key"`
	Start  int          `json:"start"`
	Issues []core.Issue `json:"issues"`
}

func TestGet_AbsoluteSpans(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/analysis?wait=true", offsetDocument(t))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	posted := decodeBody[analyzeBody](t, rec)
	assert.Equal(t, []chunk.Key{chunk.Visible, chunk.Leading}, posted.Scheduled)

	rec = do(t, h, http.MethodGet, "/api/v1/analysis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeBody[struct {
		Chunks map[chunk.Key]chunkBody `json:"chunks"`
	}](t, rec)

	visible, ok := snap.Chunks[chunk.Visible]
	require.True(t, ok)
	assert.Equal(t, 1200, visible.Start)

	want := core.Span{Start: 1206, End: 1213}
	require.Len(t, visible.Issues, 1)
	assert.Equal(t, want, visible.Issues[0].Span)
	assert.Contains(t, posted.Issues, visible.Issues[0], "GET and POST report the same spans")
}

func TestAnalyze_LargeInput(t *testing.T) {
	h, _ := newTestRouter(t)
	text := strings.Repeat("word ", 12)

	rec := do(t, h, http.MethodPost, "/api/v1/analysis", `{"text":"`+text+`"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	body := decodeBody[analyzeBody](t, rec)
	assert.Empty(t, body.Scheduled)
	assert.Nil(t, body.Counts, "declined input is not counted")

	rec = do(t, h, http.MethodPost, "/api/v1/analysis?wait=1", `{"text":"`+text+`","confirm":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody[analyzeBody](t, rec)
	assert.Equal(t, []chunk.Key{chunk.Visible}, body.Scheduled)
	require.NotNil(t, body.Counts)
	assert.Equal(t, 12, body.Counts.Words)
}

func TestAnalyze_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/analysis", `{"txt":"typo"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/analysis?wait=maybe", `{"text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader("text"))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestUpdateOptions(t *testing.T) {
	h, orch := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/analysis?wait=true", `{"text":"It was an dog."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/options", `{"enable_linting":false,"warn_on_large_input":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enable_linting":false,"warn_on_large_input":false,"locale":"en","region":"auto"}`, rec.Body.String())
	assert.Empty(t, orch.State().Snapshot().Chunks)

	rec = do(t, h, http.MethodPut, "/api/v1/options", `{"enable_linting":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"scheduled":["visible"]`)
	require.Eventually(t, func() bool {
		_, ok := orch.State().Chunk(chunk.Visible)
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLintingRegion(t *testing.T) {
	h, orch := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/linting/regions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"regions":["auto","AU","CA","GB","IN","US"]`)

	rec = do(t, h, http.MethodPut, "/api/v1/linting/region", `{"region":"GB"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "GB", orch.Options().Region)

	rec = do(t, h, http.MethodPost, "/api/v1/analysis?wait=true", `{"text":"Color matters."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[analyzeBody](t, rec)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, []string{"Colour"}, body.Issues[0].Suggestions)

	rec = do(t, h, http.MethodPut, "/api/v1/linting/region", `{"region":"XX"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvents(t *testing.T) {
	h, _ := newTestRouter(t)
	ts := httptest.NewServer(h)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	nextEvent := func() string {
		for lines.Scan() {
			if name, ok := strings.CutPrefix(lines.Text(), "event: "); ok {
				return name
			}
		}
		return ""
	}

	require.Equal(t, "snapshot", nextEvent())

	post, err := ts.Client().Post(ts.URL+"/api/v1/analysis", "application/json",
		strings.NewReader(offsetDocument(t)))
	require.NoError(t, err)
	post.Body.Close()

	assert.Equal(t, string(analysis.EventCounts), nextEvent())
	require.Equal(t, string(analysis.EventChunk), nextEvent())

	require.True(t, lines.Scan())
	data, ok := strings.CutPrefix(lines.Text(), "data: ")
	require.True(t, ok, lines.Text())

	var event struct {
		Chunk *chunkBody `json:"chunk"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &event))
	require.NotNil(t, event.Chunk)
	assert.Equal(t, chunk.Visible, event.Chunk.Key)
	require.Len(t, event.Chunk.Issues, 1)
	assert.Equal(t, core.Span{Start: 1206, End: 1213}, event.Chunk.Issues[0].Span)
}
