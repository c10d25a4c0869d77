package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ayushprasai11/Valorant/internal/extract"
	"github.com/Ayushprasai11/Valorant/internal/model"
	"github.com/Ayushprasai11/Valorant/internal/store"
)

// fakeRunner records the targets of each run.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]model.Target
	err     error
	delay   time.Duration
	active  atomic.Int32
	overlap atomic.Bool
}

func (f *fakeRunner) Run(_ context.Context, targets []model.Target) (*model.RunReport, error) {
	if f.active.Add(1) > 1 {
		f.overlap.Store(true)
	}
	defer f.active.Add(-1)
	time.Sleep(f.delay)

	f.mu.Lock()
	f.calls = append(f.calls, targets)
	f.mu.Unlock()

	report := &model.RunReport{Records: []model.Record{{"Event": "x"}}}
	for _, t := range targets {
		report.Targets = append(report.Targets, model.TargetResult{Target: t, Status: model.TargetStatusSucceeded, Attempts: 1, Rows: 1})
	}
	return report, f.err
}

func newTestServer(t *testing.T, fr *fakeRunner) http.Handler {
	t.Helper()
	p := extract.Presets()
	reg, err := p.Registry()
	require.NoError(t, err)
	return buildRouter(&server{runner: fr, reg: reg, defaults: p.Targets}, []string{"*"})
}

func TestRouter_Health(t *testing.T) {
	h := newTestServer(t, &fakeRunner{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Specs(t *testing.T) {
	h := newTestServer(t, &fakeRunner{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/specs", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	spec, ok := body[extract.LiquipediaValorantStats]
	require.True(t, ok)
	assert.Equal(t, "div.table-responsive", spec["table_selector"])
}

func TestRouter_RunWithTargets(t *testing.T) {
	fr := &fakeRunner{}
	h := newTestServer(t, fr)

	body, _ := json.Marshal(runRequest{Targets: []model.Target{
		{URL: "https://example.com/a", Spec: "s", Label: "A"},
	}})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["records"])
	assert.Len(t, resp["targets"], 1)
	assert.NotContains(t, resp, "error")

	require.Len(t, fr.calls, 1)
	assert.Equal(t, "A", fr.calls[0][0].Label)
}

func TestRouter_RunDefaultsToSpecFileTargets(t *testing.T) {
	fr := &fakeRunner{}
	h := newTestServer(t, fr)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, fr.calls, 1)
	assert.Len(t, fr.calls[0], 4)
}

func TestRouter_RunBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", "{not json", "invalid request body"},
		{"missing url", `{"targets":[{"spec":"s","label":"x"}]}`, "every target needs url and spec"},
		{"missing spec", `{"targets":[{"url":"https://x","label":"x"}]}`, "every target needs url and spec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &fakeRunner{}
			h := newTestServer(t, fr)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader([]byte(tt.body))))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
			assert.Empty(t, fr.calls)
		})
	}
}

func TestRouter_RunNoTargetsAnywhere(t *testing.T) {
	reg := extract.NewRegistry()
	h := buildRouter(&server{runner: &fakeRunner{}, reg: reg}, []string{"*"})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", bytes.NewReader([]byte(`{"targets":[]}`))))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "targets are required")
}

func TestRouter_RunStoreFailure(t *testing.T) {
	fr := &fakeRunner{err: &store.WriteError{Driver: "mongo", Count: 1, Err: errors.New("not primary")}}
	h := newTestServer(t, fr)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "not primary")
	assert.EqualValues(t, 1, resp["records"])
}

func TestRouter_RunsAreSerialized(t *testing.T) {
	fr := &fakeRunner{delay: 20 * time.Millisecond}
	h := newTestServer(t, fr)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs", nil))
			assert.Equal(t, http.StatusOK, rr.Code)
		}()
	}
	wg.Wait()

	assert.False(t, fr.overlap.Load(), "runs must not overlap")
	assert.Len(t, fr.calls, 3)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestServer(t, &fakeRunner{})

	req := httptest.NewRequest(http.MethodOptions, "/runs", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
