package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/layout/legend"
	"github.com/matzehuels/chartlayout/pkg/observability"
)

func newTestRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	r := NewRunner(c, nil, log.New(io.Discard))
	r.Measurer = charWidth
	return r
}

func chartRequest(id string) Request {
	return Request{
		ID:     id,
		Width:  300,
		Height: 200,
		Axis:   &AxisRequest{Labels: months, FontSize: 10},
		Legend: &LegendRequest{Categories: []string{"North", "South"}, Dock: legend.DockTop},
	}
}

func TestRunnerExecute(t *testing.T) {
	r := newTestRunner(t, nil)
	res, err := r.Execute(context.Background(), chartRequest("sales"))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.ID != "sales" || res.Kind != KindCartesian {
		t.Errorf("Execute() = %q/%q, want sales/cartesian", res.ID, res.Kind)
	}
	if res.Stats.Cached {
		t.Error("first Execute() should not be cached")
	}
}

func TestRunnerExecuteInvalid(t *testing.T) {
	r := newTestRunner(t, nil)
	_, err := r.Execute(context.Background(), Request{Kind: "gauge"})
	if !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("Execute() error = %v, want INVALID_CHART", err)
	}
}

func TestRunnerExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestRunner(t, nil).Execute(ctx, chartRequest("")); err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRunnerCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(t, fc)
	ctx := context.Background()

	first, err := r.Execute(ctx, chartRequest("a"))
	if err != nil {
		t.Fatal(err)
	}
	// The id does not take part in the cache key.
	second, err := r.Execute(ctx, chartRequest("b"))
	if err != nil {
		t.Fatal(err)
	}

	if !second.Stats.Cached {
		t.Fatal("second Execute() should be served from cache")
	}
	if second.ID != "b" {
		t.Errorf("cached result ID = %q, want b", second.ID)
	}
	if second.PlotArea != first.PlotArea || second.Reservation != first.Reservation {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}

	refresh := chartRequest("c")
	refresh.Refresh = true
	third, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatal(err)
	}
	if third.Stats.Cached {
		t.Error("Refresh should bypass the cache")
	}

	other := chartRequest("a")
	other.Width = 320
	fourth, _ := r.Execute(ctx, other)
	if fourth.Stats.Cached {
		t.Error("a different viewport must not hit the cache")
	}

	r.Settings.Axis.Gap = 8
	fifth, _ := r.Execute(ctx, chartRequest("a"))
	if fifth.Stats.Cached {
		t.Error("changed settings must not hit the cache")
	}
}

func TestRunnerCacheFailureDoesNotFail(t *testing.T) {
	r := newTestRunner(t, failingCache{})
	res, err := r.Execute(context.Background(), chartRequest("x"))
	if err != nil {
		t.Fatalf("Execute() error = %v, want cache failures ignored", err)
	}
	if res.Stats.Cached {
		t.Error("failing cache cannot hit")
	}
}

func TestRunnerHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)

	fc, _ := cache.NewFileCache(t.TempDir())
	r := newTestRunner(t, fc)
	ctx := context.Background()
	for range 2 {
		if _, err := r.Execute(ctx, chartRequest("h")); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{
		"start cartesian 14", "miss cartesian", "set cartesian", "complete cartesian",
		"start cartesian 14", "hit cartesian", "complete cartesian",
	}
	if got := rec.list(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestExecuteBatch(t *testing.T) {
	r := newTestRunner(t, nil)
	r.Concurrency = 3

	var reqs []Request
	for i := range 10 {
		req := chartRequest(fmt.Sprintf("chart-%d", i))
		req.Width = 200 + float64(i)*10
		reqs = append(reqs, req)
	}

	results, err := r.ExecuteBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("ExecuteBatch() error: %v", err)
	}
	for i, res := range results {
		if res.ID != reqs[i].ID || res.Viewport.Width != reqs[i].Width {
			t.Errorf("result %d = %s/%v, want %s/%v", i, res.ID, res.Viewport.Width, reqs[i].ID, reqs[i].Width)
		}
	}
}

func TestExecuteBatchProgress(t *testing.T) {
	r := newTestRunner(t, nil)
	r.Concurrency = 4

	var (
		mu   sync.Mutex
		seen = map[int]bool{}
		ids  = map[string]bool{}
	)
	r.Progress = func(done, total int, res *Result) {
		mu.Lock()
		defer mu.Unlock()
		if total != 6 {
			t.Errorf("total = %d, want 6", total)
		}
		seen[done] = true
		ids[res.ID] = true
	}

	var reqs []Request
	for i := range 6 {
		reqs = append(reqs, chartRequest(fmt.Sprintf("chart-%d", i)))
	}
	if _, err := r.ExecuteBatch(context.Background(), reqs); err != nil {
		t.Fatalf("ExecuteBatch() error: %v", err)
	}
	for i := 1; i <= 6; i++ {
		if !seen[i] {
			t.Errorf("progress never reported %d done", i)
		}
	}
	if len(ids) != 6 {
		t.Errorf("progress saw %d charts, want 6", len(ids))
	}
}

func TestExecuteBatchError(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)

	reqs := []Request{chartRequest("ok"), {ID: "broken", Kind: "gauge"}}
	_, err := newTestRunner(t, nil).ExecuteBatch(context.Background(), reqs)
	if err == nil || !strings.Contains(err.Error(), "chart broken") {
		t.Errorf("ExecuteBatch() error = %v, want failure naming the chart", err)
	}
	if !errors.Is(err, errors.ErrCodeInvalidChart) {
		t.Errorf("ExecuteBatch() error code = %q, want INVALID_CHART", errors.GetCode(err))
	}
	if !rec.has("batch 2 failed") {
		t.Errorf("events = %v, want failed batch", rec.list())
	}
}

func TestDecodeRequests(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"object", `{"kind":"cartesian","axis":{"labels":["a","b"]}}`, 1, false},
		{"array", `[{"id":"a"},{"id":"b","kind":"radial","radial":{"slices":[]}}]`, 2, false},
		{"unknown field", `{"kind":"cartesian","axes":{}}`, 0, true},
		{"empty", "  ", 0, true},
		{"empty batch", `[]`, 0, true},
		{"not json", `kind: cartesian`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs, err := DecodeRequests(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeRequests() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(reqs) != tt.want {
				t.Errorf("len(DecodeRequests()) = %d, want %d", len(reqs), tt.want)
			}
		})
	}
}

func TestReadWriteFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "request.json")
	data, _ := json.Marshal([]Request{chartRequest("one"), chartRequest("two")})
	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatal(err)
	}

	reqs, err := ReadRequestFile(in)
	if err != nil {
		t.Fatalf("ReadRequestFile() error: %v", err)
	}
	results, err := newTestRunner(t, nil).ExecuteBatch(context.Background(), reqs)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "result.json")
	if err := WriteResultFile(out, results); err != nil {
		t.Fatalf("WriteResultFile() error: %v", err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []Result
	if err := json.Unmarshal(written, &decoded); err != nil {
		t.Fatalf("result file is not a JSON array: %v", err)
	}
	if len(decoded) != 2 || decoded[1].ID != "two" || decoded[1].Axis == nil {
		t.Errorf("decoded = %+v", decoded)
	}

	if _, err := ReadRequestFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadRequestFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeSingleResult(t *testing.T) {
	res, _ := newTestRunner(t, nil).Execute(context.Background(), chartRequest("solo"))
	var buf bytes.Buffer
	if err := EncodeResults(&buf, []*Result{res}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("single result should encode as an object, got %q", buf.String()[:1])
	}
	if !strings.Contains(buf.String(), `"should_rotate": false`) {
		t.Error("axis decision fields should be inlined")
	}
}

// =============================================================================
// Test helpers
// =============================================================================

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, cache.ErrUnavailable
}
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return cache.ErrUnavailable
}
func (failingCache) Delete(context.Context, string) error { return nil }
func (failingCache) Close() error                         { return nil }

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, fmt.Sprintf(format, args...))
}

func (h *recordingHooks) list() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}

func (h *recordingHooks) has(event string) bool {
	for _, e := range h.list() {
		if e == event {
			return true
		}
	}
	return false
}

func (h *recordingHooks) OnLayoutStart(_ context.Context, kind string, items int) {
	h.add("start %s %d", kind, items)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, kind string, _ time.Duration, _ error) {
	h.add("complete %s", kind)
}

func (h *recordingHooks) OnBatchComplete(_ context.Context, n int, _ time.Duration, err error) {
	if err != nil {
		h.add("batch %d failed", n)
		return
	}
	h.add("batch %d", n)
}

func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string)         { h.add("hit %s", keyType) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string)        { h.add("miss %s", keyType) }
func (h *recordingHooks) OnCacheSet(_ context.Context, keyType string, _ int)  { h.add("set %s", keyType) }

func TestExampleRequestFiles(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "examples", "requests", "*.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("no example requests")
	}

	r := newTestRunner(t, nil)
	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			reqs, err := ReadRequestFile(f)
			if err != nil {
				t.Fatalf("ReadRequestFile() error: %v", err)
			}
			results, err := r.ExecuteBatch(context.Background(), reqs)
			if err != nil {
				t.Fatalf("ExecuteBatch() error: %v", err)
			}
			for _, res := range results {
				if res.PlotArea.Width <= 0 || res.PlotArea.Height <= 0 {
					t.Errorf("%s: PlotArea = %+v, want positive size", res.ID, res.PlotArea)
				}
			}
		})
	}
}
