package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

const sampleRequests = `[
  {
    "id": "sales",
    "width": 320,
    "height": 200,
    "axis": {"labels": ["Jan","Feb","Mar","Apr","May","Jun","Jul","Aug","Sep","Oct","Nov","Dec"]},
    "legend": {"categories": ["North","South","East","West"], "dock": "bottom"}
  },
  {
    "id": "share",
    "radial": {"slices": [
      {"id": "a", "start_angle": 0, "end_angle": 4, "inner_radius": 60, "outer_radius": 100, "primary": "Direct"},
      {"id": "b", "start_angle": 4, "end_angle": 6.28, "inner_radius": 60, "outer_radius": 100, "primary": "Referral"}
    ]}
  }
]`

// newTestCLI returns a CLI reading a config that disables caching.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, LogInfo)
	c.ConfigPath = cfg
	return c
}

func writeRequests(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "charts.json")
	if err := os.WriteFile(path, []byte(sampleRequests), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readResults(t *testing.T, path string) []pipeline.Result {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var results []pipeline.Result
	if err := json.Unmarshal(data, &results); err == nil {
		return results
	}
	var one pipeline.Result
	if err := json.Unmarshal(data, &one); err != nil {
		t.Fatalf("output is not a result: %v", err)
	}
	return []pipeline.Result{one}
}

func TestRunPlan(t *testing.T) {
	c := newTestCLI(t)
	in := writeRequests(t)

	if err := c.runPlan(context.Background(), in, planOptions{}); err != nil {
		t.Fatalf("runPlan() error: %v", err)
	}

	results := readResults(t, defaultOutputPath(in))
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].ID != "sales" || results[0].Axis == nil || results[0].Legend == nil {
		t.Errorf("cartesian result = %+v", results[0])
	}
	if results[0].Reservation.Bottom <= results[0].Legend.Reservation.Bottom {
		t.Errorf("reservation %+v does not include the axis margin", results[0].Reservation)
	}
	if results[1].Kind != pipeline.KindRadial || results[1].Radial == nil || len(results[1].Radial.Labels) != 2 {
		t.Errorf("radial result = %+v", results[1])
	}
}

func TestRunPlanSingleChart(t *testing.T) {
	c := newTestCLI(t)
	in := writeRequests(t)
	out := filepath.Join(t.TempDir(), "share.json")

	if err := c.runPlan(context.Background(), in, planOptions{output: out, chart: "share"}); err != nil {
		t.Fatalf("runPlan() error: %v", err)
	}
	results := readResults(t, out)
	if len(results) != 1 || results[0].ID != "share" {
		t.Errorf("results = %+v, want only share", results)
	}
}

func TestRunPlanPreviews(t *testing.T) {
	c := newTestCLI(t)
	in := writeRequests(t)
	dir := filepath.Join(t.TempDir(), "previews")

	if err := c.runPlan(context.Background(), in, planOptions{svgDir: dir, guides: true}); err != nil {
		t.Fatalf("runPlan() error: %v", err)
	}
	for _, name := range []string{"sales.svg", "share.svg"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("preview %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "<svg") || !strings.Contains(string(data), `class="plot"`) {
			t.Errorf("%s is not a guided SVG preview", name)
		}
	}
}

func TestRunPlanErrors(t *testing.T) {
	c := newTestCLI(t)
	in := writeRequests(t)

	if err := c.runPlan(context.Background(), filepath.Join(t.TempDir(), "missing.json"), planOptions{}); err == nil {
		t.Error("runPlan(missing) error = nil")
	}
	if err := c.runPlan(context.Background(), in, planOptions{chart: "nope"}); err == nil {
		t.Error("runPlan(--chart nope) error = nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.runPlan(ctx, in, planOptions{output: filepath.Join(t.TempDir(), "out.json")}); err == nil {
		t.Error("runPlan(cancelled) error = nil")
	}
}

func TestSelectCharts(t *testing.T) {
	reqs := []pipeline.Request{{ID: "a"}, {ID: "b"}}

	got, err := selectCharts(reqs, planOptions{})
	if err != nil || len(got) != 2 {
		t.Errorf("selectCharts() = %v, %v; want all charts", got, err)
	}
	got, err = selectCharts(reqs, planOptions{chart: "b"})
	if err != nil || len(got) != 1 || got[0].ID != "b" {
		t.Errorf("selectCharts(b) = %v, %v", got, err)
	}
	got, err = selectCharts(reqs[:1], planOptions{pick: true})
	if err != nil || len(got) != 1 {
		t.Errorf("selectCharts(pick, one chart) = %v, %v; want no prompt", got, err)
	}
}

func TestLayoutOnce(t *testing.T) {
	c := newTestCLI(t)

	res, err := c.layoutOnce(pipeline.Request{
		Width:  200,
		Legend: &pipeline.LegendRequest{Categories: []string{"North America", "South America", "Europe", "Asia"}, Dock: "bottom"},
	})
	if err != nil {
		t.Fatalf("layoutOnce() error: %v", err)
	}
	if res.Legend == nil || len(res.Legend.Layout.Rows) < 2 {
		t.Errorf("legend = %+v, want wrapped rows at 200px", res.Legend)
	}

	if _, err := c.layoutOnce(pipeline.Request{Kind: "gauge"}); err == nil {
		t.Error("layoutOnce(gauge) error = nil")
	}
}

func TestCacheDir(t *testing.T) {
	if got, _ := cacheDir("/tmp/layouts"); got != "/tmp/layouts" {
		t.Errorf("cacheDir(configured) = %q", got)
	}
	dir, err := cacheDir("")
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}
	if filepath.Base(dir) != "chartlayout" {
		t.Errorf("cacheDir() = %q, should end with chartlayout", dir)
	}
}
