package cli

import (
	"testing"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/axis"
	"github.com/matzehuels/chartlayout/pkg/layout/legend"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

func TestFormatReservation(t *testing.T) {
	tests := []struct {
		name string
		r    layout.Reservation
		want string
	}{
		{"none", layout.Reservation{}, "none"},
		{"top only", layout.Reservation{Top: 22.5}, "top 22.5"},
		{"ordered", layout.Reservation{Left: 4, Bottom: 12, Top: 1}, "top 1.0, bottom 12.0, left 4.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatReservation(tt.r); got != tt.want {
				t.Errorf("formatReservation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAxis(t *testing.T) {
	if got := formatAxis(nil); got != "—" {
		t.Errorf("formatAxis(nil) = %q", got)
	}
	a := &pipeline.AxisResult{
		Decision: axis.Decision{ShouldRotate: true, SkipInterval: 2},
		Rotation: -45,
		Labels:   make([]pipeline.AxisLabel, 6),
	}
	if got, want := formatAxis(a), "6 shown, every 2, -45°"; got != want {
		t.Errorf("formatAxis() = %q, want %q", got, want)
	}
}

func TestFormatLegend(t *testing.T) {
	l := &pipeline.LegendResult{Dock: legend.DockBottom, Layout: legend.Layout{Rows: make([]legend.Row, 2)}}
	if got, want := formatLegend(l), "bottom, 2 rows"; got != want {
		t.Errorf("formatLegend() = %q, want %q", got, want)
	}
}

func TestChartHelpers(t *testing.T) {
	tests := []struct {
		req   pipeline.Request
		label string
		kind  string
		size  string
	}{
		{pipeline.Request{ID: "sales", Width: 300, Height: 200}, "sales", pipeline.KindCartesian, "300×200"},
		{pipeline.Request{Radial: &pipeline.RadialRequest{}}, "#3", pipeline.KindRadial, "default"},
		{pipeline.Request{Kind: pipeline.KindRadial, Width: 100}, "#3", pipeline.KindRadial, "100×0"},
	}
	for _, tt := range tests {
		if got := chartLabel(tt.req, 2); got != tt.label {
			t.Errorf("chartLabel() = %q, want %q", got, tt.label)
		}
		if got := chartKind(tt.req); got != tt.kind {
			t.Errorf("chartKind() = %q, want %q", got, tt.kind)
		}
		if got := chartSize(tt.req); got != tt.size {
			t.Errorf("chartSize() = %q, want %q", got, tt.size)
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := map[string]string{
		"charts.json":        "charts.layout.json",
		"dir/sales.req.json": "dir/sales.req.layout.json",
		"noext":              "noext.layout.json",
	}
	for in, want := range tests {
		if got := defaultOutputPath(in); got != want {
			t.Errorf("defaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPortOf(t *testing.T) {
	for addr, want := range map[string]string{":8080": ":8080", "0.0.0.0:9000": ":9000", "": ""} {
		if got := portOf(addr); got != want {
			t.Errorf("portOf(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestPlanSummary(t *testing.T) {
	rotated := &pipeline.Result{
		ID: "sales",
		Axis: &pipeline.AxisResult{
			Decision: axis.Decision{ShouldRotate: true, SkipInterval: 2},
			Labels:   []pipeline.AxisLabel{{Text: "September", DisplayText: "Sept…", Truncated: true}, {Text: "May", DisplayText: "May"}},
		},
		Stats: pipeline.Stats{Cached: true},
	}
	donut := &pipeline.Result{
		ID: "share",
		Radial: &radial.Plan{
			Overlapping: true,
			Labels: []radial.Label{
				{Runs: []radial.TextRun{{Text: "Northw…", Truncated: true}, {Text: "19%"}}},
				{Runs: []radial.TextRun{{Text: "Other"}}},
			},
		},
		Legend: &pipeline.LegendResult{Layout: legend.Layout{Rows: []legend.Row{{Items: []legend.Item{{Category: "A very long region", Truncated: true}}}}}},
	}

	tests := []struct {
		name    string
		results []*pipeline.Result
		want    string
	}{
		{"empty", nil, "0 charts"},
		{"one plain", []*pipeline.Result{{ID: "a"}}, "1 chart"},
		{"axis", []*pipeline.Result{rotated}, "1 chart, 1 cached, 1 rotated axis, 1 thinned axis, 1 truncated label"},
		{"mixed", []*pipeline.Result{rotated, donut}, "2 charts, 1 cached, 1 rotated axis, 1 thinned axis, 3 truncated labels, 1 overlapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := planSummary(tt.results); got != tt.want {
				t.Errorf("planSummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		word string
		want string
	}{
		{1, "chart", "chart"},
		{2, "chart", "charts"},
		{0, "rotated axis", "rotated axes"},
		{1, "rotated axis", "rotated axis"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, tt.word); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.word, got, tt.want)
		}
	}
}
