package pipeline

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/axis"
	"github.com/matzehuels/chartlayout/pkg/layout/legend"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// 0.6em per rune.
var charWidth = text.FixedAdvance{Ratio: 0.6}

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func validated(t *testing.T, req Request) Request {
	t.Helper()
	if err := req.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	return req
}

func TestGenerateLayoutCartesian(t *testing.T) {
	req := validated(t, Request{
		Kind:   KindCartesian,
		Width:  300,
		Height: 200,
		Axis:   &AxisRequest{Labels: months, FontSize: 10},
		Legend: &LegendRequest{Categories: []string{"North", "South"}, Dock: legend.DockTop},
	})
	res := GenerateLayout(charWidth, DefaultSettings(), req)

	// Legend: two 59px items in one 16.5px row, plus 6px padding.
	if res.Legend == nil || len(res.Legend.Layout.Rows) != 1 {
		t.Fatalf("Legend = %+v, want one row", res.Legend)
	}
	if want := (layout.Point{X: 91, Y: 0}); res.Legend.Origin != want {
		t.Errorf("Legend.Origin = %+v, want %+v", res.Legend.Origin, want)
	}

	// Axis: 25px spacing holds 18px labels with a 4px gap.
	if res.Axis.Decision != (axis.Decision{SkipInterval: 1}) {
		t.Errorf("Axis.Decision = %+v, want {false 1}", res.Axis.Decision)
	}
	if len(res.Axis.Labels) != 12 {
		t.Fatalf("len(Axis.Labels) = %d, want 12", len(res.Axis.Labels))
	}
	if first, last := res.Axis.Labels[0].X, res.Axis.Labels[11].X; first != 12.5 || last != 287.5 {
		t.Errorf("tick x = %v..%v, want 12.5..287.5", first, last)
	}
	if res.Axis.FontSize != 10 || res.Legend.Style.FontSize != DefaultSettings().Legend.FontSize {
		t.Errorf("font sizes = %v, %v", res.Axis.FontSize, res.Legend.Style.FontSize)
	}

	want := layout.Reservation{Top: 22.5, Bottom: 12}
	if res.Reservation != want {
		t.Errorf("Reservation = %+v, want %+v", res.Reservation, want)
	}
	if plot := (layout.Rect{X: 0, Y: 22.5, Width: 300, Height: 165.5}); res.PlotArea != plot {
		t.Errorf("PlotArea = %+v, want %+v", res.PlotArea, plot)
	}
	if res.Stats.Labels != 14 {
		t.Errorf("Stats.Labels = %d, want 14", res.Stats.Labels)
	}
}

func TestGenerateLayoutAxisUsesPlotWidth(t *testing.T) {
	categories := []string{"Enterprise customers", "Small business", "Consumers"}
	req := validated(t, Request{
		Width:  160,
		Height: 120,
		Axis:   &AxisRequest{Labels: months, FontSize: 10},
		Legend: &LegendRequest{Categories: categories, Dock: legend.DockRight},
	})
	s := DefaultSettings()
	res := GenerateLayout(charWidth, s, req)

	if res.Reservation.Right <= 0 || res.Reservation.Right > s.Legend.MaxSideFraction*160 {
		t.Errorf("Reservation.Right = %v, want within (0, %v]", res.Reservation.Right, s.Legend.MaxSideFraction*160)
	}
	plotWidth := 160 - res.Reservation.Right
	if res.PlotArea.Width != plotWidth {
		t.Errorf("PlotArea.Width = %v, want %v", res.PlotArea.Width, plotWidth)
	}
	wantDecision := axis.Plan(charWidth, months, plotWidth, 10, s.FontFamily, axis.ModeAuto, s.Axis)
	if res.Axis.Decision != wantDecision {
		t.Errorf("Axis.Decision = %+v, want %+v at the plot width", res.Axis.Decision, wantDecision)
	}

	n := len(months)
	if first, last := res.Axis.Labels[0], res.Axis.Labels[len(res.Axis.Labels)-1]; first.Index != 0 || last.Index != n-1 {
		t.Errorf("visible labels run %d..%d, want 0..%d", first.Index, last.Index, n-1)
	}
}

func TestGenerateLayoutRotatedTruncation(t *testing.T) {
	long := []string{"A very long category label", "Another long category label", "Third"}
	s := DefaultSettings()
	s.Axis.MaxRotatedWidth = 60
	req := validated(t, Request{
		Width:  200,
		Height: 200,
		Axis:   &AxisRequest{Labels: long, FontSize: 10, Mode: axis.ModeAlways},
	})
	res := GenerateLayout(charWidth, s, req)

	if !res.Axis.ShouldRotate || res.Axis.Rotation != axis.DefaultRotation {
		t.Fatalf("Axis = %+v, want rotated at %v°", res.Axis, axis.DefaultRotation)
	}
	for _, l := range res.Axis.Labels {
		if w := charWidth.Measure(l.DisplayText, 10, ""); w > 60 {
			t.Errorf("label %d is %vpx wide, want <= 60", l.Index, w)
		}
	}
	if !res.Axis.Labels[0].Truncated || res.Axis.Labels[2].Truncated {
		t.Errorf("truncation flags = %v, %v; want true, false", res.Axis.Labels[0].Truncated, res.Axis.Labels[2].Truncated)
	}
	if res.Reservation.Bottom <= 12 {
		t.Errorf("Reservation.Bottom = %v, want more than one line", res.Reservation.Bottom)
	}
}

func TestGenerateLayoutRadial(t *testing.T) {
	slices := []radial.Slice{
		{ID: "a", StartAngle: 0, EndAngle: 4, InnerRadius: 60, OuterRadius: 100, Primary: "Direct"},
		{ID: "b", StartAngle: 4, EndAngle: 6.1, InnerRadius: 60, OuterRadius: 100, Primary: "Referral"},
		{ID: "c", StartAngle: 6.1, EndAngle: 6.2, InnerRadius: 60, OuterRadius: 100, Primary: "Other"},
	}
	req := validated(t, Request{
		Width:  400,
		Height: 300,
		Radial: &RadialRequest{Slices: slices},
		Legend: &LegendRequest{Categories: []string{"Direct", "Referral"}, Dock: legend.DockBottom},
	})
	s := DefaultSettings()
	res := GenerateLayout(charWidth, s, req)

	if res.Kind != KindRadial || res.Axis != nil {
		t.Fatalf("Kind = %q, Axis = %+v", res.Kind, res.Axis)
	}
	c := res.PlotArea.Center()
	if c.Y >= 150 {
		t.Errorf("plot centre %v should move up for a bottom legend", c)
	}

	opts := s.Radial
	opts.FontFamily = s.FontFamily
	want := radial.Layout(charWidth, slices, opts).Translate(c.X, c.Y)
	if !reflect.DeepEqual(*res.Radial, want) {
		t.Errorf("Radial = %+v, want %+v", *res.Radial, want)
	}
}

func TestGenerateLayoutEmpty(t *testing.T) {
	req := validated(t, Request{
		Width:  100,
		Height: 50,
		Axis:   &AxisRequest{},
		Legend: &LegendRequest{Dock: legend.DockTop},
	})
	res := GenerateLayout(charWidth, DefaultSettings(), req)

	if !res.Reservation.IsZero() {
		t.Errorf("Reservation = %+v, want zero", res.Reservation)
	}
	if res.PlotArea != res.Viewport {
		t.Errorf("PlotArea = %+v, want the viewport", res.PlotArea)
	}
	if res.Axis.SkipInterval != 1 || len(res.Axis.Labels) != 0 {
		t.Errorf("Axis = %+v, want empty with skip 1", res.Axis)
	}
}

func TestGenerateLayoutRequestOverrides(t *testing.T) {
	req := validated(t, Request{
		Width:  300,
		Height: 200,
		Legend: &LegendRequest{
			Categories: []string{"North"},
			Dock:       legend.DockBottom,
			FontSize:   20,
			Style:      json.RawMessage(`{"padding": 20}`),
		},
	})
	res := GenerateLayout(charWidth, DefaultSettings(), req)

	// 20px × 1.5 row plus the overridden padding.
	if res.Reservation.Bottom != 50 {
		t.Errorf("Reservation.Bottom = %v, want 50", res.Reservation.Bottom)
	}
}

func TestGenerateLayoutPartialOverrides(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(`{
		"width": 400,
		"height": 300,
		"legend": {"categories": ["Direct", "Referral"], "dock": "bottom", "style": {"padding": 4}},
		"radial": {
			"options": {"margin": 20, "fit": {"min_font_size": 7}},
			"slices": [
				{"id": "a", "start_angle": 0, "end_angle": 4, "inner_radius": 60, "outer_radius": 100, "primary": "Direct"},
				{"id": "b", "start_angle": 4, "end_angle": 6.1, "inner_radius": 60, "outer_radius": 100, "primary": "Referral"}
			]
		}
	}`))
	if err != nil {
		t.Fatalf("DecodeRequest() error: %v", err)
	}
	req = validated(t, req)

	s := DefaultSettings()
	s.Legend.MaxLabelWidth = 90
	res := GenerateLayout(charWidth, s, req)

	style := res.Legend.Style
	if style.Padding != 4 {
		t.Errorf("Style.Padding = %v, want 4", style.Padding)
	}
	if style.FontSize != s.Legend.FontSize || style.LineFactor != s.Legend.LineFactor || style.MaxLabelWidth != 90 {
		t.Errorf("Style = %+v, want unset fields from settings", style)
	}
	if got, want := res.Legend.Layout.RowHeight, s.Legend.RowHeight(); got != want {
		t.Errorf("RowHeight = %v, want %v", got, want)
	}
	if res.Reservation.Bottom != s.Legend.RowHeight()+4 {
		t.Errorf("Reservation.Bottom = %v, want %v", res.Reservation.Bottom, s.Legend.RowHeight()+4)
	}

	opts := s.Radial
	opts.Margin = 20
	opts.Fit.MinFontSize = 7
	opts.FontFamily = s.FontFamily
	c := res.PlotArea.Center()
	want := radial.Layout(charWidth, req.Radial.Slices, opts).Translate(c.X, c.Y)
	if !reflect.DeepEqual(*res.Radial, want) {
		t.Errorf("Radial = %+v, want %+v", *res.Radial, want)
	}
	for _, l := range res.Radial.Labels {
		for _, run := range l.Runs {
			if run.FontSize <= 0 {
				t.Errorf("slice %s run %q has font size %v", l.SliceID, run.Text, run.FontSize)
			}
		}
	}
}

func TestGenerateLayoutPartialAxisOptions(t *testing.T) {
	req := validated(t, Request{
		Width:  100,
		Height: 200,
		Axis:   &AxisRequest{Labels: months, FontSize: 10, Options: json.RawMessage(`{"rotation": 30}`)},
	})
	s := DefaultSettings()
	s.Axis.MaxHorizontalSkip = 5
	res := GenerateLayout(charWidth, s, req)

	opts := s.Axis
	opts.Rotation = 30
	want := axis.NewPlanner(charWidth, opts).Plan(months, 100, 10, s.FontFamily, axis.ModeAuto)
	if res.Axis.Decision != want {
		t.Errorf("Decision = %+v, want %+v", res.Axis.Decision, want)
	}
	if res.Axis.ShouldRotate && res.Axis.Rotation != 30 {
		t.Errorf("Rotation = %v, want 30", res.Axis.Rotation)
	}
	first := res.Axis.Labels[0]
	if x := axis.TickX(first.Index, len(months), 100, axis.DefaultPadding); first.X != x {
		t.Errorf("first tick X = %v, want %v with the default padding", first.X, x)
	}
}
