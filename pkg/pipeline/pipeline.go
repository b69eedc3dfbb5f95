// Package pipeline runs the per-render label layout of one chart.
//
// A [Request] describes a chart viewport and the label sets of its axis,
// legend and radial (pie/donut) slices. [Runner.Execute] turns it into a
// [Result] the renderer draws from, in the order a chart plugin needs it:
//
//  1. Legend: wrap entries and reserve margin on the docked edge
//  2. Plot area: shrink the viewport by the legend reservation
//  3. Axis: plan rotation and skipping at the plot width, reserve its height
//  4. Radial: fit slice labels inside wedges, declutter the rest outside,
//     centred in the final plot area
//
// All geometry is computed by the pure packages under pkg/layout. This package
// adds validation, caching through [cache.Cache], observability hooks and
// logging, so the CLI and the HTTP service share one code path.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Request{
//	    Kind:   pipeline.KindCartesian,
//	    Width:  640,
//	    Height: 360,
//	    Axis:   &pipeline.AxisRequest{Labels: months, FontSize: 10},
//	    Legend: &pipeline.LegendRequest{Categories: series, Dock: legend.DockTop},
//	})
//
// [Runner.ExecuteBatch] lays out many charts concurrently.
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/fonts"
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/axis"
	"github.com/matzehuels/chartlayout/pkg/layout/legend"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 640.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 400.0

	// DefaultAxisFontSize is the tick label size used when a request omits it.
	DefaultAxisFontSize = 10.0

	// DefaultAxisLineFactor converts axis font size to line height.
	DefaultAxisLineFactor = 1.2

	// DefaultTTL is how long computed layouts are cached.
	DefaultTTL = 24 * time.Hour

	// DefaultConcurrency bounds ExecuteBatch.
	DefaultConcurrency = 8
)

// Chart kinds.
const (
	KindCartesian = "cartesian" // axis and legend
	KindRadial    = "radial"    // pie or donut with optional legend
)

// ValidKinds is the set of supported chart kinds.
var ValidKinds = map[string]bool{
	KindCartesian: true,
	KindRadial:    true,
}

// =============================================================================
// Settings - Engine Defaults
// =============================================================================

// Settings are the engine defaults a Runner applies to requests that do not
// carry their own options. They usually come from the configuration file.
type Settings struct {
	FontFamily     string         `json:"font_family"`
	AxisFontSize   float64        `json:"axis_font_size"`
	AxisLineFactor float64        `json:"axis_line_factor"`
	Axis           axis.Options   `json:"axis"`
	Legend         legend.Style   `json:"legend"`
	Radial         radial.Options `json:"radial"`
}

// DefaultSettings returns the package defaults.
func DefaultSettings() Settings {
	return Settings{
		FontFamily:     fonts.DefaultFamily,
		AxisFontSize:   DefaultAxisFontSize,
		AxisLineFactor: DefaultAxisLineFactor,
		Axis:           axis.DefaultOptions(),
		Legend:         legend.DefaultStyle(),
		Radial:         radial.DefaultOptions(),
	}
}

// =============================================================================
// Request - Pipeline Input
// =============================================================================

// Request is one chart render. Width and Height describe the whole chart
// viewport; the blocks are optional.
type Request struct {
	ID         string  `json:"id,omitempty"`
	Kind       string  `json:"kind"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	FontFamily string  `json:"font_family,omitempty"`

	Axis   *AxisRequest   `json:"axis,omitempty"`
	Legend *LegendRequest `json:"legend,omitempty"`
	Radial *RadialRequest `json:"radial,omitempty"`

	// Refresh bypasses the cache read; the result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// AxisRequest is the ordered tick labels of a categorical x axis. Options is
// a partial [axis.Options] object; fields it omits keep the runner's settings.
type AxisRequest struct {
	Labels   []string      `json:"labels"`
	FontSize float64       `json:"font_size,omitempty"`
	Mode     axis.Mode     `json:"mode,omitempty"`
	Options  json.RawMessage `json:"options,omitempty"`
}

// LegendRequest is the category list of a legend and its dock. Style is a
// partial [legend.Style] object laid over the runner's settings.
type LegendRequest struct {
	Categories []string      `json:"categories"`
	Dock       legend.Dock   `json:"dock,omitempty"`
	FontSize   float64       `json:"font_size,omitempty"`
	Style      json.RawMessage `json:"style,omitempty"`
}

// RadialRequest is the slices of a pie or donut chart. Radii are pixels;
// angles are radians clockwise from 12 o'clock. Options is a partial
// [radial.Options] object laid over the runner's settings.
type RadialRequest struct {
	Slices  []radial.Slice  `json:"slices"`
	Options json.RawMessage `json:"options,omitempty"`
}

// =============================================================================
// Result - Pipeline Output
// =============================================================================

// Result is the complete label geometry of one chart. All coordinates are in
// viewport space with the origin at the top-left corner.
type Result struct {
	ID   string `json:"id,omitempty"`
	Kind string `json:"kind"`

	Viewport    layout.Rect        `json:"viewport"`
	Reservation layout.Reservation `json:"reservation"`
	PlotArea    layout.Rect        `json:"plot_area"`

	Axis   *AxisResult   `json:"axis,omitempty"`
	Legend *LegendResult `json:"legend,omitempty"`
	Radial *radial.Plan  `json:"radial,omitempty"`

	Stats Stats `json:"stats"`
}

// AxisResult is the axis decision with the labels to draw.
type AxisResult struct {
	axis.Decision
	FontSize    float64            `json:"font_size"`
	Rotation    float64            `json:"rotation,omitempty"`
	Labels      []AxisLabel        `json:"labels"`
	Reservation layout.Reservation `json:"reservation"`
}

// AxisLabel is one visible tick label. X is the tick position measured from
// the left edge of the plot area.
type AxisLabel struct {
	Index       int     `json:"index"`
	X           float64 `json:"x"`
	Text        string  `json:"text"`
	DisplayText string  `json:"display_text"`
	Truncated   bool    `json:"truncated,omitempty"`
}

// LegendResult is a placed legend.
type LegendResult struct {
	Dock        legend.Dock        `json:"dock"`
	Origin      layout.Point       `json:"origin"`
	Layout      legend.Layout      `json:"layout"`
	Style       legend.Style       `json:"style"`
	Reservation layout.Reservation `json:"reservation"`
}

// Stats contains execution statistics.
type Stats struct {
	Labels   int           `json:"labels"`
	Duration time.Duration `json:"duration_ns"`
	Cached   bool          `json:"cached"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateKind checks that a chart kind is valid.
func ValidateKind(kind string) error {
	if !ValidKinds[kind] {
		return errors.New(errors.ErrCodeInvalidChart, "invalid kind: %q (must be one of: cartesian, radial)", kind)
	}
	return nil
}

// ValidateAndSetDefaults checks the request and fills viewport and font
// defaults. It is idempotent.
func (r *Request) ValidateAndSetDefaults() error {
	if r.validated {
		return nil
	}
	if r.Kind == "" {
		r.Kind = KindCartesian
		if r.Radial != nil {
			r.Kind = KindRadial
		}
	}
	if err := ValidateKind(r.Kind); err != nil {
		return err
	}
	if r.ID != "" {
		if err := errors.ValidateChartID(r.ID); err != nil {
			return err
		}
	}
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Height == 0 {
		r.Height = DefaultHeight
	}
	if err := errors.ValidateDimension("width", r.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", r.Height); err != nil {
		return err
	}

	if r.Kind == KindRadial && r.Radial == nil {
		return errors.New(errors.ErrCodeInvalidChart, "radial chart needs a radial block")
	}
	if r.Kind == KindCartesian && r.Radial != nil {
		return errors.New(errors.ErrCodeInvalidChart, "cartesian chart cannot have a radial block")
	}
	if r.Kind == KindRadial && r.Axis != nil {
		return errors.New(errors.ErrCodeInvalidChart, "radial chart cannot have an axis block")
	}

	if a := r.Axis; a != nil {
		if err := errors.ValidateLabels("axis", a.Labels); err != nil {
			return err
		}
		if a.FontSize != 0 {
			if err := errors.ValidateFontSize(a.FontSize); err != nil {
				return fmt.Errorf("axis: %w", err)
			}
		}
		mode, err := axis.ParseMode(string(a.Mode))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "axis mode")
		}
		a.Mode = mode
		if err := overlay(a.Options, &axis.Options{}); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "axis options")
		}
	}
	if l := r.Legend; l != nil {
		if err := errors.ValidateLabels("legend", l.Categories); err != nil {
			return err
		}
		if l.FontSize != 0 {
			if err := errors.ValidateFontSize(l.FontSize); err != nil {
				return fmt.Errorf("legend: %w", err)
			}
		}
		dock, err := legend.ParseDock(string(l.Dock))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "legend dock")
		}
		l.Dock = dock
		if err := overlay(l.Style, &legend.Style{}); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "legend style")
		}
	}
	if rd := r.Radial; rd != nil {
		if err := validateSlices(rd.Slices); err != nil {
			return err
		}
		if err := overlay(rd.Options, &radial.Options{}); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "radial options")
		}
	}

	r.validated = true
	return nil
}

// overlay decodes the JSON object raw onto dst. Fields raw omits keep their
// current value in dst, including fields of nested objects.
func overlay(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func validateSlices(slices []radial.Slice) error {
	if len(slices) > errors.MaxLabels {
		return errors.New(errors.ErrCodeInvalidInput, "too many slices (max %d)", errors.MaxLabels)
	}
	for i, s := range slices {
		for _, a := range []struct {
			name string
			v    float64
		}{{"start_angle", s.StartAngle}, {"end_angle", s.EndAngle}} {
			if err := errors.ValidateAngle(fmt.Sprintf("slice %d %s", i, a.name), a.v); err != nil {
				return err
			}
		}
		if s.EndAngle < s.StartAngle {
			return errors.New(errors.ErrCodeInvalidInput, "slice %d ends before it starts", i)
		}
		if s.InnerRadius < 0 || s.OuterRadius < s.InnerRadius {
			return errors.New(errors.ErrCodeInvalidInput, "slice %d radii must satisfy 0 <= inner <= outer", i)
		}
		if err := errors.ValidateDimension(fmt.Sprintf("slice %d outer_radius", i), s.OuterRadius); err != nil {
			return err
		}
	}
	return nil
}

// LabelCount returns the number of labels the request lays out.
func (r *Request) LabelCount() int {
	var n int
	if r.Axis != nil {
		n += len(r.Axis.Labels)
	}
	if r.Legend != nil {
		n += len(r.Legend.Categories)
	}
	if r.Radial != nil {
		n += len(r.Radial.Slices)
	}
	return n
}
