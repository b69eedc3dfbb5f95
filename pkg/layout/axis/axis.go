// Package axis plans label rotation and thinning for categorical axes.
//
// Given the ordered tick labels of a point scale and the pixel width of the
// axis, [Planner.Plan] decides whether labels should be drawn diagonally and
// which stride of labels to show. Index 0 and the last index are always shown
// so the axis extents stay legible.
//
//	p := axis.NewPlanner(text.Default(), axis.DefaultOptions())
//	d := p.Plan(months, 320, 10, "Segoe UI", axis.ModeAuto)
//	for _, i := range axis.Visible(len(months), d.SkipInterval) {
//	    // draw months[i], rotated if d.ShouldRotate
//	}
package axis

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// Mode selects how rotation is decided.
type Mode string

const (
	ModeAuto   Mode = "auto"   // rotate only when thinning alone cannot relieve crowding
	ModeAlways Mode = "always" // always rotate, never skip
	ModeNever  Mode = "never"  // never rotate, thin out instead
)

// ParseMode parses a mode name. The empty string means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAlways:
		return ModeAlways, nil
	case ModeNever:
		return ModeNever, nil
	}
	return "", fmt.Errorf("invalid rotation mode: %q (must be auto, always or never)", s)
}

// Decision is the outcome of planning. SkipInterval is always >= 1.
type Decision struct {
	ShouldRotate bool `json:"should_rotate"`
	SkipInterval int  `json:"skip_interval"`
}

const (
	// DefaultPadding matches the outer padding of a d3 point scale.
	DefaultPadding = 0.5

	// DefaultGap is the minimum horizontal gap between adjacent labels.
	DefaultGap = 4.0

	// DefaultMaxHorizontalSkip bounds the thinning search in auto mode.
	// Beyond it, rotation is preferred over hiding more labels.
	DefaultMaxHorizontalSkip = 3

	// DefaultRotatedFootprint is the horizontal room a rotated label needs,
	// as a multiple of the font size.
	DefaultRotatedFootprint = 1.2

	// DefaultRotation is the angle rotated labels are drawn at, in degrees.
	DefaultRotation = 45.0
)

// Options tunes the planner.
type Options struct {
	// Padding is the outer padding of the caller's point scale, in steps.
	// It must match the scale actually used to position ticks.
	Padding float64 `json:"padding" toml:"padding"`

	// Gap is the minimum horizontal space between two unrotated labels.
	Gap float64 `json:"gap" toml:"gap"`

	// MaxHorizontalSkip is the largest stride tried before rotating (auto mode).
	MaxHorizontalSkip int `json:"max_horizontal_skip" toml:"max_horizontal_skip"`

	// RotatedFootprint is the per-label horizontal footprint of rotated text,
	// as a multiple of the font size.
	RotatedFootprint float64 `json:"rotated_footprint" toml:"rotated_footprint"`

	// Rotation is the label angle in degrees, used for margin reservation.
	Rotation float64 `json:"rotation" toml:"rotation"`

	// MaxRotatedWidth caps the length of rotated labels in pixels (0 = no cap).
	MaxRotatedWidth float64 `json:"max_rotated_width" toml:"max_rotated_width"`
}

// DefaultOptions returns the options used by the chart plugins.
func DefaultOptions() Options {
	return Options{
		Padding:           DefaultPadding,
		Gap:               DefaultGap,
		MaxHorizontalSkip: DefaultMaxHorizontalSkip,
		RotatedFootprint:  DefaultRotatedFootprint,
		Rotation:          DefaultRotation,
		MaxRotatedWidth:   100,
	}
}

// normalize fills unset fields. Padding 0 is a valid band-free scale and is kept.
func (o Options) normalize() Options {
	if o.Padding < 0 || math.IsNaN(o.Padding) {
		o.Padding = 0
	}
	if o.Gap <= 0 {
		o.Gap = DefaultGap
	}
	if o.MaxHorizontalSkip < 1 {
		o.MaxHorizontalSkip = DefaultMaxHorizontalSkip
	}
	if o.RotatedFootprint <= 0 {
		o.RotatedFootprint = DefaultRotatedFootprint
	}
	if o.Rotation <= 0 || o.Rotation > 90 {
		o.Rotation = DefaultRotation
	}
	return o
}

// Planner decides rotation and skipping for axis labels.
type Planner struct {
	Measurer text.Measurer
	Options  Options
}

// NewPlanner returns a planner. A nil measurer uses [text.Default].
func NewPlanner(m text.Measurer, opts Options) *Planner {
	if m == nil {
		m = text.Default()
	}
	return &Planner{Measurer: m, Options: opts}
}

// Plan decides rotation and skip interval for labels laid out across
// availableWidth pixels at fontSize in fontFamily.
func (p *Planner) Plan(labels []string, availableWidth, fontSize float64, fontFamily string, mode Mode) Decision {
	opts := p.Options.normalize()
	n := len(labels)
	maxSkip := max(1, n-1)

	if mode == ModeAlways {
		return Decision{ShouldRotate: true, SkipInterval: 1}
	}
	if n <= 1 {
		return Decision{SkipInterval: 1}
	}
	if availableWidth <= 0 || math.IsNaN(availableWidth) {
		return Decision{ShouldRotate: mode != ModeNever, SkipInterval: maxSkip}
	}

	c := crowding{
		widths:  text.MeasureAll(p.Measurer, labels, fontSize, fontFamily),
		spacing: Spacing(n, availableWidth, opts.Padding),
		gap:     opts.Gap,
	}

	if mode == ModeNever {
		for k := 1; k <= maxSkip; k++ {
			if c.fits(k) {
				return Decision{SkipInterval: k}
			}
		}
		return Decision{SkipInterval: maxSkip}
	}

	if c.fits(1) {
		return Decision{SkipInterval: 1}
	}
	for k := 2; k <= min(opts.MaxHorizontalSkip, maxSkip); k++ {
		if c.fits(k) {
			return Decision{SkipInterval: k}
		}
	}

	// Rotate, then thin rotated labels to one footprint per stride.
	skip := int(math.Ceil(fontSize * opts.RotatedFootprint / c.spacing))
	skip = min(max(skip, 1), maxSkip)

	// Thinning may already have made room for horizontal text.
	if skip > 1 && c.fits(skip) {
		return Decision{SkipInterval: skip}
	}
	return Decision{ShouldRotate: true, SkipInterval: skip}
}

// Plan is a convenience wrapper around [Planner.Plan].
func Plan(m text.Measurer, labels []string, availableWidth, fontSize float64, fontFamily string, mode Mode, opts Options) Decision {
	return NewPlanner(m, opts).Plan(labels, availableWidth, fontSize, fontFamily, mode)
}

// Spacing returns the distance between adjacent ticks of a point scale with
// n ticks over width pixels and the given outer padding (in steps).
func Spacing(n int, width, padding float64) float64 {
	steps := float64(n-1) + 2*padding
	if steps <= 0 {
		return width
	}
	return width / steps
}

// TickX returns the offset of tick i from the start of a point scale with n
// ticks over width pixels. A lone tick without padding sits in the middle.
func TickX(i, n int, width, padding float64) float64 {
	padding = max(padding, 0)
	if float64(n-1)+2*padding <= 0 {
		return width / 2
	}
	step := Spacing(n, width, padding)
	return step * (padding + float64(i))
}

// crowding tests whether a stride leaves enough room between visible labels.
type crowding struct {
	widths  []float64
	spacing float64
	gap     float64
}

func (c crowding) fits(k int) bool {
	visible := Visible(len(c.widths), k)
	var widest float64
	for _, i := range visible {
		widest = max(widest, c.widths[i])
	}
	minGap := math.Inf(1)
	for j := 1; j < len(visible); j++ {
		minGap = min(minGap, float64(visible[j]-visible[j-1])*c.spacing)
	}
	return widest+c.gap <= minGap
}

// Visible returns the indices shown with stride k: every k-th index starting
// at 0, plus the last index. k < 1 is treated as 1.
func Visible(n, k int) []int {
	if n <= 0 {
		return nil
	}
	k = max(k, 1)
	out := make([]int, 0, n/k+2)
	for i := 0; i < n; i += k {
		out = append(out, i)
	}
	if out[len(out)-1] != n-1 {
		out = append(out, n-1)
	}
	return out
}

// IsVisible reports whether index i is shown with stride k out of n labels.
func IsVisible(i, n, k int) bool {
	if i < 0 || i >= n {
		return false
	}
	return i == n-1 || i%max(k, 1) == 0
}

// Reserve returns the bottom margin an axis with this decision needs.
// widest is the widest displayed label; lineFactor converts font size to line
// height. Rotated labels claim their projected height.
func Reserve(d Decision, widest, fontSize, lineFactor float64, opts Options) layout.Reservation {
	opts = opts.normalize()
	if lineFactor <= 0 {
		lineFactor = 1.2
	}
	lineHeight := fontSize * lineFactor
	if !d.ShouldRotate {
		return layout.Reservation{Bottom: lineHeight}.Clamp()
	}
	rad := opts.Rotation * math.Pi / 180
	return layout.Reservation{Bottom: widest*math.Sin(rad) + lineHeight*math.Cos(rad)}.Clamp()
}
