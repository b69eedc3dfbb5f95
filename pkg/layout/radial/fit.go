package radial

import (
	"math"

	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// Placement classifies where a slice label goes.
type Placement string

const (
	Hidden  Placement = "hidden"
	Inside  Placement = "inside"
	Outside Placement = "outside"
)

// FitOptions tunes the inside label fitter.
type FitOptions struct {
	// MinLabelAngle hides labels on slices with a smaller span.
	MinLabelAngle float64 `json:"min_label_angle" toml:"min_label_angle"`

	// MinFontSize is the smallest size autofit may shrink to.
	MinFontSize float64 `json:"min_font_size" toml:"min_font_size"`

	// AutoFit allows shrinking and dropping the secondary line.
	AutoFit bool `json:"auto_fit" toml:"auto_fit"`

	// NarrowSpan is the span below which the secondary line is dropped
	// before shrinking.
	NarrowSpan float64 `json:"narrow_span" toml:"narrow_span"`

	// ChordDiscount and HeightDiscount shrink the straight-line box, since
	// the wedge is curved and the text is not.
	ChordDiscount  float64 `json:"chord_discount" toml:"chord_discount"`
	HeightDiscount float64 `json:"height_discount" toml:"height_discount"`

	// SafetyMargin scales the analytic shrink ratio.
	SafetyMargin float64 `json:"safety_margin" toml:"safety_margin"`

	// LineFactor converts font size to line height.
	LineFactor float64 `json:"line_factor" toml:"line_factor"`

	// MaxSteps bounds the step-down loop after the analytic shrink.
	MaxSteps int `json:"max_steps" toml:"max_steps"`
}

// DefaultFitOptions returns the fitter settings used by the donut chart.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		MinLabelAngle:  0.25,
		MinFontSize:    8,
		AutoFit:        true,
		NarrowSpan:     0.5,
		ChordDiscount:  0.8,
		HeightDiscount: 0.8,
		SafetyMargin:   0.9,
		LineFactor:     1.2,
		MaxSteps:       8,
	}
}

func (o FitOptions) normalize() FitOptions {
	d := DefaultFitOptions()
	if o.ChordDiscount <= 0 || o.ChordDiscount > 1 {
		o.ChordDiscount = d.ChordDiscount
	}
	if o.HeightDiscount <= 0 || o.HeightDiscount > 1 {
		o.HeightDiscount = d.HeightDiscount
	}
	if o.SafetyMargin <= 0 || o.SafetyMargin > 1 {
		o.SafetyMargin = d.SafetyMargin
	}
	if o.LineFactor <= 0 {
		o.LineFactor = d.LineFactor
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	if o.MinFontSize < 0 {
		o.MinFontSize = 0
	}
	return o
}

// FitResult is the outcome of fitting one label.
type FitResult struct {
	Placement Placement `json:"placement"`
	FontSize  float64   `json:"font_size"`
	Lines     []string  `json:"lines"`

	// DroppedSecondary is set when the secondary line was removed to fit.
	DroppedSecondary bool `json:"dropped_secondary,omitempty"`
}

// Fits reports whether the label was placed inside.
func (r FitResult) Fits() bool { return r.Placement == Inside }

// Fitter decides whether labels fit inside their wedge. Text inside a slice
// is never ellipsized: a label either fits whole or moves outside.
type Fitter struct {
	Measurer text.Measurer
	Family   string
	Options  FitOptions
}

// NewFitter returns a fitter. A nil measurer uses [text.Default].
func NewFitter(m text.Measurer, family string, opts FitOptions) *Fitter {
	if m == nil {
		m = text.Default()
	}
	return &Fitter{Measurer: m, Family: family, Options: opts}
}

// box is the usable straight-line area inside a wedge.
type box struct {
	width, height float64
}

func (f *Fitter) box(w Wedge, o FitOptions) box {
	return box{
		width:  w.ChordWidth(w.LabelRadius()) * o.ChordDiscount,
		height: w.Thickness() * o.HeightDiscount,
	}
}

func (f *Fitter) fits(b box, lines []string, size float64, o FitOptions) bool {
	if float64(len(lines))*size*o.LineFactor > b.height {
		return false
	}
	for _, l := range lines {
		if f.Measurer.Measure(l, size, f.Family) > b.width {
			return false
		}
	}
	return true
}

// Fit places primary (and secondary, if non-empty) inside w at fontSize,
// shrinking when AutoFit is set. The returned size is never above fontSize
// and never below MinFontSize (or fontSize, if that is smaller). On failure
// the result is Outside with the original lines and size.
func (f *Fitter) Fit(w Wedge, primary, secondary string, fontSize float64) FitResult {
	o := f.Options.normalize()
	if w.Span() < o.MinLabelAngle {
		return FitResult{Placement: Hidden}
	}

	lines := []string{primary}
	if secondary != "" {
		lines = append(lines, secondary)
	}
	outside := FitResult{Placement: Outside, FontSize: fontSize, Lines: lines}
	if fontSize <= 0 {
		return outside
	}

	b := f.box(w, o)
	if f.fits(b, lines, fontSize, o) {
		return FitResult{Placement: Inside, FontSize: fontSize, Lines: lines}
	}
	if !o.AutoFit {
		return outside
	}

	dropped := false
	if len(lines) > 1 && w.Span() < o.NarrowSpan {
		lines, dropped = lines[:1], true
		if f.fits(b, lines, fontSize, o) {
			return FitResult{Placement: Inside, FontSize: fontSize, Lines: lines, DroppedSecondary: true}
		}
	}

	ratio := b.height / (float64(len(lines)) * fontSize * o.LineFactor)
	for _, l := range lines {
		if lw := f.Measurer.Measure(l, fontSize, f.Family); lw > 0 {
			ratio = min(ratio, b.width/lw)
		}
	}
	ratio *= o.SafetyMargin

	minSize := min(o.MinFontSize, fontSize)
	size := math.Floor(fontSize * ratio)
	size = min(max(size, minSize), fontSize)

	for range o.MaxSteps {
		if size < minSize {
			break
		}
		if f.fits(b, lines, size, o) {
			return FitResult{Placement: Inside, FontSize: size, Lines: lines, DroppedSecondary: dropped}
		}
		size--
	}
	return outside
}
