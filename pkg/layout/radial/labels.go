package radial

import (
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// Slice is one pie or donut slice to label. ID and Color are passed through
// untouched so callers can match labels back to their data.
type Slice struct {
	ID          string  `json:"id"`
	StartAngle  float64 `json:"start_angle"`
	EndAngle    float64 `json:"end_angle"`
	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
	Primary     string  `json:"primary"`
	Secondary   string  `json:"secondary,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// Wedge returns the slice geometry.
func (s Slice) Wedge() Wedge {
	return Wedge{StartAngle: s.StartAngle, EndAngle: s.EndAngle, InnerRadius: s.InnerRadius, OuterRadius: s.OuterRadius}
}

// Anchor is the horizontal text anchor of a run.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// TextRun is one line of label text. Y is the vertical middle of the line.
type TextRun struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	FontSize  float64 `json:"font_size"`
	Anchor    Anchor  `json:"anchor"`
	Text      string  `json:"text"`
	Truncated bool    `json:"truncated,omitempty"`
}

// Label is the draw instruction for one slice.
type Label struct {
	SliceID   string         `json:"slice_id"`
	Color     string         `json:"color,omitempty"`
	Placement Placement      `json:"placement"`
	FontSize  float64        `json:"font_size,omitempty"`
	Side      Side           `json:"side,omitempty"`
	Runs      []TextRun      `json:"runs,omitempty"`
	Connector []layout.Point `json:"connector,omitempty"`
}

// Plan is the complete labelling of one radial chart, centred on the origin.
type Plan struct {
	Labels      []Label `json:"labels"`
	MaxRadius   float64 `json:"max_radius"`
	Overlapping bool    `json:"overlapping,omitempty"`
}

// Count returns the number of labels with placement p.
func (p Plan) Count(pl Placement) int {
	var n int
	for _, l := range p.Labels {
		if l.Placement == pl {
			n++
		}
	}
	return n
}

// Translate returns a copy of the plan moved by (dx, dy), typically to the
// centre of the drawable area.
func (p Plan) Translate(dx, dy float64) Plan {
	out := Plan{MaxRadius: p.MaxRadius, Overlapping: p.Overlapping, Labels: make([]Label, len(p.Labels))}
	for i, l := range p.Labels {
		l.Runs = append([]TextRun(nil), l.Runs...)
		for j := range l.Runs {
			l.Runs[j].X += dx
			l.Runs[j].Y += dy
		}
		if l.Connector != nil {
			pts := make([]layout.Point, len(l.Connector))
			for j, pt := range l.Connector {
				pts[j] = layout.Point{X: pt.X + dx, Y: pt.Y + dy}
			}
			l.Connector = pts
		}
		out.Labels[i] = l
	}
	return out
}

// Options configures radial labelling.
type Options struct {
	FontSize   float64 `json:"font_size" toml:"font_size"`
	FontFamily string  `json:"font_family" toml:"font_family"`

	Fit FitOptions `json:"fit" toml:"fit"`

	// Spacing, Margin and Passes feed the outside declutterer.
	Spacing float64 `json:"spacing" toml:"spacing"`
	Margin  float64 `json:"margin" toml:"margin"`
	Passes  int     `json:"passes" toml:"passes"`

	// ElbowOffset is how far beyond the outermost ring connectors bend.
	ElbowOffset float64 `json:"elbow_offset" toml:"elbow_offset"`

	// ColumnOffset is the horizontal run from the elbow to the text anchor.
	ColumnOffset float64 `json:"column_offset" toml:"column_offset"`

	// RadialTick adds a radial knee this far outside the slice edge.
	RadialTick float64 `json:"radial_tick" toml:"radial_tick"`

	// OutsideMaxWidth truncates outside label lines. Zero disables truncation.
	OutsideMaxWidth float64 `json:"outside_max_width" toml:"outside_max_width"`

	// UniformInsideFont renders every inside label at the smallest fitted size.
	UniformInsideFont bool `json:"uniform_inside_font" toml:"uniform_inside_font"`
}

// DefaultOptions returns the donut chart defaults.
func DefaultOptions() Options {
	return Options{
		FontSize:        11,
		Fit:             DefaultFitOptions(),
		Spacing:         2,
		Margin:          16,
		Passes:          DefaultPasses,
		ElbowOffset:     12,
		ColumnOffset:    8,
		OutsideMaxWidth: 120,
	}
}

// Labeler lays out slice labels with a shared measurer.
type Labeler struct {
	Measurer text.Measurer
}

// NewLabeler returns a labeler. A nil measurer uses [text.Default].
func NewLabeler(m text.Measurer) *Labeler {
	if m == nil {
		m = text.Default()
	}
	return &Labeler{Measurer: m}
}

// Layout classifies every slice as hidden, inside or outside, fits the inside
// labels, declutters the outside ones and returns draw instructions centred
// on the origin. Labels are returned in slice order.
func (lb *Labeler) Layout(slices []Slice, opts Options) Plan {
	plan := Plan{Labels: make([]Label, len(slices))}
	if len(slices) == 0 {
		return plan
	}
	for _, s := range slices {
		plan.MaxRadius = max(plan.MaxRadius, s.OuterRadius)
	}

	fitOpts := opts.Fit.normalize()
	fitter := NewFitter(lb.Measurer, opts.FontFamily, opts.Fit)
	fits := make([]FitResult, len(slices))

	uniform := opts.FontSize
	var cands []Candidate
	var candSlice []int
	for i, s := range slices {
		fits[i] = fitter.Fit(s.Wedge(), s.Primary, s.Secondary, opts.FontSize)
		plan.Labels[i] = Label{SliceID: s.ID, Color: s.Color, Placement: fits[i].Placement}

		switch fits[i].Placement {
		case Inside:
			uniform = min(uniform, fits[i].FontSize)
		case Outside:
			mid := s.Wedge().MidAngle()
			cands = append(cands, Candidate{
				ID:            s.ID,
				Text:          s.Primary,
				SecondaryText: s.Secondary,
				Side:          SideOf(mid),
				TargetY:       Polar(s.OuterRadius+opts.ElbowOffset, mid).Y,
				Height:        float64(len(fits[i].Lines)) * opts.FontSize * fitOpts.LineFactor,
			})
			candSlice = append(candSlice, i)
		}
	}

	for i, s := range slices {
		if fits[i].Placement != Inside {
			continue
		}
		size := fits[i].FontSize
		if opts.UniformInsideFont {
			size = uniform
		}
		c := s.Wedge().Centroid()
		plan.Labels[i].FontSize = size
		plan.Labels[i].Runs = stack(fits[i].Lines, c.X, c.Y, size, fitOpts.LineFactor, AnchorMiddle)
	}

	if len(cands) == 0 {
		return plan
	}

	dec := Declutter(cands, DeclutterOptions{
		MaxRadius: plan.MaxRadius,
		Margin:    opts.Margin,
		Spacing:   opts.Spacing,
		Passes:    opts.Passes,
	})
	plan.Overlapping = dec.Overlapping

	format := text.NewFormatter(lb.Measurer, opts.FontFamily)
	for k, p := range dec.Labels {
		i := candSlice[k]
		s := slices[i]
		mid := s.Wedge().MidAngle()

		sign, anchor := 1.0, AnchorStart
		if p.Side == Left {
			sign, anchor = -1, AnchorEnd
		}
		elbowX := sign * (plan.MaxRadius + opts.ElbowOffset)
		anchorX := sign * (plan.MaxRadius + opts.ElbowOffset + opts.ColumnOffset)

		pts := []layout.Point{Polar(s.OuterRadius, mid)}
		if opts.RadialTick > 0 {
			pts = append(pts, Polar(s.OuterRadius+opts.RadialTick, mid))
		}
		pts = append(pts, layout.Point{X: elbowX, Y: p.Y}, layout.Point{X: anchorX, Y: p.Y})

		lines := fits[i].Lines
		runs := stack(lines, anchorX, p.Y, opts.FontSize, fitOpts.LineFactor, anchor)
		if opts.OutsideMaxWidth > 0 {
			for j := range runs {
				runs[j].Text = format.Format(lines[j], opts.OutsideMaxWidth, opts.FontSize)
				runs[j].Truncated = text.Truncated(lines[j], runs[j].Text)
			}
		}

		plan.Labels[i].FontSize = opts.FontSize
		plan.Labels[i].Side = p.Side
		plan.Labels[i].Runs = runs
		plan.Labels[i].Connector = pts
	}
	return plan
}

// Layout is a convenience wrapper around [Labeler.Layout].
func Layout(m text.Measurer, slices []Slice, opts Options) Plan {
	return NewLabeler(m).Layout(slices, opts)
}

// stack centres lines vertically on y.
func stack(lines []string, x, y, size, lineFactor float64, anchor Anchor) []TextRun {
	lh := size * lineFactor
	top := y - float64(len(lines))*lh/2
	runs := make([]TextRun, len(lines))
	for i, l := range lines {
		runs[i] = TextRun{
			X:        x,
			Y:        top + lh*(float64(i)+0.5),
			FontSize: size,
			Anchor:   anchor,
			Text:     l,
		}
	}
	return runs
}
