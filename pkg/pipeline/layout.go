package pipeline

import (
	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/axis"
	"github.com/matzehuels/chartlayout/pkg/layout/legend"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the label geometry of a validated request. It does
// no caching or logging; see [Runner.Execute] for that.
//
// The legend is reserved first against the full viewport, the axis is then
// planned at the remaining plot width, and radial labels are centred in what
// is left after both reservations.
func GenerateLayout(m text.Measurer, s Settings, req Request) Result {
	if m == nil {
		m = text.Default()
	}
	family := req.FontFamily
	if family == "" {
		family = s.FontFamily
	}

	viewport := layout.Rect{Width: req.Width, Height: req.Height}
	res := Result{
		ID:       req.ID,
		Kind:     req.Kind,
		Viewport: viewport,
		PlotArea: viewport,
		Stats:    Stats{Labels: req.LabelCount()},
	}

	if req.Legend != nil {
		res.Legend = generateLegend(m, s, family, viewport, req.Legend)
		res.Reservation = res.Reservation.Add(res.Legend.Reservation)
		res.PlotArea = layout.Inset(viewport, res.Reservation)
	}

	if req.Axis != nil {
		res.Axis = generateAxis(m, s, family, res.PlotArea.Width, req.Axis)
		res.Reservation = res.Reservation.Add(res.Axis.Reservation)
		res.PlotArea = layout.Inset(viewport, res.Reservation)
	}

	if req.Radial != nil {
		res.Radial = generateRadial(m, s, family, res.PlotArea, req.Radial)
	}
	return res
}

// =============================================================================
// Legend
// =============================================================================

func generateLegend(m text.Measurer, s Settings, family string, viewport layout.Rect, req *LegendRequest) *LegendResult {
	style := s.Legend
	_ = overlay(req.Style, &style) // checked by ValidateAndSetDefaults
	if style.FontFamily == "" {
		style.FontFamily = family
	}
	if req.FontSize > 0 {
		style.FontSize = req.FontSize
	}

	e := legend.New(m)
	out := &LegendResult{
		Dock:        req.Dock,
		Style:       style,
		Reservation: e.Reserve(req.Categories, viewport.Width, req.Dock, style),
	}
	out.Layout, out.Origin = e.Place(req.Categories, viewport, req.Dock, style)
	return out
}

// =============================================================================
// Axis
// =============================================================================

func generateAxis(m text.Measurer, s Settings, family string, width float64, req *AxisRequest) *AxisResult {
	opts := s.Axis
	_ = overlay(req.Options, &opts)
	size := req.FontSize
	if size <= 0 {
		size = s.AxisFontSize
	}

	d := axis.NewPlanner(m, opts).Plan(req.Labels, width, size, family, req.Mode)
	out := &AxisResult{Decision: d, FontSize: size}
	if d.ShouldRotate {
		out.Rotation = opts.Rotation
		if out.Rotation <= 0 {
			out.Rotation = axis.DefaultRotation
		}
	}

	format := text.NewFormatter(m, family)
	var widest float64
	for _, i := range axis.Visible(len(req.Labels), d.SkipInterval) {
		label := req.Labels[i]
		display := label
		if d.ShouldRotate && opts.MaxRotatedWidth > 0 {
			display = format.Format(label, opts.MaxRotatedWidth, size)
		}
		widest = max(widest, m.Measure(display, size, family))
		out.Labels = append(out.Labels, AxisLabel{
			Index:       i,
			X:           axis.TickX(i, len(req.Labels), width, opts.Padding),
			Text:        label,
			DisplayText: display,
			Truncated:   text.Truncated(label, display),
		})
	}

	lineFactor := s.AxisLineFactor
	if len(req.Labels) > 0 {
		out.Reservation = axis.Reserve(d, widest, size, lineFactor, opts)
	}
	return out
}

// =============================================================================
// Radial
// =============================================================================

func generateRadial(m text.Measurer, s Settings, family string, plot layout.Rect, req *RadialRequest) *radial.Plan {
	opts := s.Radial
	_ = overlay(req.Options, &opts)
	if opts.FontFamily == "" {
		opts.FontFamily = family
	}
	c := plot.Center()
	plan := radial.NewLabeler(m).Layout(req.Slices, opts).Translate(c.X, c.Y)
	return &plan
}
