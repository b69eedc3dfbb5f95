package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

const previewCSS = `
    text { fill: #333; }
    .frame { fill: %s; stroke: #ccc; }
    .plot { fill: none; stroke: #4a90d9; stroke-dasharray: 4 3; }
    .reserved { fill: #4a90d9; fill-opacity: 0.08; }
    .ring { fill: none; stroke: #bbb; stroke-dasharray: 2 3; }
    .connector { fill: none; stroke: #888; }
    .truncated { font-style: italic; }`

// DefaultPalette colours legend swatches in category order.
var DefaultPalette = []string{"#118dff", "#12239e", "#e66c37", "#6b007b", "#e044a7", "#744ec2", "#d9b300", "#d64550"}

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	guides     bool
	palette    []string
	fontFamily string
	background string
}

// WithGuides draws the plot area, the reserved margins and radial rings.
func WithGuides() SVGOption { return func(r *svgRenderer) { r.guides = true } }

// WithPalette sets the legend swatch colours.
func WithPalette(colors []string) SVGOption {
	return func(r *svgRenderer) {
		if len(colors) > 0 {
			r.palette = colors
		}
	}
}

// WithFontFamily sets the CSS font-family of all text.
func WithFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = family }
}

// WithBackground sets the frame fill colour.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG renders res as a standalone SVG document.
func RenderSVG(res *pipeline.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	vp := res.Viewport

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		vp.Width, vp.Height, vp.Width, vp.Height, escapeXML(r.fontFamily))
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", fmt.Sprintf(previewCSS, r.background))
	if res.ID != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(res.ID))
	}
	fmt.Fprintf(&buf, `  <rect class="frame" x="0" y="0" width="%.1f" height="%.1f"/>`+"\n", vp.Width, vp.Height)

	if r.guides {
		renderGuides(&buf, res)
	}
	if res.Legend != nil {
		r.renderLegend(&buf, res.Legend)
	}
	if res.Axis != nil {
		renderAxis(&buf, res.Axis, res.PlotArea)
	}
	if res.Radial != nil {
		renderRadial(&buf, res.Radial, res.PlotArea, r.guides)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{palette: DefaultPalette, fontFamily: "sans-serif", background: "#fff"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// =============================================================================
// Guides
// =============================================================================

func renderGuides(buf *bytes.Buffer, res *pipeline.Result) {
	vp, rv := res.Viewport, res.Reservation
	bands := []layout.Rect{
		{X: 0, Y: 0, Width: vp.Width, Height: rv.Top},
		{X: 0, Y: vp.Height - rv.Bottom, Width: vp.Width, Height: rv.Bottom},
		{X: 0, Y: rv.Top, Width: rv.Left, Height: vp.Height - rv.Top - rv.Bottom},
		{X: vp.Width - rv.Right, Y: rv.Top, Width: rv.Right, Height: vp.Height - rv.Top - rv.Bottom},
	}
	for _, b := range bands {
		if b.Width <= 0 || b.Height <= 0 {
			continue
		}
		fmt.Fprintf(buf, `  <rect class="reserved" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", b.X, b.Y, b.Width, b.Height)
	}
	p := res.PlotArea
	fmt.Fprintf(buf, `  <rect class="plot" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n", p.X, p.Y, p.Width, p.Height)
}

// =============================================================================
// Legend
// =============================================================================

func (r *svgRenderer) renderLegend(buf *bytes.Buffer, l *pipeline.LegendResult) {
	s := l.Style
	rowHeight := l.Layout.RowHeight
	buf.WriteString(`  <g class="legend">` + "\n")
	for _, it := range l.Layout.Items() {
		x := l.Origin.X + it.X
		y := l.Origin.Y + it.Y
		color := r.palette[it.Index%len(r.palette)]
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			x, y+(rowHeight-s.SwatchSize)/2, s.SwatchSize, s.SwatchSize, escapeXML(color))
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" dominant-baseline="central"%s>%s%s</text>`+"\n",
			x+s.SwatchSize+s.SwatchGap, y+rowHeight/2, s.FontSize,
			truncatedClass(it.Truncated), escapeXML(it.DisplayText), fullText(it.Category, it.Truncated))
	}
	buf.WriteString("  </g>\n")
}

// =============================================================================
// Axis
// =============================================================================

func renderAxis(buf *bytes.Buffer, a *pipeline.AxisResult, plot layout.Rect) {
	baseline := plot.Y + plot.Height + a.FontSize
	buf.WriteString(`  <g class="axis">` + "\n")
	for _, l := range a.Labels {
		x := plot.X + l.X
		if a.ShouldRotate {
			fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="end" transform="rotate(%.1f %.1f %.1f)"%s>%s%s</text>`+"\n",
				x, baseline, a.FontSize, -a.Rotation, x, baseline,
				truncatedClass(l.Truncated), escapeXML(l.DisplayText), fullText(l.Text, l.Truncated))
			continue
		}
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle"%s>%s%s</text>`+"\n",
			x, baseline, a.FontSize, truncatedClass(l.Truncated), escapeXML(l.DisplayText), fullText(l.Text, l.Truncated))
	}
	buf.WriteString("  </g>\n")
}

// =============================================================================
// Radial
// =============================================================================

func renderRadial(buf *bytes.Buffer, p *radial.Plan, plot layout.Rect, guides bool) {
	buf.WriteString(`  <g class="radial">` + "\n")
	if guides && p.MaxRadius > 0 {
		c := plot.Center()
		fmt.Fprintf(buf, `    <circle class="ring" cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", c.X, c.Y, p.MaxRadius)
	}
	for _, l := range p.Labels {
		if l.Placement == radial.Hidden {
			continue
		}
		if len(l.Connector) > 0 {
			pts := make([]string, len(l.Connector))
			for i, pt := range l.Connector {
				pts[i] = fmt.Sprintf("%.1f,%.1f", pt.X, pt.Y)
			}
			fmt.Fprintf(buf, `    <polyline class="connector" points="%s"/>`+"\n", strings.Join(pts, " "))
		}
		for _, run := range l.Runs {
			fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="%s" dominant-baseline="central"%s>%s</text>`+"\n",
				run.X, run.Y, run.FontSize, run.Anchor, truncatedClass(run.Truncated), escapeXML(run.Text))
		}
	}
	buf.WriteString("  </g>\n")
}

// =============================================================================
// Helpers
// =============================================================================

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func truncatedClass(truncated bool) string {
	if truncated {
		return ` class="truncated"`
	}
	return ""
}

// fullText adds the untruncated label as a tooltip.
func fullText(text string, truncated bool) string {
	if !truncated {
		return ""
	}
	return "<title>" + escapeXML(text) + "</title>"
}
