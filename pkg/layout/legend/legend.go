package legend

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
)

// Dock is the declared edge or corner a legend is anchored to.
type Dock string

const (
	DockNone        Dock = "none"
	DockTop         Dock = "top"
	DockTopLeft     Dock = "top-left"
	DockTopRight    Dock = "top-right"
	DockBottom      Dock = "bottom"
	DockBottomLeft  Dock = "bottom-left"
	DockBottomRight Dock = "bottom-right"
	DockLeft        Dock = "left"
	DockRight       Dock = "right"
)

// Docks lists every valid dock in display order.
var Docks = []Dock{
	DockNone, DockTop, DockTopLeft, DockTopRight,
	DockBottom, DockBottomLeft, DockBottomRight, DockLeft, DockRight,
}

// ParseDock parses a dock name case-insensitively. Centered variants such as
// "top-center" or "TopCenter" map to their edge; the empty string is DockNone.
func ParseDock(s string) (Dock, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "_", "-")
	v = strings.ReplaceAll(v, " ", "-")
	switch v {
	case "":
		return DockNone, nil
	case "topcenter", "top-center", "center-top":
		return DockTop, nil
	case "bottomcenter", "bottom-center", "center-bottom":
		return DockBottom, nil
	case "leftcenter", "left-center", "center-left":
		return DockLeft, nil
	case "rightcenter", "right-center", "center-right":
		return DockRight, nil
	case "topleft":
		return DockTopLeft, nil
	case "topright":
		return DockTopRight, nil
	case "bottomleft":
		return DockBottomLeft, nil
	case "bottomright":
		return DockBottomRight, nil
	}
	for _, d := range Docks {
		if string(d) == v {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid legend dock: %q", s)
}

// Edge returns the chart edge the dock reserves space on: "top", "bottom",
// "left", "right", or "" for DockNone.
func (d Dock) Edge() string {
	switch d {
	case DockTop, DockTopLeft, DockTopRight:
		return "top"
	case DockBottom, DockBottomLeft, DockBottomRight:
		return "bottom"
	case DockLeft:
		return "left"
	case DockRight:
		return "right"
	}
	return ""
}

// IsSide reports whether the legend renders as a vertical column.
func (d Dock) IsSide() bool { return d == DockLeft || d == DockRight }

// Style controls legend geometry. All lengths are pixels.
type Style struct {
	FontSize   float64 `json:"font_size" toml:"font_size"`
	FontFamily string  `json:"font_family" toml:"font_family"`

	SwatchSize    float64 `json:"swatch_size" toml:"swatch_size"`
	SwatchGap     float64 `json:"swatch_gap" toml:"swatch_gap"`
	ItemGap       float64 `json:"item_gap" toml:"item_gap"`
	MinRowHeight  float64 `json:"min_row_height" toml:"min_row_height"`
	LineFactor    float64 `json:"line_factor" toml:"line_factor"`
	MaxLabelWidth float64 `json:"max_label_width" toml:"max_label_width"`

	// Padding separates the legend block from the plot area.
	Padding float64 `json:"padding" toml:"padding"`

	// MaxSideFraction caps a side-docked reservation as a fraction of the
	// chart width. Zero disables the cap.
	MaxSideFraction float64 `json:"max_side_fraction" toml:"max_side_fraction"`
}

// DefaultStyle returns the legend style shared by the chart plugins.
func DefaultStyle() Style {
	return Style{
		FontSize:        11,
		SwatchSize:      10,
		SwatchGap:       4,
		ItemGap:         12,
		MinRowHeight:    16,
		LineFactor:      1.5,
		MaxLabelWidth:   150,
		Padding:         6,
		MaxSideFraction: 0.3,
	}
}

// RowHeight returns max(MinRowHeight, FontSize × LineFactor). It depends only
// on the style, never on the item count.
func (s Style) RowHeight() float64 {
	return max(s.MinRowHeight, s.FontSize*s.LineFactor)
}

// Item is one placed legend entry. X and Y are relative to the legend origin;
// Y is the top of the item's row.
type Item struct {
	Index       int     `json:"index"`
	Category    string  `json:"category"`
	DisplayText string  `json:"display_text"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	TextWidth   float64 `json:"text_width"`
	Truncated   bool    `json:"truncated,omitempty"`
}

// Row is a horizontal run of items. Width includes trailing item gaps.
type Row struct {
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
	Items []Item  `json:"items"`
}

// Layout is a wrapped or column legend.
type Layout struct {
	Rows      []Row   `json:"rows"`
	RowHeight float64 `json:"row_height"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Items returns every placed item in input order.
func (l Layout) Items() []Item {
	var out []Item
	for _, r := range l.Rows {
		out = append(out, r.Items...)
	}
	return out
}

// Engine lays out legends with a shared measurer.
type Engine struct {
	Measurer text.Measurer
}

// New returns an engine. A nil measurer uses [text.Default].
func New(m text.Measurer) *Engine {
	if m == nil {
		m = text.Default()
	}
	return &Engine{Measurer: m}
}

// Build wraps categories into rows no wider than availableWidth. An item
// wider than availableWidth on its own occupies a row by itself.
func (e *Engine) Build(categories []string, availableWidth float64, s Style) Layout {
	l := Layout{RowHeight: s.RowHeight()}
	if len(categories) == 0 {
		return l
	}

	fixed := s.SwatchSize + s.SwatchGap + s.ItemGap
	maxLabel := max(availableWidth-fixed, 0)
	if s.MaxLabelWidth > 0 {
		maxLabel = min(maxLabel, s.MaxLabelWidth)
	}

	var row Row
	flush := func() {
		row.Y = float64(len(l.Rows)) * l.RowHeight
		for i := range row.Items {
			row.Items[i].Y = row.Y
		}
		l.Width = max(l.Width, row.Width)
		l.Rows = append(l.Rows, row)
		row = Row{}
	}

	for i, c := range categories {
		it := e.item(i, c, maxLabel, s)
		it.Width += s.ItemGap
		if len(row.Items) > 0 && row.Width+it.Width > availableWidth {
			flush()
		}
		it.X = row.Width
		row.Items = append(row.Items, it)
		row.Width += it.Width
	}
	flush()

	l.Height = float64(len(l.Rows)) * l.RowHeight
	return l
}

// BuildColumn lays categories out as an unwrapped vertical list, one item per
// row, as used by side-docked legends. Items carry no trailing gap.
func (e *Engine) BuildColumn(categories []string, s Style) Layout {
	l := Layout{RowHeight: s.RowHeight()}
	maxLabel := s.MaxLabelWidth
	if maxLabel <= 0 {
		maxLabel = -1
	}
	for i, c := range categories {
		it := e.item(i, c, maxLabel, s)
		it.Y = float64(i) * l.RowHeight
		l.Rows = append(l.Rows, Row{Y: it.Y, Width: it.Width, Items: []Item{it}})
		l.Width = max(l.Width, it.Width)
	}
	l.Height = float64(len(l.Rows)) * l.RowHeight
	return l
}

// item measures one entry. A negative maxLabel disables truncation.
func (e *Engine) item(i int, category string, maxLabel float64, s Style) Item {
	display := category
	if maxLabel >= 0 {
		display = text.NewFormatter(e.Measurer, s.FontFamily).Format(category, maxLabel, s.FontSize)
	}
	tw := e.Measurer.Measure(display, s.FontSize, s.FontFamily)
	return Item{
		Index:       i,
		Category:    category,
		DisplayText: display,
		TextWidth:   tw,
		Width:       s.SwatchSize + s.SwatchGap + tw,
		Truncated:   text.Truncated(category, display),
	}
}

// Reserve returns the margin a chart of chartWidth must add so plotted content
// never underlaps a legend docked at d. Top and bottom docks reserve the
// wrapped row count across the full chart width; side docks reserve the widest
// column item.
func (e *Engine) Reserve(categories []string, chartWidth float64, d Dock, s Style) layout.Reservation {
	if len(categories) == 0 {
		return layout.Reservation{}
	}
	switch d.Edge() {
	case "top":
		return layout.Reservation{Top: e.Build(categories, chartWidth, s).Height + s.Padding}.Clamp()
	case "bottom":
		return layout.Reservation{Bottom: e.Build(categories, chartWidth, s).Height + s.Padding}.Clamp()
	case "left", "right":
		w := e.BuildColumn(categories, s).Width + s.Padding
		if s.MaxSideFraction > 0 && chartWidth > 0 {
			w = min(w, s.MaxSideFraction*chartWidth)
		}
		if d == DockLeft {
			return layout.Reservation{Left: w}.Clamp()
		}
		return layout.Reservation{Right: w}.Clamp()
	}
	return layout.Reservation{}
}

// Place lays out categories for dock d inside chart and returns the layout
// together with the origin of its top-left corner in chart coordinates.
func (e *Engine) Place(categories []string, chart layout.Rect, d Dock, s Style) (Layout, layout.Point) {
	if d == DockNone || len(categories) == 0 {
		return Layout{RowHeight: s.RowHeight()}, layout.Point{X: chart.X, Y: chart.Y}
	}
	var l Layout
	if d.IsSide() {
		capped := s
		if s.MaxSideFraction > 0 && chart.Width > 0 {
			// Truncate harder so the column stays inside its capped reservation.
			limit := s.MaxSideFraction*chart.Width - s.Padding - s.SwatchSize - s.SwatchGap
			if s.MaxLabelWidth <= 0 || limit < s.MaxLabelWidth {
				capped.MaxLabelWidth = max(limit, math.SmallestNonzeroFloat64)
			}
		}
		l = e.BuildColumn(categories, capped)
	} else {
		l = e.Build(categories, chart.Width, s)
	}
	return l, Origin(l, chart, d)
}

// Origin returns the top-left corner of legend l docked at d inside chart.
func Origin(l Layout, chart layout.Rect, d Dock) layout.Point {
	p := layout.Point{X: chart.X, Y: chart.Y}
	switch d {
	case DockTop, DockBottom:
		p.X = chart.X + (chart.Width-l.Width)/2
	case DockTopRight, DockBottomRight, DockRight:
		p.X = chart.X + chart.Width - l.Width
	}
	switch d.Edge() {
	case "bottom":
		p.Y = chart.Y + chart.Height - l.Height
	case "left", "right":
		p.Y = chart.Y + (chart.Height-l.Height)/2
	}
	p.X = max(p.X, chart.X)
	p.Y = max(p.Y, chart.Y)
	return p
}
