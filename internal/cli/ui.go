package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chartlayout/pkg/layout"
	"github.com/matzehuels/chartlayout/pkg/layout/radial"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary values
	colorGreen  = lipgloss.Color("35")  // success, cached
	colorYellow = lipgloss.Color("220") // warnings, overlaps
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for resolved values such as a font family or address.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleNumber for measured widths and counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success markers.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(StyleSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(StyleDim.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

// printKeyValue prints one field of a layout decision.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Layout Summaries
// =============================================================================

// formatReservation lists the non-zero edges of r, e.g. "top 12.0, left 4.0".
func formatReservation(r layout.Reservation) string {
	var parts []string
	for _, side := range []struct {
		name string
		v    float64
	}{{"top", r.Top}, {"right", r.Right}, {"bottom", r.Bottom}, {"left", r.Left}} {
		if side.v > 0 {
			parts = append(parts, fmt.Sprintf("%s %.1f", side.name, side.v))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// planSummary counts what a batch of layouts had to do to fit, e.g.
// "3 charts, 1 cached, 2 rotated axes, 4 truncated labels".
func planSummary(results []*pipeline.Result) string {
	var cached, rotated, thinned, truncated, overlapping int
	for _, r := range results {
		if r.Stats.Cached {
			cached++
		}
		if a := r.Axis; a != nil {
			if a.ShouldRotate {
				rotated++
			}
			if a.SkipInterval > 1 {
				thinned++
			}
			for _, l := range a.Labels {
				if l.Truncated {
					truncated++
				}
			}
		}
		if l := r.Legend; l != nil {
			for _, it := range l.Layout.Items() {
				if it.Truncated {
					truncated++
				}
			}
		}
		if p := r.Radial; p != nil {
			if p.Overlapping {
				overlapping++
			}
			truncated += truncatedRadial(p)
		}
	}

	parts := []string{fmt.Sprintf("%d %s", len(results), plural(len(results), "chart"))}
	for _, c := range []struct {
		n    int
		word string
	}{
		{cached, "cached"},
		{rotated, plural(rotated, "rotated axis")},
		{thinned, plural(thinned, "thinned axis")},
		{truncated, plural(truncated, "truncated label")},
		{overlapping, "overlapping"},
	} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.word))
		}
	}
	return strings.Join(parts, ", ")
}

func truncatedRadial(p *radial.Plan) int {
	var n int
	for _, l := range p.Labels {
		for _, run := range l.Runs {
			if run.Truncated {
				n++
				break
			}
		}
	}
	return n
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	if strings.HasSuffix(word, "axis") {
		return strings.TrimSuffix(word, "axis") + "axes"
	}
	return word + "s"
}
