package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// ChartListModel - Interactive chart selection
// =============================================================================

// ChartListModel is the bubbletea model for picking one chart out of a
// request file.
type ChartListModel struct {
	Charts   []pipeline.Request
	Cursor   int
	Selected *pipeline.Request
	Height   int
	Offset   int
}

// NewChartListModel creates a new chart list model.
func NewChartListModel(charts []pipeline.Request) ChartListModel {
	return ChartListModel{Charts: charts, Height: 15}
}

func (m ChartListModel) Init() tea.Cmd {
	return nil
}

func (m ChartListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Charts)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Charts) == 0 {
				return m, tea.Quit
			}
			req := m.Charts[m.Cursor]
			m.Selected = &req
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ChartListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Chart"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Charts))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Charts[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, chartLabel(r, i), chartKind(r), chartSize(r), strconv.Itoa(r.LabelCount())})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Chart", "Kind", "Size", "Labels").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Charts))))

	return b.String()
}

// pickChart runs the chart picker and returns the selection, or nil when the
// user quit without choosing.
func pickChart(charts []pipeline.Request) (*pipeline.Request, error) {
	final, err := tea.NewProgram(NewChartListModel(charts)).Run()
	if err != nil {
		return nil, err
	}
	return final.(ChartListModel).Selected, nil
}

// =============================================================================
// Result Table
// =============================================================================

// resultTable renders a one-line summary per planned chart.
func resultTable(results []*pipeline.Result) string {
	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.ID,
			r.Kind,
			formatPlot(r),
			formatAxis(r.Axis),
			formatLegend(r.Legend),
			cacheStatus(r.Stats.Cached),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Chart", "Kind", "Plot area", "Axis", "Legend", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 5 && results[row].Stats.Cached:
				return styleCached
			case col == 5:
				return styleComputed
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// =============================================================================
// Helpers
// =============================================================================

func chartLabel(r pipeline.Request, i int) string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("#%d", i+1)
}

func chartKind(r pipeline.Request) string {
	switch {
	case r.Kind != "":
		return r.Kind
	case r.Radial != nil:
		return pipeline.KindRadial
	default:
		return pipeline.KindCartesian
	}
}

func chartSize(r pipeline.Request) string {
	if r.Width == 0 && r.Height == 0 {
		return "default"
	}
	return fmt.Sprintf("%g×%g", r.Width, r.Height)
}

func formatPlot(r *pipeline.Result) string {
	p := r.PlotArea
	return fmt.Sprintf("%.0f×%.0f @ %.0f,%.0f", p.Width, p.Height, p.X, p.Y)
}

func formatAxis(a *pipeline.AxisResult) string {
	if a == nil {
		return "—"
	}
	s := fmt.Sprintf("%d shown, every %d", len(a.Labels), a.SkipInterval)
	if a.ShouldRotate {
		s += fmt.Sprintf(", %g°", a.Rotation)
	}
	return s
}

func formatLegend(l *pipeline.LegendResult) string {
	if l == nil {
		return "—"
	}
	return fmt.Sprintf("%s, %d rows", l.Dock, len(l.Layout.Rows))
}

func cacheStatus(cached bool) string {
	if cached {
		return iconCached
	}
	return iconFresh
}
