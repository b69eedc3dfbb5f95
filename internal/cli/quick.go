package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/layout/axis"
	"github.com/matzehuels/chartlayout/pkg/layout/legend"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// =============================================================================
// axis
// =============================================================================

// axisCommand creates the axis command for trying out tick label decisions.
func (c *CLI) axisCommand() *cobra.Command {
	var (
		width    float64
		fontSize float64
		mode     string
		family   string
	)

	cmd := &cobra.Command{
		Use:   "axis [labels...]",
		Short: "Decide thinning and rotation for category axis labels",
		Example: `  chartlayout axis --width 320 Jan Feb Mar Apr May Jun Jul Aug Sep Oct Nov Dec
  chartlayout axis --width 200 --mode always "North America" "South America" Europe`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := axis.ParseMode(mode)
			if err != nil {
				return err
			}
			req := pipeline.Request{
				Width:      width,
				FontFamily: family,
				Axis:       &pipeline.AxisRequest{Labels: args, FontSize: fontSize, Mode: m},
			}
			res, err := c.layoutOnce(req)
			if err != nil {
				return err
			}
			printAxis(res.Axis)
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "axis width in pixels")
	cmd.Flags().Float64Var(&fontSize, "font-size", pipeline.DefaultAxisFontSize, "label font size in pixels")
	cmd.Flags().StringVar(&mode, "mode", string(axis.ModeAuto), "rotation mode: auto, always, never")
	cmd.Flags().StringVar(&family, "family", "", "font family or CSS font stack")

	return cmd
}

func printAxis(a *pipeline.AxisResult) {
	if a == nil {
		printInfo("No labels")
		return
	}
	printKeyValue("Rotate", fmt.Sprint(a.ShouldRotate))
	printKeyValue("Skip", fmt.Sprintf("every %d", a.SkipInterval))
	if a.ShouldRotate {
		printKeyValue("Angle", fmt.Sprintf("%g°", a.Rotation))
	}
	printKeyValue("Margin", formatReservation(a.Reservation))

	shown := make([]string, len(a.Labels))
	for i, l := range a.Labels {
		shown[i] = l.DisplayText
	}
	printKeyValue("Shown", strings.Join(shown, ", "))
}

// =============================================================================
// legend
// =============================================================================

// legendCommand creates the legend command for trying out legend wrapping.
func (c *CLI) legendCommand() *cobra.Command {
	var (
		width    float64
		height   float64
		fontSize float64
		dock     string
		family   string
	)

	cmd := &cobra.Command{
		Use:     "legend [categories...]",
		Short:   "Wrap legend categories and report the reserved margin",
		Example: `  chartlayout legend --width 240 --dock bottom North South East West Central`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := pipeline.Request{
				Width:      width,
				Height:     height,
				FontFamily: family,
				Legend:     &pipeline.LegendRequest{Categories: args, Dock: legend.Dock(dock), FontSize: fontSize},
			}
			res, err := c.layoutOnce(req)
			if err != nil {
				return err
			}
			printLegend(res.Legend)
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "chart width in pixels")
	cmd.Flags().Float64Var(&height, "height", pipeline.DefaultHeight, "chart height in pixels")
	cmd.Flags().Float64Var(&fontSize, "font-size", 0, "label font size in pixels (default from config)")
	cmd.Flags().StringVar(&dock, "dock", string(legend.DockTop), "dock position: top, bottom, left, right, top-right, ...")
	cmd.Flags().StringVar(&family, "family", "", "font family or CSS font stack")

	return cmd
}

func printLegend(l *pipeline.LegendResult) {
	if l == nil || len(l.Layout.Rows) == 0 {
		printInfo("Legend hidden")
		return
	}
	printKeyValue("Dock", string(l.Dock))
	printKeyValue("Origin", fmt.Sprintf("%.1f, %.1f", l.Origin.X, l.Origin.Y))
	printKeyValue("Size", fmt.Sprintf("%.1f × %.1f", l.Layout.Width, l.Layout.Height))
	printKeyValue("Margin", formatReservation(l.Reservation))
	for i, row := range l.Layout.Rows {
		names := make([]string, len(row.Items))
		for j, it := range row.Items {
			names[j] = it.DisplayText
		}
		printDetail("row %d: %s", i+1, strings.Join(names, "  "))
	}
}

// =============================================================================
// Helpers
// =============================================================================

// layoutOnce runs one request through the pipeline without the cache.
func (c *CLI) layoutOnce(req pipeline.Request) (pipeline.Result, error) {
	if err := req.ValidateAndSetDefaults(); err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.GenerateLayout(c.measurer(), c.settings(), req), nil
}
