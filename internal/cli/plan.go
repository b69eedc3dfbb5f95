package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/pipeline"
	"github.com/matzehuels/chartlayout/pkg/render"
)

// planOptions holds the flags of the plan command.
type planOptions struct {
	output  string
	chart   string
	pick    bool
	noCache bool
	refresh bool
	svgDir  string
	guides  bool
}

// planCommand creates the plan command for laying out a request file.
func (c *CLI) planCommand() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan [request.json]",
		Short: "Lay out every chart in a request file",
		Long: `Lay out every chart in a request file.

The request file holds one chart request or an array of them. Each chart is
planned independently: the legend is reserved first, the axis is planned
against the remaining plot width, and radial labels are centred in the plot
area. The results are written as JSON (default: <input>.layout.json, use
-o - for stdout). --svg writes a preview of each chart next to it.

Results are cached; use --refresh to recompute or --no-cache to bypass the
cache entirely.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRequestFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "plan only the chart with this id")
	cmd.Flags().BoolVarP(&opts.pick, "interactive", "i", false, "pick a chart interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached layouts")
	cmd.Flags().StringVar(&opts.svgDir, "svg", "", "also write an SVG preview per chart into this directory")
	cmd.Flags().BoolVar(&opts.guides, "guides", true, "draw plot area and margin guides in SVG previews")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, input string, opts planOptions) error {
	reqs, err := pipeline.ReadRequestFile(input)
	if err != nil {
		return err
	}

	reqs, err = selectCharts(reqs, opts)
	if err != nil || len(reqs) == 0 {
		return err
	}
	for i := range reqs {
		reqs[i].Refresh = opts.refresh
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	out := opts.output
	if out == "" {
		out = defaultOutputPath(input)
	}
	toStdout := out == "-"

	prog := newProgress(c.Logger)
	var spin *Spinner
	if !toStdout && len(reqs) > 1 {
		spin = newSpinner(ctx, os.Stderr, len(reqs))
		runner.Progress = func(_, _ int, res *pipeline.Result) { spin.Advance(res) }
		spin.Start()
	}

	results, err := runner.ExecuteBatch(ctx, reqs)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if err := pipeline.WriteResultFile(out, results); err != nil {
		return err
	}
	var previews []string
	if opts.svgDir != "" {
		if previews, err = writePreviews(opts.svgDir, results, opts.guides); err != nil {
			return err
		}
	}
	if toStdout {
		return nil
	}

	prog.done("Planned " + planSummary(results))
	printSuccess("Layout written")
	printFile(out)
	for _, p := range previews {
		printFile(p)
	}
	fmt.Println(resultTable(results))
	for _, r := range results {
		if r.Radial != nil && r.Radial.Overlapping {
			printWarning("%s: outside labels still overlap", r.ID)
		}
	}
	return nil
}

// selectCharts narrows reqs to the chart named by --chart or picked
// interactively. A nil slice with a nil error means the user cancelled.
func selectCharts(reqs []pipeline.Request, opts planOptions) ([]pipeline.Request, error) {
	if opts.chart != "" {
		for _, r := range reqs {
			if r.ID == opts.chart {
				return []pipeline.Request{r}, nil
			}
		}
		return nil, fmt.Errorf("chart %q not found", opts.chart)
	}
	if !opts.pick || len(reqs) < 2 {
		return reqs, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, fmt.Errorf("--interactive requires a terminal")
	}
	sel, err := pickChart(reqs)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		printInfo("No chart selected")
		return nil, nil
	}
	return []pipeline.Request{*sel}, nil
}

// writePreviews renders one SVG per result into dir and returns the paths.
func writePreviews(dir string, results []*pipeline.Result, guides bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	var opts []render.SVGOption
	if guides {
		opts = append(opts, render.WithGuides())
	}
	paths := make([]string, len(results))
	for i, r := range results {
		name := r.ID
		if name == "" {
			name = fmt.Sprintf("chart-%d", i+1)
		}
		paths[i] = filepath.Join(dir, strings.ReplaceAll(name, "/", "_")+".svg")
		if err := os.WriteFile(paths[i], render.RenderSVG(r, opts...), 0o644); err != nil {
			return nil, fmt.Errorf("write preview: %w", err)
		}
	}
	return paths, nil
}

// defaultOutputPath derives the output file from the request file name.
func defaultOutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".layout.json"
}
