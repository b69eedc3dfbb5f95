package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/fonts"
)

// fontsCommand creates the fonts command.
func (c *CLI) fontsCommand() *cobra.Command {
	var sample string

	cmd := &cobra.Command{
		Use:   "fonts [font stack]",
		Short: "List registered font families or resolve a font stack",
		Example: `  chartlayout fonts
  chartlayout fonts '"Segoe UI", helvetica, sans-serif'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.loadConfig(); err != nil {
				return err
			}
			reg := c.fonts
			m := c.measurer()

			if len(args) == 1 {
				family := reg.Resolve(args[0])
				printKeyValue("Resolved", StyleHighlight.Render(family))
				printKeyValue("Width", fmt.Sprintf("%.2fpx", m.Measure(sample, 12, family)))
				printDetail("%q at 12px", sample)
				return nil
			}

			for _, family := range reg.Families() {
				width := StyleNumber.Render(fmt.Sprintf("%6.2fpx", m.Measure(sample, 12, family)))
				marker := " "
				if family == fonts.DefaultFamily {
					marker = StyleSuccess.Render("*")
				}
				fmt.Printf("%s %-16s %s\n", marker, family, width)
			}
			printDetail("widths of %q at 12px, * marks the fallback family", sample)
			return nil
		},
	}

	cmd.Flags().StringVar(&sample, "sample", "Revenue by region", "text to measure")

	return cmd
}
