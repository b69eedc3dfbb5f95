package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/internal/server"
	"github.com/matzehuels/chartlayout/pkg/cache"
)

// serveCommand creates the serve command that runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

The service accepts the same chart requests as 'plan' on POST /v1/layout and
POST /v1/layout/batch, SVG previews on POST /v1/layout/preview, plus the
component endpoints /v1/axis, /v1/legend and /v1/radial. It shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger, server.Options{
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	printInfo("Serving on %s", StyleHighlight.Render(addr))
	printDetail("Cache: %s", cache.BackendName(runner.Cache))
	printNextStep("Try it", "curl -s localhost"+portOf(addr)+"/healthz")

	return srv.ListenAndServe(ctx, addr)
}

// portOf returns the ":port" suffix of addr.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i:]
		}
	}
	return ""
}
