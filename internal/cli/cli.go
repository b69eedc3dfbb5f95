package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartlayout/pkg/buildinfo"
	"github.com/matzehuels/chartlayout/pkg/cache"
	"github.com/matzehuels/chartlayout/pkg/config"
	"github.com/matzehuels/chartlayout/pkg/fonts"
	"github.com/matzehuels/chartlayout/pkg/layout/text"
	"github.com/matzehuels/chartlayout/pkg/observability"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty uses config.DefaultPath.
	ConfigPath string

	cfg   *config.Config
	fonts *fonts.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also installs
// log-backed pipeline and cache hooks.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := &logHooks{logger: c.Logger}
		observability.SetPipelineHooks(h)
		observability.SetCacheHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "chartlayout",
		Short: "Chartlayout plans label layouts for BI charts",
		Long: `Chartlayout decides how chart labels should be laid out before anything is drawn:
axis tick thinning and rotation, wrapped legends and the margins they need,
and pie or donut labels placed inside slices or decluttered outside them.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ~/.config/chartlayout/config.toml)")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.axisCommand())
	root.AddCommand(c.legendCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	c.registerCompletions(root)

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration once and registers its fonts.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	reg := fonts.Default()
	if err := cfg.RegisterFonts(reg); err != nil {
		return config.Config{}, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path, "fonts", len(cfg.Fonts.Files))
	}
	c.cfg = &cfg
	c.fonts = reg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, cfg.Cache.Prefix), c.Logger)
	r.Measurer = text.NewMeasurer(c.fonts)
	r.Settings = cfg.Settings()
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.CacheOptions())
}

// settings returns the configured pipeline settings, falling back to the
// defaults when the configuration cannot be read.
func (c *CLI) settings() pipeline.Settings {
	cfg, err := c.loadConfig()
	if err != nil {
		c.Logger.Warn("using default settings", "error", err)
		return pipeline.DefaultSettings()
	}
	return cfg.Settings()
}

// measurer returns a measurer over the configured font registry.
func (c *CLI) measurer() text.Measurer {
	if _, err := c.loadConfig(); err != nil || c.fonts == nil {
		return text.Default()
	}
	return text.NewMeasurer(c.fonts)
}
