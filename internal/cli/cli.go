package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slotcraft/internal/config"
	"github.com/matzehuels/slotcraft/pkg/buildinfo"
	"github.com/matzehuels/slotcraft/pkg/cache"
	"github.com/matzehuels/slotcraft/pkg/core/catalog"
	"github.com/matzehuels/slotcraft/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// catalogFiles are extra TOML template files from --catalog.
	catalogFiles []string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Slotcraft fills design templates with your media",
		Long:         `Slotcraft matches images, logos and other media to the slots of design templates and produces placements a canvas editor can draw.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}
	root.PersistentFlags().StringSliceVar(&c.catalogFiles, "catalog", nil, "extra template catalog files (TOML)")

	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.assignCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.suggestCommand())
	root.AddCommand(c.elementsCommand())
	root.AddCommand(c.placementsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadCatalog returns the built-in catalog extended with --catalog files.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(catalog.Builtin(), false, c.catalogFiles...)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cat, err := c.loadCatalog()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cat, newCache(noCache), cache.NewScopedKeyer(nil, buildinfo.CacheScope()), c.Logger), nil
}

// newCache returns the file cache, or a null cache when caching is disabled
// or the cache directory is unusable.
func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/slotcraft/).
func cacheDir() (string, error) {
	return config.CacheDir()
}
