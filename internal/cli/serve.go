package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slotcraft/internal/config"
	"github.com/matzehuels/slotcraft/internal/server"
	"github.com/matzehuels/slotcraft/pkg/buildinfo"
	"github.com/matzehuels/slotcraft/pkg/cache"
	"github.com/matzehuels/slotcraft/pkg/design/stores"
	"github.com/matzehuels/slotcraft/pkg/observability/prom"
	"github.com/matzehuels/slotcraft/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		store      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Configuration is layered: built-in defaults, then the config file
(default ~/.config/slotcraft/config.toml), then .env, then SLOTCRAFT_*
environment variables, then flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{Path: configPath})
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if store != "" {
				cfg.Store.Backend = store
			}
			cfg.Catalog.Files = append(cfg.Catalog.Files, c.catalogFiles...)

			logger := loggerFromContext(cmd.Context())
			if level, err := log.ParseLevel(cfg.LogLevel); err == nil && !cmd.Flags().Changed("verbose") {
				logger.SetLevel(level)
			}

			cat, err := cfg.Catalog.LoadCatalog()
			if err != nil {
				return err
			}
			results, err := cfg.Cache.OpenCache(cmd.Context(), logger)
			if err != nil {
				return err
			}
			designs, err := stores.Open(cmd.Context(), cfg.Store, logger)
			if err != nil {
				results.Close()
				return err
			}
			defer designs.Close()

			prom.New(prometheus.DefaultRegisterer).Register()

			runner := pipeline.NewRunner(cat, results, cache.NewScopedKeyer(nil, buildinfo.CacheScope()), logger)
			defer runner.Close()

			srv := server.New(server.Options{
				Runner: runner,
				Store:  designs,
				Logger: logger,
				Config: cfg.Server,
			})
			logger.Info("serving", "addr", cfg.Server.Addr, "templates", cat.Len(),
				"cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
			if err := srv.Run(cmd.Context()); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (TOML)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&store, "store", "", fmt.Sprintf("design store backend %v (overrides config)", stores.Backends))

	return cmd
}
