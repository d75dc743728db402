package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/server"
)

// serveCommand runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		maxRecords int
		noCache    bool
		flags      sheetFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve label sheet generation over HTTP",
		Long: `Start the HTTP service.

  GET  /healthz     liveness and version
  POST /v1/sheets   {"records": [...], "grid": {...}, "format": "pdf"} → document
  POST /v1/locate   {"index": 25, "grid": {...}} → slot

Sheet flags set the defaults that requests may override. Rendered
artifacts are shared through the configured cache (Redis when
[cache.redis] addr or LABELSHEET_REDIS_ADDR is set).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			defaults, err := optionsFromConfig(cfg)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &defaults); err != nil {
				return err
			}
			if err := defaults.Validate(); err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if maxRecords == 0 {
				maxRecords = cfg.Server.MaxRecords
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Config{
				Addr:       addr,
				MaxRecords: maxRecords,
				Defaults:   defaults,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&maxRecords, "max-records", 0, "largest accepted record list")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
