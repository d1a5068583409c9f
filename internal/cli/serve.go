package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskdeck/internal/logging"
	"taskdeck/internal/server"
	"taskdeck/internal/storage"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		listen string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the todo collection server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Server.Listen = listen
			}
			if cmd.Flags().Changed("db") {
				cfg.Server.DBPath = dbPath
			} else {
				cfg.Server.DBPath = resolveDBPath(cfg.Server.DBPath, path)
			}

			logger := logging.New(os.Stderr, cfg.LogLevel)

			store, err := storage.Open(cfg.Server.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer store.Close()

			srv, err := server.New(store, logger)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			logger.Info("serving todos", "listen", cfg.Server.Listen, "db", cfg.Server.DBPath)
			return srv.ListenAndServe(ctx, cfg.Server.Listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (overrides server.listen)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides server.db_path)")
	return cmd
}
