package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/ui"
)

type App struct {
	ConfigPath string
	APIURL     string
	UserID     int
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskdeck",
		Short:        "Terminal client for a remote todo list",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open your list
  taskdeck

  # Point at another server for one run
  taskdeck --api-url http://localhost:9000 --user-id 3

  # Run the todo server backed by SQLite
  taskdeck serve --listen :8080 --db ./todos.db
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $"+config.EnvConfigPath+" or the user config dir)")
	cmd.Flags().StringVar(&app.APIURL, "api-url", "", "Base URL of the todo server (overrides api_url)")
	cmd.Flags().IntVar(&app.UserID, "user-id", 0, "Owner whose todos are shown (overrides user_id)")

	cmd.AddCommand(newServeCmd(app))
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (app *App) loadConfig() (config.Config, string, error) {
	path := strings.TrimSpace(app.ConfigPath)
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, path, fmt.Errorf("load config: %w", err)
	}
	return cfg, path, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, _, err := app.loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = app.APIURL
	}
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = app.UserID
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := api.NewClient(cfg.APIURL, cfg.UserID, cfg.RequestTimeout())
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	logger.Info("starting", "api", cfg.APIURL, "user", cfg.UserID)
	if err := ui.Run(ctx, client, cfg, logger); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// resolveDBPath keeps relative database paths next to the config file.
func resolveDBPath(dbPath, configPath string) string {
	if dbPath == "" || filepath.IsAbs(dbPath) || strings.HasPrefix(dbPath, "file:") {
		return dbPath
	}
	return filepath.Join(filepath.Dir(configPath), dbPath)
}
