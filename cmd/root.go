package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"questflow/internal/config"
	"questflow/internal/db"
	"questflow/internal/editor"
	"questflow/internal/logging"
	"questflow/internal/remote"
	"questflow/internal/settings"
	"questflow/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	remoteName string
)

var rootCmd = &cobra.Command{
	Use:   "questflow [flow.json]",
	Short: "Edit and follow quest flow sheets in the terminal",
	Long: `questflow opens a quest flow sheet: a table of HP thresholds, boss
predictions, charge and guard markers, and the actions to take.

Run without arguments to browse the local library. Pass a JSON file to open
it directly, or --remote to load a published flow by name.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.questflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database file (overrides db_path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&remoteName, "remote", "", "Load a published flow by name")

	rootCmd.AddCommand(listCmd, importCmd, exportCmd, pasteCmd, newCmd)
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

// loadConfig reads .env files and the config file, then applies flags.
func loadConfig() (*config.Config, string, error) {
	// Load .env files first so env-based overrides apply to the config.
	config.LoadDotEnv(".env")
	config.LoadDotEnv(".env.local")

	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
	}
	return cfg, path, nil
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func newRemoteClient(cfg *config.Config) (*remote.Client, error) {
	if cfg.Remote.BaseURL == "" {
		return nil, nil
	}
	timeout, err := cfg.RemoteTimeout()
	if err != nil {
		return nil, err
	}
	return remote.NewClient(cfg.Remote.BaseURL, timeout), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFile(cfg.Logging.Path, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	database, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	store, err := settings.NewStore(db.NewSettingsStore(database), logger.Named("settings"))
	if err != nil {
		return err
	}

	if shouldRunOnboarding(store) {
		if err := runOnboarding(store, cfg, path); err != nil {
			return fmt.Errorf("failed to run onboarding: %w", err)
		}
	}

	client, err := newRemoteClient(cfg)
	if err != nil {
		return err
	}

	var openPath string
	if len(args) == 1 {
		openPath = args[0]
	}

	logger.Info("starting",
		zap.String("version", cmd.Root().Version),
		zap.String("db", cfg.DBPath),
		zap.Bool("remote", client != nil),
	)

	m := ui.New(ui.Deps{
		DB:         database,
		Session:    editor.New(logger.Named("editor")),
		Settings:   store,
		Remote:     client,
		Logger:     logger.Named("ui"),
		ExportDir:  cfg.ExportDir,
		PrefsPath:  filepath.Join(filepath.Dir(path), "ui_prefs.json"),
		OpenPath:   openPath,
		OpenRemote: remoteName,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
