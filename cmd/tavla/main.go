package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/evanschultz/tavla/internal/adapters/storage/sqlite"
	"github.com/evanschultz/tavla/internal/app"
	"github.com/evanschultz/tavla/internal/config"
	"github.com/evanschultz/tavla/internal/platform"
	"github.com/evanschultz/tavla/internal/theme"
	"github.com/evanschultz/tavla/internal/tui"
)

var version = "dev"

type program interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	appName    string
	devMode    bool
	theme      string
}

// run builds the command tree and executes args against it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	root := newRootCommand(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version), fang.WithoutManpage())
}

// newRootCommand wires the root TUI command and its subcommands.
func newRootCommand(stderr io.Writer) *cobra.Command {
	opts := &rootOptions{appName: "tavla", devMode: version == "dev"}
	if envDev, ok := parseBoolEnv("TAVLA_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TAVLA_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "tavla",
		Short:         "A terminal kanban board with mouse drag and drop",
		Long:          "tavla is a single-board kanban for the terminal. Drag cards between lists with the mouse, or grab them with the keyboard.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoard(cmd.Context(), opts, stderr)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")
	flags.StringVar(&opts.theme, "theme", "", "override ui.theme (light|dark)")

	root.AddCommand(newPathsCommand(opts), newPaletteCommand(opts))
	return root
}

// newPathsCommand prints the resolved config and data locations.
func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config, theme and log paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", configPathFor(opts, paths))
			_, _ = fmt.Fprintf(out, "theme: %s\n", paths.ThemePath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// runBoard loads configuration and runs the board until the user quits.
func runBoard(ctx context.Context, opts *rootOptions, stderr io.Writer) error {
	paths, err := resolvePaths(opts)
	if err != nil {
		return err
	}
	configPath := configPathFor(opts, paths)
	cfg, err := loadConfig(configPath, opts)
	if err != nil {
		return err
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.devMode, cfg.Logging, time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// The board owns the terminal; runtime logs go to the dev file only.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode)
	logger.Info("configuration loaded", "config_path", configPath, "log_level", cfg.Logging.Level, "theme", cfg.UI.Theme)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	themePath := themePathFor(cfg, paths)
	overrides, err := theme.LoadOverrides(themePath)
	if err != nil {
		logger.Error("theme file load failed", "theme_path", themePath, "err", err)
		return fmt.Errorf("load theme %q: %w", themePath, err)
	}

	repo, err := sqlite.OpenInMemory()
	if err != nil {
		logger.Error("session store open failed", "err", err)
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.Warn("session store close failed", "err", closeErr)
		}
	}()

	svc := app.NewService(repo, uuid.NewString, nil, app.ServiceConfig{
		BoardName:   cfg.Board.Name,
		ProfileName: cfg.Profile.Name,
		Columns:     toColumnTemplates(cfg.Board.Columns),
		Logger:      logger.Component("app"),
	})
	if _, err := svc.EnsureBoard(ctx); err != nil {
		logger.Error("board seed failed", "err", err)
		return fmt.Errorf("seed board: %w", err)
	}

	m := tui.NewModel(
		svc,
		tui.WithTheme(theme.NewSet(overrides), cfg.DarkMode()),
		tui.WithShowDescriptions(cfg.UI.ShowDescriptions),
		tui.WithMarkdown(cfg.UI.Markdown),
		tui.WithDragOptions(toDragOptions(cfg.Drag)),
		tui.WithLogger(logger.Component("tui")),
		tui.WithDragLogger(logger.Component("drag")),
	)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("tui program loop finished")
	return nil
}

// resolvePaths returns the platform paths for the selected app name.
func resolvePaths(opts *rootOptions) (platform.Paths, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return platform.Paths{}, fmt.Errorf("resolve paths: %w", err)
	}
	return paths, nil
}

// configPathFor applies flag, then env, then platform precedence.
func configPathFor(opts *rootOptions, paths platform.Paths) string {
	if p := strings.TrimSpace(opts.configPath); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv("TAVLA_CONFIG")); p != "" {
		return p
	}
	return paths.ConfigPath
}

// themePathFor applies config, then env, then platform precedence.
func themePathFor(cfg config.Config, paths platform.Paths) string {
	if p := strings.TrimSpace(cfg.UI.ThemeFile); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv("TAVLA_THEME_FILE")); p != "" {
		return p
	}
	return paths.ThemePath
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(path string, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(path, config.Default())
	if err != nil {
		return config.Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	if t := strings.TrimSpace(opts.theme); t != "" {
		cfg.UI.Theme = config.ThemeMode(strings.ToLower(t))
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("--theme: %w", err)
		}
	}
	return cfg, nil
}

// toColumnTemplates maps configured columns to service templates.
func toColumnTemplates(in []config.ColumnConfig) []app.ColumnTemplate {
	out := make([]app.ColumnTemplate, 0, len(in))
	for _, col := range in {
		out = append(out, app.ColumnTemplate{ID: col.ID, Title: col.Title, Color: col.Color})
	}
	return out
}

// toDragOptions maps cell-scale gesture config to model options.
func toDragOptions(cfg config.DragConfig) tui.DragOptions {
	return tui.DragOptions{
		PressThreshold: cfg.PressThreshold,
		SwipeThreshold: cfg.SwipeThreshold,
		GhostOffsetX:   cfg.GhostOffsetX,
		GhostOffsetY:   cfg.GhostOffsetY,
		Flash:          time.Duration(cfg.FlashMS) * time.Millisecond,
	}
}

// parseBoolEnv reads a boolean environment variable.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// discardLogger is handed to components when no sink is configured.
func discardLogger() *charmLog.Logger {
	return charmLog.New(io.Discard)
}
