package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/iyunix/lexbrief/internal/apiclient"
	"github.com/iyunix/lexbrief/internal/config"
	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/repository/kv"
	"github.com/iyunix/lexbrief/internal/repository/session"
	"github.com/iyunix/lexbrief/internal/services"
	"github.com/iyunix/lexbrief/internal/services/chat"
	"github.com/iyunix/lexbrief/internal/ui/tui"
)

var (
	version = "dev"

	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "lexbrief",
	Short:   domain.ProductName + ": " + domain.Tagline,
	Long:    domain.ProductName + " summarizes court judgements and finds related precedents.\n\n" + domain.Disclaimer,
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default is $HOME/.lexbrief/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// app holds what every subcommand needs.
type app struct {
	cfg     *config.ClientConfig
	logger  *services.ZapLogger
	backend kv.Store
	store   *session.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	level := services.LogLevelInfo
	if verbose {
		level = services.LogLevelDebug
	}
	logger, err := services.NewZapLogger("lexbrief", services.LoggerOptions{
		Level:      level,
		Structured: true,
		Outputs:    []string{cfg.LogPath()},
	})
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	backend, err := kv.Open(cfg.Store, cfg.StorePath())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open history store: %w", err)
	}

	store := session.NewStore(backend, logger)
	sessions := store.Load(ctx)
	logger.Info("chat history loaded", "store", cfg.Store, "path", cfg.StorePath(), "sessions", len(sessions))

	return &app{cfg: cfg, logger: logger, backend: backend, store: store}, nil
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.logger.Error("failed to close history store", "error", err)
	}
	_ = a.logger.Sync()
}

func (a *app) controller() (*chat.Controller, error) {
	chatCfg := chat.DefaultConfig()
	chatCfg.TopK = a.cfg.TopK
	return chat.NewController(chatCfg, apiclient.New(a.cfg.APIURL, nil), a.store, a.logger)
}

func runTUI(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl, err := a.controller()
	if err != nil {
		return err
	}

	model := tui.New(ctx, ctrl, tui.Options{
		Theme:          a.cfg.Theme,
		RevealInterval: a.cfg.RevealInterval(),
		Logger:         a.logger,
	})
	defer model.Close()

	a.logger.Info("starting terminal client", "api_url", a.cfg.APIURL, "theme", a.cfg.Theme)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
