package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/product-panel/internal/client"
	"github.com/Lixing-Zhang/product-panel/internal/config"
	"github.com/Lixing-Zhang/product-panel/internal/panel"
	"github.com/Lixing-Zhang/product-panel/internal/tui"
	"github.com/Lixing-Zhang/product-panel/pkg/logger"
)

// app carries the flags and the wiring shared by every command
type app struct {
	configPath string
	baseURL    string
	logLevel   string
	timeout    time.Duration

	// set by tests; built from config otherwise
	logger     *zap.Logger
	httpClient *http.Client

	cfg   *config.PanelConfig
	panel *panel.Panel
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "panel",
		Short: "Manage the product catalog of a Product Service",
		Long: `panel lists, creates, edits and deletes products held by a Product Service
REST API.

Run without arguments to open the interactive product page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, !cmd.HasParent())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runInteractive,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "panel.yaml", "Path to the YAML config file")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "Product Service root URL (or set PRODUCT_API_URL)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Per-request timeout, 0 for none")

	root.AddCommand(newListCmd(a))
	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newUpdateCmd(a))
	root.AddCommand(newDeleteCmd(a))
	return root
}

// setup loads configuration, applies flag overrides and builds the panel
func (a *app) setup(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.LoadPanel(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = a.baseURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if a.logger == nil {
		if interactive {
			// the terminal belongs to the UI
			a.logger, err = logger.NewFile(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
		} else {
			a.logger = logger.New(cfg.LogLevel)
		}
	}

	opts := []client.Option{
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(a.logger),
	}
	if a.httpClient != nil {
		opts = append(opts, client.WithHTTPClient(a.httpClient))
	}
	c, err := client.New(cfg.BaseURL, opts...)
	if err != nil {
		return err
	}

	a.panel = panel.New(c, a.logger)
	a.logger.Debug("panel configured",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("request_timeout", cfg.RequestTimeout),
	)
	return nil
}

func (a *app) runInteractive(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(tui.New(cmd.Context(), a.panel), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}
