package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/app"
	"github.com/spoorthylakshmi/wellnest/internal/breathing"
	"github.com/spoorthylakshmi/wellnest/internal/client"
	"github.com/spoorthylakshmi/wellnest/internal/config"
	"github.com/spoorthylakshmi/wellnest/internal/logging"
	"github.com/spoorthylakshmi/wellnest/internal/practice"
)

type options struct {
	wsURL      string
	sessionID  string
	configPath string
	noPractice bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "breathe-tui",
		Short: "Guided breathing in the terminal",
		Long: "Runs a breathing session in this process, or controls one on a " +
			"wellnest server when --url is given.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.wsURL, "url", "", "WebSocket URL of a wellnest server (e.g. ws://127.0.0.1:8080/ws); empty runs locally")
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "Attach to an existing server session instead of creating one")
	cmd.Flags().StringVar(&opts.configPath, "config", "config.yaml", "Path to config file (local mode)")
	cmd.Flags().BoolVar(&opts.noPractice, "no-practice", false, "Do not record streaks (local mode)")
	return cmd
}

func run(ctx context.Context, opts options) error {
	var (
		driver  app.Driver
		pattern = breathing.DefaultPattern()
	)

	if opts.wsURL != "" {
		driver = app.NewRemote(opts.wsURL,
			client.NewWSClient(opts.wsURL),
			client.NewHTTPClient(deriveHTTPBase(opts.wsURL)),
			opts.sessionID)
	} else {
		cfg, err := config.LoadOrDefault(opts.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger := zap.NewNop()
		if cfg.Log.File != "" {
			if logger, err = logging.New(cfg.Log); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
		}

		var tracker *practice.Tracker
		if !opts.noPractice {
			pstore, err := practice.OpenStore(cfg.Practice.DBPath)
			if err != nil {
				logger.Warn("practice tracking disabled", zap.String("db", cfg.Practice.DBPath), zap.Error(err))
			} else {
				defer pstore.Close()
				if tracker, err = practice.NewTracker(ctx, pstore, logger.Named("practice")); err != nil {
					return fmt.Errorf("loading practice state: %w", err)
				}
			}
		}

		pattern = cfg.Pattern()
		driver = app.NewLocal(app.LocalOptions{
			Pattern:   pattern,
			Interval:  cfg.Breathing.TickInterval,
			Tracker:   tracker,
			Reminders: cfg.ReminderIntervals(),
			Logger:    logger.Named("session"),
		})
	}

	p := tea.NewProgram(app.New(driver, pattern), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	// Quit already closes the driver; this covers a cancelled context.
	driver.Close()
	return err
}

// deriveHTTPBase converts ws://host:port/ws → http://host:port
func deriveHTTPBase(wsURL string) string {
	u, err := url.Parse(wsURL)
	if err != nil {
		return "http://127.0.0.1:8080"
	}
	scheme := "http"
	if strings.HasPrefix(u.Scheme, "wss") {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, u.Host)
}
