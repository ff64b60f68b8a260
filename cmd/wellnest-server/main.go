package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spoorthylakshmi/wellnest/internal/config"
	"github.com/spoorthylakshmi/wellnest/internal/frontend"
	"github.com/spoorthylakshmi/wellnest/internal/logging"
	"github.com/spoorthylakshmi/wellnest/internal/mock"
	"github.com/spoorthylakshmi/wellnest/internal/practice"
	"github.com/spoorthylakshmi/wellnest/internal/present"
	"github.com/spoorthylakshmi/wellnest/internal/reminder"
	"github.com/spoorthylakshmi/wellnest/internal/session"
	"github.com/spoorthylakshmi/wellnest/internal/ws"
)

type options struct {
	configPath string
	port       int
	demo       bool
	dev        bool
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
		Use:           "wellnest-server",
		Short:         "Serve guided breathing sessions over HTTP and WebSocket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "config.yaml", "Path to config file")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Override server port")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "Drive demo breathing sessions")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Development logging")
	return cmd
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.dev {
		cfg.Log.Development = true
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store := session.NewStore(session.Options{
		Pattern:  cfg.Pattern(),
		Interval: cfg.Breathing.TickInterval,
		Logger:   logger.Named("session"),
	})
	defer store.Close()

	broadcaster := ws.NewBroadcaster(store, present.NewAdapter(cfg.Pattern()),
		cfg.Stream.SnapshotInterval, cfg.Stream.MaxClients, cfg.Stream.ClientBuffer, logger.Named("ws"))
	defer broadcaster.Stop()
	store.Observe(broadcaster.Observe)

	server := ws.NewServer(store, broadcaster, frontend.Handler(), cfg.Server.AllowedOrigins, logger.Named("http"))

	pstore, err := practice.OpenStore(cfg.Practice.DBPath)
	if err != nil {
		logger.Warn("practice tracking disabled", zap.String("db", cfg.Practice.DBPath), zap.Error(err))
	} else {
		defer pstore.Close()
		tracker, err := practice.NewTracker(ctx, pstore, logger.Named("practice"))
		if err != nil {
			return fmt.Errorf("loading practice state: %w", err)
		}
		tracker.OnBadge(func(b practice.Badge, s practice.Streak) {
			broadcaster.PublishBadge(b.ID, b.Name, b.Days, s.Current)
		})
		store.Observe(tracker.Observer())
		server.SetPractice(tracker)
		go tracker.Run(ctx)
	}

	if cfg.Reminders.Enabled {
		sched := reminder.NewScheduler(cfg.ReminderIntervals(), broadcaster.PublishReminder, logger.Named("reminder"))
		server.SetReminders(sched)
		go sched.Run(ctx)
	}

	if opts.demo {
		logger.Info("starting in demo mode")
		mock.NewGenerator(store, 0, logger.Named("demo")).Start(ctx)
	}

	return ws.ListenAndServe(ctx, cfg.Addr(), server.Routes(), logger)
}
