package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/letsconfuse/manualQaLabs/pkg/api"
	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/metrics"
	"github.com/letsconfuse/manualQaLabs/pkg/monitor"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				o.cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func runServe(parent context.Context, o *rootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := o.cfg
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	var (
		prom    *metrics.PrometheusMetrics
		extra   []runner.RunnerOption
		apiOpts []api.ServerOption
	)
	if cfg.Metrics.Enabled {
		prom = metrics.NewPrometheusMetrics()
		extra = append(extra, runner.WithMetrics(prom))
		apiOpts = append(apiOpts, api.WithPrometheus(prom))
	}

	l, err := openLab(cfg, logger, extra...)
	if err != nil {
		return err
	}
	defer l.Close()

	dash := monitor.NewDashboardData()
	for _, def := range l.registry.Definitions() {
		snap, err := l.runner.Progress(ctx, def.ID)
		if err != nil {
			return err
		}
		dash.Track(def, snap)
	}
	l.collector.OnEvent(dash.UpdateFromEvent)

	hub := monitor.NewHub(dash, logger)
	hub.Attach(l.collector)

	srv := api.NewServer(l.runner, append(apiOpts,
		api.WithLogger(logger),
		api.WithAccessLog(o.errOut),
		api.WithToken(cfg.Server.Token),
		api.WithTimeouts(cfg.ReadTimeout(), cfg.WriteTimeout()),
		api.WithHub(hub),
		api.WithDashboard(dash),
	)...)

	logger.Debug("config loaded",
		logging.LogField("config", cfg.Redacted()),
	)
	logger.Info("qalabs starting",
		logging.StringField("addr", cfg.Server.Addr),
		logging.StringField("store", cfg.Store.Driver),
		logging.IntField("scenarios", l.registry.Count()),
		logging.BoolField("metrics", prom != nil),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, cfg.Server.Addr)
	})
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		stopReaper := l.runner.StartReaper(gctx, cfg.ReapInterval())
		<-gctx.Done()
		stopReaper()
		return nil
	})

	err = g.Wait()
	logger.Info("qalabs stopped")
	return err
}
