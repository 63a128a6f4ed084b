package main

import (
	"fmt"

	"github.com/letsconfuse/manualQaLabs/pkg/bank"
	"github.com/letsconfuse/manualQaLabs/pkg/config"
	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/monitor"
	"github.com/letsconfuse/manualQaLabs/pkg/progress"
	"github.com/letsconfuse/manualQaLabs/pkg/registry"
	"github.com/letsconfuse/manualQaLabs/pkg/report"
	"github.com/letsconfuse/manualQaLabs/pkg/runner"
	"github.com/letsconfuse/manualQaLabs/pkg/store"
)

// lab bundles everything a command needs to drive scenarios.
type lab struct {
	store     store.Store
	registry  *registry.DefaultRegistry
	runner    *runner.DefaultRunner
	collector *monitor.EventCollector
	history   *report.HistoryRecorder
}

func openLab(
	cfg *config.Config,
	logger logging.Logger,
	extra ...runner.RunnerOption,
) (*lab, error) {
	reg := registry.Builtin()
	if cfg.CatalogPath != "" {
		b := bank.New()
		if err := b.Load(cfg.CatalogPath); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		if err := b.ApplyTo(reg); err != nil {
			return nil, fmt.Errorf("apply catalog: %w", err)
		}
		logger.Info("catalog overrides applied",
			logging.IntField("scenarios", b.Count()),
			logging.StringField("path", cfg.CatalogPath),
		)
	}

	st, err := cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	l := &lab{
		store:     st,
		registry:  reg,
		collector: monitor.NewEventCollector(0),
	}

	opts := []runner.RunnerOption{
		runner.WithRegistry(reg),
		runner.WithBook(progress.NewBook(reg, st, progress.WithLogger(logger))),
		runner.WithLogger(logger),
		runner.WithCollector(l.collector),
		runner.WithIdleTimeout(cfg.IdleTimeout()),
	}
	if cfg.HistoryPath != "" {
		l.history = report.NewHistoryRecorder(cfg.HistoryPath, logger)
		opts = append(opts, runner.WithPostHook(l.history.Hook()))
	}
	l.runner = runner.NewRunner(append(opts, extra...)...)
	return l, nil
}

func (l *lab) Close() error {
	if l == nil || l.store == nil {
		return nil
	}
	return l.store.Close()
}
