package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wardenhq/warden/internal/config"
	"github.com/wardenhq/warden/internal/telemetry/logging"
	"github.com/wardenhq/warden/internal/telemetry/metrics"
)

const shutdownGrace = 5 * time.Second

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the agent in the foreground",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfgPath := cmd.String("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var collector *metrics.Collector
	logSvc := &logging.Service{Config: &cfg.Telemetry}
	if cfg.Telemetry.MetricsPort > 0 {
		collector = metrics.NewCollector(nil)
		logSvc.Recorder = collector
	}

	if err := logSvc.Initialize(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	// Logging shuts down last so everything below gets flushed.
	defer func() { _ = logSvc.Close() }()

	if err := logging.InstallGlobal(logSvc); err != nil {
		return err
	}

	logSvc.InfoWith().
		Str("version", Version).
		Str("config", cfgPath).
		Msg("warden agent started")

	var metricsSrv *metrics.Server
	if collector != nil {
		metricsSrv, err = metrics.NewServer(collector, cfg.Telemetry.MetricsPort, cfg.Telemetry.MetricsPath)
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		go func() {
			if serveErr := metricsSrv.Start(); serveErr != nil {
				logSvc.ErrorWith().Err(serveErr).Msg("metrics server failed")
			}
		}()
		logSvc.InfoWith().
			Str("addr", metricsSrv.Addr().String()).
			Str("path", cfg.Telemetry.MetricsPath).
			Msg("metrics endpoint up")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logSvc.InfoWith().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
		logSvc.InfoWith().Msg("shutting down")
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logSvc.WarnWith().Err(err).Msg("metrics server shutdown")
		}
	}
	return nil
}
