package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestrelmon/kestrel/internal/config"
	"github.com/kestrelmon/kestrel/internal/engine"
	"github.com/kestrelmon/kestrel/internal/fault"
	"github.com/kestrelmon/kestrel/internal/logger"
	"github.com/kestrelmon/kestrel/internal/metrics"
	"github.com/kestrelmon/kestrel/internal/pid"
	"github.com/kestrelmon/kestrel/internal/provider"
	"github.com/kestrelmon/kestrel/internal/rule"
	"github.com/kestrelmon/kestrel/internal/sample"
	"github.com/kestrelmon/kestrel/internal/scheduler"
	"github.com/kestrelmon/kestrel/internal/sink"
	"github.com/kestrelmon/kestrel/internal/supervisor"
)

const (
	defaultWindowCapacity = 64

	cpuLoadInterval = 1 * time.Second
	memoryInterval  = 2 * time.Second
	batteryInterval = 5 * time.Second
	storageInterval = 10 * time.Second

	implausibleMin     = -1.0
	implausibleMax     = 200.0
	maxRatePerSecond   = 0.5
	missingDataMaxAge  = 5 * time.Second
	missingDataFailAge = 15 * time.Second
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to acquire pid file")
	}
	defer pid.Remove()

	eventSink, err := sink.New(cfg.LogPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open event log")
	}
	defer eventSink.Close()

	collector, err := metrics.NewService(metrics.Config{
		Enabled:      cfg.MetricsEnabled,
		DBPath:       cfg.MetricsDBPath,
		BatchSize:    20,
		BatchTimeout: 5,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}
	defer collector.Close()

	sched := buildScheduler()
	eng, err := buildEngine(cfg.Threshold)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build engine")
	}

	injector := fault.NewInjector()
	var faultConfigs []*fault.Config
	if cfg.FaultProfile != "" {
		faultConfigs, err = fault.LoadProfile(cfg.FaultProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load fault profile")
		}
		logger.Info().Int("count", len(faultConfigs)).Str("path", cfg.FaultProfile).Msg("loaded fault profile")
	}

	sup := supervisor.New(sched, eng, injector, faultConfigs, eventSink, collector,
		time.Duration(cfg.IntervalMS)*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	logger.Info().Msg("monitoring started")

	if err := sup.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in supervisor loop")
	}

	logger.Info().Str("aggregate_state", eng.AggregateState().String()).Msg("shutting down")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("received termination signal")
	cancel()
}

func buildScheduler() *scheduler.Scheduler {
	sched := scheduler.New()
	sched.Register(provider.NewCPULoad(), cpuLoadInterval)
	sched.Register(provider.NewMemory(), memoryInterval)
	sched.Register(provider.NewBattery(), batteryInterval)
	sched.Register(provider.NewStorage(), storageInterval)
	return sched
}

func buildEngine(threshold float64) (*engine.Engine, error) {
	eng, err := engine.New(defaultWindowCapacity)
	if err != nil {
		return nil, err
	}

	// High-value threshold: for load-style signals, high usage is bad.
	eng.AddRule(rule.NewThresholdRule(0.0, threshold, sample.SeverityDegraded, "cpu_load"))
	eng.AddRule(rule.NewThresholdRule(0.0, threshold, sample.SeverityDegraded, "memory"))
	eng.AddRule(rule.NewThresholdRule(0.0, threshold, sample.SeverityDegraded, "storage"))

	// Low-value threshold: for battery, low charge is bad.
	batteryLow := 1.0 - threshold
	eng.AddRule(rule.NewThresholdRule(batteryLow, 1.0, sample.SeverityDegraded, "battery"))

	eng.AddRule(rule.NewImplausibleValueRule(implausibleMin, implausibleMax))
	eng.AddRule(rule.NewRateOfChangeRule(maxRatePerSecond))
	eng.AddRule(rule.NewMissingDataRule(missingDataMaxAge, missingDataFailAge))

	return eng, nil
}
