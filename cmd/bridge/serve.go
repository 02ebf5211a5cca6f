package main

import (
	"context"

	"feedbridge/internal/broker"
	"feedbridge/internal/broker/sim"
	"feedbridge/internal/directory"
	"feedbridge/internal/ingest"
	"feedbridge/internal/journal"
	"feedbridge/internal/lifecycle"
	"feedbridge/internal/obs"
	"feedbridge/internal/ops"
	"feedbridge/internal/order"
	"feedbridge/internal/risk"
	"feedbridge/internal/rpc"
	"feedbridge/pkg/conn"
	"feedbridge/pkg/exception"

	"github.com/grafana/pyroscope-go"
	"github.com/spf13/cobra"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
	"golang.org/x/sync/errgroup"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Log in and serve the bridge until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := ops.Load(configPath)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the yaml config")
}

func serve(ctx context.Context, cfg ops.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Profiling.Enabled {
		profiler, err := startProfiler(cfg.Profiling)
		if err != nil {
			return err
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	if !cfg.Broker.Simulation {
		return errors.New("only the simulated broker is bundled, set broker.simulation")
	}
	client := sim.NewClient(sim.DefaultOption())
	logs.Infof("broker client: %s", client.Version())

	metrics := obs.NewMetrics()
	dirs := directory.NewSet()
	registry := ingest.NewRegistry(client, dirs, cfg.Subscription.MaxCount, metrics)

	cacheOpts := []order.CacheOption{order.WithMetrics(metrics)}
	var history rpc.HistoryReader
	if cfg.Journal.Enabled {
		db, err := conn.New(cfg.Journal.ConnOption())
		if err != nil {
			return err
		}
		defer db.Close()

		j, err := journal.New(db.DB())
		if err != nil {
			return err
		}
		cacheOpts = append(cacheOpts, order.WithRecorder(j))
		history = j
	}
	cache := order.NewCache(client, cacheOpts...)

	dispatcher := ingest.NewDispatcher(registry, cache, metrics)
	controller := lifecycle.NewController(client, lifecycle.Components{
		Handler:       dispatcher,
		Directories:   dirs,
		Orders:        cache,
		Events:        dispatcher.Events(),
		Subscriptions: registry,
	}, cfg.Login.ReadinessTarget, metrics)

	svc := rpc.NewService(rpc.Deps{
		Account:     client,
		Directories: dirs,
		Registry:    registry,
		Events:      dispatcher.Events(),
		Orders:      cache,
		Usecase:     order.NewUsecase(client, dirs.Futures, cache, risk.NewEngine(cfg.Risk)),
		Gate:        controller,
		History:     history,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return obs.NewServer(cfg.Server.MetricsPort, metrics, controller).Run(ctx)
	})
	eg.Go(func() error {
		return rpc.NewServer(svc, cfg.Server.GRPCPort, cancel).Run(ctx)
	})
	eg.Go(func() error {
		loginCtx, loginCancel := context.WithTimeout(ctx, cfg.Login.Timeout)
		defer loginCancel()

		if err := controller.Login(loginCtx, credentials(cfg.Broker)); err != nil {
			return errors.Wrap(err, "login")
		}
		return nil
	})
	eg.Go(func() error {
		// login reports its own failure
		if err := controller.WaitReady(ctx); err != nil {
			return nil
		}
		client.Run(ctx, cfg.Broker.TickInterval)
		return nil
	})
	eg.Go(func() error {
		select {
		case <-sys.Shutdown():
			logs.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	err := eg.Wait()
	controller.Shutdown()
	if err != nil && !exception.Is(err, context.Canceled) {
		return err
	}
	logs.Info("bridge stopped")
	return nil
}

func credentials(cfg ops.BrokerConfig) broker.Credentials {
	return broker.Credentials{
		APIKey:     cfg.APIKey,
		APISecret:  cfg.APISecret,
		PersonID:   cfg.PersonID,
		CAPath:     cfg.CAPath,
		CAPassword: cfg.CAPassword,
	}
}

func startProfiler(cfg ops.ProfilingConfig) (*pyroscope.Profiler, error) {
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "feedbridge",
		ServerAddress:   cfg.ServerAddress,
		Tags: map[string]string{
			"service": "bridge",
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "start pyroscope")
	}
	return profiler, nil
}
