package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basegraph.app/issuesync/common/id"
	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/common/otel"
	"basegraph.app/issuesync/core/config"
	"basegraph.app/issuesync/core/db"
	"basegraph.app/issuesync/internal/queue"
	"basegraph.app/issuesync/internal/service"
	"basegraph.app/issuesync/internal/service/issue_tracker"
	"basegraph.app/issuesync/internal/store"
	"basegraph.app/issuesync/internal/worker"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const maxAttempts = 3

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry, err := otel.Setup(ctx, cfg, config.ServiceTypeWorker)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)
	logger.Setup(cfg)

	slog.InfoContext(ctx, "issuesync worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Pipeline.RedisGroup,
		"consumer_name", cfg.Pipeline.RedisConsumer,
		"sync_interval", cfg.Sync.Interval,
		"run_timeout", cfg.Sync.RunTimeout,
		"reclaim_min_idle", cfg.Pipeline.ReclaimMinIdle)

	if err := id.Init(config.ServiceTypeWorker); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:    cfg.Pipeline.RedisStream,
		Group:     cfg.Pipeline.RedisGroup,
		Consumer:  cfg.Pipeline.RedisConsumer,
		DLQStream: cfg.Pipeline.RedisDLQStream,
		// syncs are long and must not overlap on one worker
		BatchSize:    1,
		Block:        5 * time.Second,
		MaxAttempts:  maxAttempts,
		RequeueDelay: 10 * time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	producer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())

	stores := store.NewStores(database.Queries())
	services := service.NewServices(service.ServicesConfig{
		Stores:   stores,
		TxRunner: service.NewTxRunner(database),
		Jira:     issue_tracker.NewJiraClient(issue_tracker.JiraConfigFrom(cfg.Jira, cfg.Sync)),
		Producer: producer,
	})

	w := worker.New(consumer, services.SyncRunner(), worker.Config{
		MaxAttempts: maxAttempts,
		RunTimeout:  cfg.Sync.RunTimeout,
	})

	reclaimer := worker.NewReclaimer(consumer, stores.SyncRuns(), w.HandleMessage, worker.ReclaimerConfig{
		Consumer:   cfg.Pipeline.RedisConsumer + "-reclaimer",
		MinIdle:    cfg.Pipeline.ReclaimMinIdle,
		Interval:   cfg.Pipeline.ReclaimInterval,
		BatchSize:  10,
		RunTimeout: cfg.Sync.RunTimeout,
	})

	scheduler := worker.NewScheduler(producer, worker.SchedulerConfig{
		Interval:     cfg.Sync.Interval,
		LookbackDays: cfg.Sync.LookbackDays,
	})

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return w.Run(gctx)
	})
	g.Go(func() error {
		reclaimer.Run(gctx)
		return nil
	})
	g.Go(func() error {
		scheduler.Run(gctx)
		return nil
	})

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	exited := false
	select {
	case <-quit:
		slog.InfoContext(ctx, "shutting down worker...")
	case err := <-done:
		exited = true
		slog.ErrorContext(ctx, "worker exited unexpectedly", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// the scheduler and reclaimer stop quickly; the worker may be mid-sync
	cancelRun()
	if !exited {
		select {
		case <-shutdownCtx.Done():
			slog.WarnContext(ctx, "shutdown timeout exceeded")
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
			}
		}
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
 _                                              
(_)___ ___ _   _  ___  ___ _   _ _ __   ___     
| / __/ __| | | |/ _ \/ __| | | | '_ \ / __|    
| \__ \__ \ |_| |  __/\__ \ |_| | | | | (__     
|_|___/___/\__,_|\___||___/\__, |_| |_|\___|    
                           |___/   worker       
`
