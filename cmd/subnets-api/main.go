package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/subnets/internal/api"
	"github.com/edvin/subnets/internal/backup"
	"github.com/edvin/subnets/internal/config"
	"github.com/edvin/subnets/internal/core"
	"github.com/edvin/subnets/internal/db"
	"github.com/edvin/subnets/internal/logging"
	"github.com/edvin/subnets/internal/metrics"
	"github.com/edvin/subnets/internal/model"
	"github.com/edvin/subnets/internal/store/filestore"
	"github.com/edvin/subnets/internal/store/pgstore"
	"github.com/edvin/subnets/internal/subnet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	catalog := model.DefaultCatalog()
	if cfg.CatalogFile != "" {
		c, err := model.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return err
		}
		catalog = c
		logger.Info().Str("file", cfg.CatalogFile).Strs("statuses", c.Statuses).
			Strs("providers", c.Providers).Msg("loaded catalog")
	}

	alloc, err := subnet.NewAllocator(cfg.SubnetBase)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		worker *backup.Worker
		sink   core.BackupSink
	)
	if cfg.BackupEnabled() {
		worker = backup.NewWorker(logger, backup.NewS3Uploader(backup.S3Config{
			Endpoint:  cfg.BackupS3Endpoint,
			Region:    cfg.BackupS3Region,
			Bucket:    cfg.BackupS3Bucket,
			AccessKey: cfg.BackupS3AccessKey,
			SecretKey: cfg.BackupS3SecretKey,
		}), cfg.BackupS3Key)
		sink = worker
	}

	svc := core.NewProjectService(store, alloc, catalog, sink, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      api.NewServer(logger, svc, cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	servers := []*http.Server{httpServer}
	if cfg.MetricsListenAddr != "" {
		servers = append(servers, metrics.NewServer(cfg.MetricsListenAddr))
	}

	var bound []boundServer
	for _, srv := range servers {
		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			for _, b := range bound {
				b.ln.Close()
			}
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		bound = append(bound, boundServer{srv: srv, ln: ln})
	}

	return serve(ctx, logger, bound, worker)
}

type boundServer struct {
	srv *http.Server
	ln  net.Listener
}

// serve runs the servers until ctx is done and shuts them down. The backup
// worker outlives them so snapshots taken by draining requests still upload.
func serve(ctx context.Context, logger zerolog.Logger, servers []boundServer, worker *backup.Worker) error {
	var workers errgroup.Group
	workerCtx, stopWorker := context.WithCancel(context.Background())
	if worker != nil {
		workers.Go(func() error { return worker.Run(workerCtx) })
	}
	defer func() {
		stopWorker()
		workers.Wait()
	}()

	g, ctx := errgroup.WithContext(ctx)

	for _, b := range servers {
		g.Go(func() error {
			logger.Info().Str("addr", b.ln.Addr().String()).Msg("starting http server")
			if err := b.srv.Serve(b.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", b.ln.Addr(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, b := range servers {
			if err := b.srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Str("addr", b.ln.Addr().String()).Msg("shutdown failed")
			}
		}
		return nil
	})

	return g.Wait()
}

// openStore returns the configured project store and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (core.ProjectStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		logger.Info().Msg("running database migrations")
		if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgstore.New(pool), pool.Close, nil
	default:
		store, err := filestore.Open(cfg.DataFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("path", store.Path()).Msg("using file store")
		return store, func() {}, nil
	}
}
