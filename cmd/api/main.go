package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sessionmem "finca-digital/internal/adapters/sessions/memory"
	sessionredis "finca-digital/internal/adapters/sessions/redis"
	"finca-digital/internal/adapters/storage/sqldb"
	"finca-digital/internal/conversation"
	"finca-digital/internal/platform/config"
	"finca-digital/internal/platform/logger"
	"finca-digital/internal/platform/metrics"
	"finca-digital/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	defer logger.Sync(log)

	if err := run(cfg, log); err != nil {
		log.Error("server error", map[string]any{"err": err})
		logger.Sync(log)
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := router.Options{
		AdminPhones:   cfg.AdminPhones,
		FreeText:      cfg.FreeTextCategories,
		RatePerSecond: cfg.RateLimit.PerSecond,
		RateBurst:     cfg.RateLimit.Burst,
		Logger:        log,
		Metrics:       metrics.New(reg),
	}

	if cfg.DB.DSN != "" {
		d, err := sqldb.ParseDialect(cfg.DB.Driver)
		if err != nil {
			return err
		}
		st, err := sqldb.OpenStore(ctx, d, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer st.Close()
		opts.Farms, opts.Animals, opts.Records, opts.Resetter = st.Farms, st.Animals, st.Records, st
		log.Info("database ready", map[string]any{"driver": d.String()})
	}

	var sessions conversation.Store = sessionmem.New(cfg.Sessions.TTL)
	if cfg.Sessions.RedisURL != "" {
		rs, rdb, err := sessionredis.Open(ctx, cfg.Sessions.RedisURL, cfg.Sessions.TTL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = rs
		log.Info("redis sessions ready", nil)
	}
	opts.Sessions = sessions

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
