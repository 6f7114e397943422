package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fjod/vetcart/internal/cache"
	"github.com/fjod/vetcart/internal/catalog"
	"github.com/fjod/vetcart/internal/clinic"
	"github.com/fjod/vetcart/internal/config"
	"github.com/fjod/vetcart/internal/logging"
	"github.com/fjod/vetcart/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app is the wired set of components a command works with.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  *clinic.Client
	catalog *catalog.Service
	guard   *session.Guard
	closers []func() error
}

// newApp loads configuration and wires the clinic client, catalog and session
// guard. interactive sends logs to a file so they never draw over the TUI.
func newApp(ctx context.Context, opts *options, interactive bool) (*app, error) {
	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return nil, err
	}
	if interactive && cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(os.TempDir(), "vetcart.log")
	}

	logger, err := logging.New(cfg.Logging, opts.verbose)
	if err != nil {
		return nil, err
	}

	client, err := clinic.New(clinic.Config{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		BreakerFailures: cfg.API.BreakerFailures,
		BreakerCooldown: cfg.API.BreakerCooldown,
	}, logger.Named("clinic"))
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		guard:  session.NewGuard(client, logger.Named("session")),
	}
	a.catalog = catalog.NewService(client, a.productCache(ctx), logger.Named("catalog"))
	return a, nil
}

// productCache picks the configured backend. An unreachable Redis falls back
// to the in-process cache; the catalog works without either.
func (a *app) productCache(ctx context.Context) cache.ProductCache {
	if a.cfg.Cache.Backend != config.CacheRedis {
		return cache.NewMemoryCache(a.cfg.Cache.TTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Cache.RedisAddr,
		Password: a.cfg.Cache.RedisPassword,
		DB:       a.cfg.Cache.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		a.logger.Warn("redis unavailable, using memory cache",
			zap.String("addr", a.cfg.Cache.RedisAddr),
			zap.Error(err))
		_ = client.Close()
		return cache.NewMemoryCache(a.cfg.Cache.TTL)
	}
	a.logger.Debug("redis ping succeeded", zap.String("addr", a.cfg.Cache.RedisAddr))
	a.closers = append(a.closers, client.Close)
	return cache.NewRedisCache(client, a.cfg.Cache.TTL)
}

// authenticate returns the active session, logging in with the supplied
// credentials when the backend has none.
func (a *app) authenticate(ctx context.Context, opts *options) (session.Session, error) {
	sess, err := a.guard.Resolve(ctx)
	if err != nil {
		return sess, err
	}
	if sess.Authenticated() || opts.email == "" {
		return sess, nil
	}
	return a.guard.Login(ctx, opts.email, opts.password)
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Debug("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
