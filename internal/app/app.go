package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbazin/marks/internal/config"
	"github.com/kbazin/marks/internal/fetch"
	"github.com/kbazin/marks/internal/httpserver"
	"github.com/kbazin/marks/internal/httpserver/deps"
	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/redis"
	"github.com/kbazin/marks/internal/scheduler"
	"github.com/kbazin/marks/internal/session"
	"github.com/kbazin/marks/internal/sources/seedfile"
	redisstore "github.com/kbazin/marks/internal/store/redis"
	"github.com/kbazin/marks/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	importer    *scheduler.SeedImporter
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)
	sessions := session.NewManager(store, loggerClient)
	auth := session.NewProvider(cfg.AuthTokens)

	fetchClient := &http.Client{Timeout: cfg.FetchTimeout}
	titles := fetch.NewTitleFetcher(cfg.TitleEndpoint, fetchClient, loggerClient)
	summaries := fetch.NewSummaryFetcher(cfg.ReaderEndpoint, cfg.UserAgent, fetchClient, loggerClient)
	icons := fetch.IconResolver{Template: cfg.IconTemplate, Fallback: cfg.DefaultIcon}

	// Initialize seed importer (if a seed file is configured)
	var importer *scheduler.SeedImporter
	var importTrigger chan struct{}
	if cfg.SeedFile != "" {
		loggerClient.Info("seed file configured, initializing importer",
			logger.String("file", cfg.SeedFile),
			logger.String("owner", cfg.SeedOwner))
		importTrigger = make(chan struct{}, 1)
		importer = scheduler.NewSeedImporter(
			cfg.SeedFile,
			seedfile.NewMapper(icons),
			store,
			cfg.SeedOwner,
			loggerClient,
			cfg.SeedInterval,
			importTrigger,
		)
	} else {
		loggerClient.Info("seed file not configured, seed import disabled")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		RedisClient:      redisClient,
		Store:            store,
		Sessions:         sessions,
		Auth:             auth,
		Titles:           titles,
		Summaries:        summaries,
		Icons:            icons,
		MetadataTTL:      cfg.MetadataTTL,
		ImportTrigger:    importTrigger,
		RateBurst:        cfg.RateBurst,
		RateRefillPerMin: cfg.RateRefillPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		importer:    importer,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting Marks v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Marks %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start seed importer: %w", err)
		}
		a.logger.Info("seed importer started",
			logger.Duration("interval", a.cfg.SeedInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.importer != nil {
		a.importer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("Redis closed cleanly")
		}
	}

	a.logger.Info("Marks stopped cleanly")
	return nil
}
