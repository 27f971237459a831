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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/schoolhub/school-console/internal/api"
	"github.com/schoolhub/school-console/internal/api/handler"
	"github.com/schoolhub/school-console/internal/api/metrics"
	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
	"github.com/schoolhub/school-console/internal/core/service"
	"github.com/schoolhub/school-console/internal/infrastructure/db/memory"
	mongostore "github.com/schoolhub/school-console/internal/infrastructure/db/mongo"
	pgstore "github.com/schoolhub/school-console/internal/infrastructure/db/postgres"
	redisstore "github.com/schoolhub/school-console/internal/infrastructure/db/redis"
	"github.com/schoolhub/school-console/internal/infrastructure/remote"
	"github.com/schoolhub/school-console/internal/infrastructure/token"
	"github.com/schoolhub/school-console/internal/pkg/config"
	"github.com/schoolhub/school-console/pkg/logger"
)

// @title                       School Console API
// @version                     1.0
// @description                 Session and academic standing endpoints of the school console.
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	loadLocalEnv()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "school-console"})
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("console stopped")
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found; relying on existing environment")
	}
}

// backend is the persistence selected by STORE_DRIVER.
type backend struct {
	store     ports.PersistenceStore
	checker   handler.Checker
	directory ports.UserDirectory
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		store := redisstore.NewStateStore(client, cfg.Redis.Prefix)
		return &backend{
			store:     store,
			checker:   store,
			directory: redisstore.NewUserDirectory(client, cfg.Redis.Prefix),
			close:     func() { _ = client.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		directory := mongostore.NewUserDirectory(db)
		if err := directory.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &backend{
			store:     mongostore.NewStateStore(db),
			checker:   mongostore.NewPinger(db),
			directory: directory,
			close:     func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverPostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		store := pgstore.NewStateStore(pool)
		return &backend{store: store, checker: store, directory: pgstore.NewUserDirectory(pool), close: pool.Close}, nil

	default:
		store := memory.NewStateStore()
		return &backend{store: store, checker: store, directory: memory.NewUserDirectory(), close: func() {}}, nil
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	be, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	defer be.close()

	codec := token.NewCodec(token.Options{
		Secret:      cfg.Token.Secret,
		RoleClaim:   cfg.Token.RoleClaim,
		RoleAliases: cfg.Token.Aliases(),
		Leeway:      cfg.Token.Leeway,
	})
	remoteCfg := remote.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout, Observe: metrics.ObserveUpstream}
	authClient := remote.NewAuthClient(remoteCfg, log)

	var (
		gateway  ports.AuthGateway = authClient
		identity *service.IdentityService
	)
	if cfg.Identity.Enabled {
		identity = service.NewIdentityService(be.directory, codec, cfg.Identity.TokenTTL, log)
		if cfg.Identity.AdminEmail != "" {
			err := identity.EnsureAccount(ctx, cfg.Identity.AdminName, cfg.Identity.AdminEmail, cfg.Identity.AdminPassword, domain.RoleAdministrator)
			if err != nil {
				return fmt.Errorf("seed administrator: %w", err)
			}
		}
		gateway = identity
		log.Warn().Msg("local identity service enabled; remote authentication bypassed")
	}

	session := service.NewSessionManager(gateway, codec, be.store, log)
	defer session.Close()
	session.Subscribe(metrics.SessionListener)
	if session.Restore(ctx) {
		user, _ := session.CurrentUser()
		log.Info().Str("landing_area", domain.LandingArea(user.Role)).Msg("previous session resumed")
	}

	resources := remote.NewResourceClient(remoteCfg, session, log)
	deps := api.Dependencies{
		Session:   session,
		Standings: service.NewStandingService(session, resources, resources, cfg.StandingsFanOut, log),
		Reports:   service.NewReportService(session, resources),
		Health: map[string]handler.Checker{
			"store":      be.checker,
			"school_api": authClient,
		},
		Log: logger.Component("http"),
	}
	if identity != nil {
		deps.Identity = identity
	}
	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		addr := net.JoinHostPort(cfg.Host, cfg.Port)
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.Store.Driver).Msg("console listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	log.Info().Msg("console stopped")
	return nil
}
