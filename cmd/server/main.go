// Command server runs the identity lifecycle service: registration,
// confirmation, administrative activation, password flows, and the directory
// synchronization behind them.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"cloudid/internal/directory"
	"cloudid/internal/identity/handler"
	identitymetrics "cloudid/internal/identity/metrics"
	"cloudid/internal/identity/service"
	idstore "cloudid/internal/identity/store/identity"
	"cloudid/internal/login"
	"cloudid/internal/notify"
	"cloudid/internal/platform/config"
	"cloudid/internal/platform/httpserver"
	"cloudid/internal/platform/logger"
	"cloudid/internal/platform/middleware"
	platformredis "cloudid/internal/platform/redis"
	httptransport "cloudid/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthChecks := map[string]httptransport.HealthCheck{}

	// Identity store: Postgres when configured, in-memory otherwise.
	var identityStore service.IdentityStore = idstore.NewInMemory()
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		identityStore = idstore.NewPostgres(db)
		healthChecks["postgres"] = db.PingContext
		log.Info("using postgres identity store")
	} else {
		log.Warn("no postgres dsn configured, using in-memory identity store")
	}

	// Login collaborator: Redis when configured, in-memory otherwise.
	var logins service.LoginAccounts = login.NewInMemory()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		logins = login.NewRedis(redisClient.Client)
		healthChecks["redis"] = redisClient.Health
		log.Info("using redis login store")
	}

	// Notifier: Kafka when seeds are configured, structured log otherwise.
	var notifier service.Notifier = notify.NewLog(log)
	if len(cfg.Kafka.Seeds) > 0 {
		kafka, err := notify.NewKafka(cfg.Kafka, log)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafka.Close(flushCtx); err != nil {
				log.Warn("kafka flush on shutdown failed", "error", err)
			}
		}()
		notifier = kafka
		log.Info("using kafka notifier", "topic", cfg.Kafka.Topic)
	}

	svc := service.New(
		identityStore,
		directory.NewLDAP(cfg.Directory),
		cfg.Directory.BaseDN,
		service.WithLogger(log),
		service.WithMetrics(identitymetrics.New()),
		service.WithLoginAccounts(logins),
		service.WithNotifier(notifier),
	)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Identity:       handler.New(svc, log),
		AdminValidator: middleware.NewAdminValidator(cfg.Server.JWTSigningKey),
		Logger:         log,
		HealthChecks:   healthChecks,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
