// Package scheduler содержит приложение ежедневного пересчёта уровней членства.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/carrydrop/internal/config"
	"github.com/magabrotheeeer/carrydrop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	membershipservice "github.com/magabrotheeeer/carrydrop/internal/services/membership"
	"github.com/magabrotheeeer/carrydrop/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	scheduler     *membershipservice.Scheduler
	db            *repository.Storage
	conn          *amqp.Connection
	publisher     *rabbitmq.Publisher
	metricsServer *http.Server
	logger        *slog.Logger
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for i := 0; i < 10; i++ {
		err := repository.CheckDatabaseReady(ctx, db)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
// Схему базы применяет основной сервис, здесь только ожидание её готовности.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	hour, minute, err := cfg.RunAtClock()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	app := &App{db: db, logger: logger}

	if err := waitForDB(ctx, db); err != nil {
		app.closeResources()
		return nil, err
	}

	var publisher membershipservice.Publisher
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
		}
		app.conn = conn
		ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.EventQueues())
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		app.publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
		publisher = app.publisher
	} else {
		logger.Warn("rabbitmq url is empty, role change events are disabled")
	}

	membershipService := membershipservice.NewMembershipService(db, publisher, logger)
	app.scheduler = membershipservice.NewScheduler(membershipService, hour, minute, loc, cfg.RunOnStart, logger)

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		app.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return app, nil
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server starting on", slog.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", sl.Err(err))
			}
		}()
	}

	err := a.scheduler.Run(ctx)

	a.logger.Info("shutting down scheduler service")
	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to stop metrics server", sl.Err(err))
		}
	}
	a.closeResources()
	return err
}

func (a *App) closeResources() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
