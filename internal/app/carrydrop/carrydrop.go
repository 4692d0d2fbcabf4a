package carrydrop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/carrydrop/internal/cache"
	"github.com/magabrotheeeer/carrydrop/internal/config"
	"github.com/magabrotheeeer/carrydrop/internal/http/handlers/health"
	"github.com/magabrotheeeer/carrydrop/internal/lib/jwt"
	"github.com/magabrotheeeer/carrydrop/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/carrydrop/internal/lib/sl"
	"github.com/magabrotheeeer/carrydrop/internal/migrations"
	"github.com/magabrotheeeer/carrydrop/internal/paymentprovider"
	accommodationservice "github.com/magabrotheeeer/carrydrop/internal/services/accommodation"
	authservice "github.com/magabrotheeeer/carrydrop/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/carrydrop/internal/services/payment"
	reservationservice "github.com/magabrotheeeer/carrydrop/internal/services/reservation"
	"github.com/magabrotheeeer/carrydrop/internal/storage/repository"
)

// App — HTTP API CarryDrop.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	conn      *amqp.Connection
	publisher *rabbitmq.Publisher
}

// New поднимает зависимости, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Payment.Validate(); err != nil {
		return nil, err
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	// Без адреса брокера события не публикуются.
	var publisher reservationservice.Publisher
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
		logger.Warn("rabbitmq url is empty, domain events are disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	reservationService := reservationservice.NewReservationService(db, cacheRedis, publisher, logger)
	providerClient := paymentprovider.NewClient(cfg.ProviderURL, cfg.SecretKey, cfg.Payment.Timeout, cfg.RPS)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Services{
		Auth:          authservice.NewAuthService(db, jwtMaker),
		Reservation:   reservationService,
		Accommodation: accommodationservice.NewAccommodationService(db, cacheRedis, logger),
		Payment:       paymentservice.New(reservationService, db, providerClient, cfg.Currency, logger),
		Health: map[string]health.Checker{
			"postgres": db,
			"redis":    cacheRedis,
		},
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeResources()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeResources()
		return err
	}
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
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
