// Package gymmembership собирает основное HTTP-приложение фитнес-клуба:
// хранилище, кеш, брокер уведомлений, сервисы и маршруты.
package gymmembership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/streadway/amqp"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/gym-membership/internal/cache"
	"github.com/magabrotheeeer/gym-membership/internal/config"
	customjwt "github.com/magabrotheeeer/gym-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-membership/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-membership/internal/lib/signup"
	"github.com/magabrotheeeer/gym-membership/internal/migrations"
	"github.com/magabrotheeeer/gym-membership/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/gym-membership/internal/services/auth"
	contentservice "github.com/magabrotheeeer/gym-membership/internal/services/content"
	memberservice "github.com/magabrotheeeer/gym-membership/internal/services/member"
	paymentservice "github.com/magabrotheeeer/gym-membership/internal/services/payment"
	planservice "github.com/magabrotheeeer/gym-membership/internal/services/plan"
	tokengateservice "github.com/magabrotheeeer/gym-membership/internal/services/tokengate"
	"github.com/magabrotheeeer/gym-membership/internal/storage/repository"
)

// App основное приложение фитнес-клуба.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает экземпляр приложения со всеми зависимостями.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = waitForDB(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnection, cfg.ConnectRetries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	otpNotifier := &rabbitmq.OTPNotifier{Publisher: &rabbitmq.Publisher{
		Ch:       ch,
		Exchange: rabbitmq.NotificationsExchange,
	}}

	jwtMaker := customjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	signupMaker := signup.NewMaker(cfg.SignupSecretKey, cfg.SignupTTL)
	gateway := paymentprovider.NewClient(cfg.ProviderKeyID, cfg.ProviderSecret)

	authService := authservice.New(db, db, cacheRedis, otpNotifier, jwtMaker)
	tokengateService := tokengateservice.New(db, db, db, signupMaker, jwtMaker)
	memberService := memberservice.New(db, db, cacheRedis)
	planService := planservice.New(db, cacheRedis)
	paymentService := paymentservice.New(db, db, gateway, memberService, logger)
	contentService := contentservice.New(db)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:      authService,
		TokenGate: tokengateService,
		Member:    memberService,
		Plan:      planService,
		Payment:   paymentService,
		Content:   contentService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
