// Package tracker runs the proximity tracking service: location ingest,
// distance queries and arrival notifications.
package tracker

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"labourline/internal/config"
	"labourline/internal/connections/database"
	"labourline/internal/connections/rabbitmq"
	"labourline/internal/connections/redisconn"
	"labourline/internal/microservices/tracker/handlers"
	"labourline/internal/microservices/tracker/repository"
	"labourline/internal/microservices/tracker/service"
)

func Run(ctx context.Context, cfg *config.Config, port string, log zerolog.Logger) error {
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := redisconn.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer rmq.Close()

	repo := repository.New(pool, rdb)
	svc := service.New(repo, rmq, log)
	handler := handlers.New(svc)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handlers.Router(handler, cfg.JWTSecret),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("tracking service listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
