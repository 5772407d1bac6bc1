// Package work runs the labour-marketplace core: postings, the lifecycle
// state machine, bidding and pricing, exposed over HTTP.
package work

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"labourline/internal/config"
	"labourline/internal/connections/database"
	"labourline/internal/connections/rabbitmq"
	"labourline/internal/microservices/work/handlers"
	"labourline/internal/microservices/work/repository"
	"labourline/internal/microservices/work/service"
	"labourline/internal/pricing"
)

// Run wires the service and blocks until ctx is cancelled, then drains
// in-flight requests before returning.
func Run(ctx context.Context, cfg *config.Config, port string, log zerolog.Logger) error {
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer rmq.Close()

	repo := repository.New(pool)
	svc := service.New(repo, pricing.DefaultCatalog(), rmq, log)
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
		log.Info().Str("addr", srv.Addr).Msg("work service listening")
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
