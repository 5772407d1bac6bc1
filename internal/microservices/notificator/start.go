// Package notificator is the subscriber side of the work event stream.
package notificator

import (
	"context"

	"github.com/rs/zerolog"

	"labourline/internal/config"
	"labourline/internal/connections/rabbitmq"
	"labourline/internal/microservices/notificator/service"
)

func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer rmq.Close()

	svc := service.New(rmq, log)
	return svc.NotificatorService.Notify(ctx)
}
