// Package sweeper schedules the expiry sweep on a cron cadence.
package sweeper

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"labourline/internal/config"
	"labourline/internal/connections/database"
	"labourline/internal/connections/rabbitmq"
	"labourline/internal/microservices/sweeper/repository"
	"labourline/internal/microservices/sweeper/service"
)

func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if !cfg.Expiry.Enabled {
		log.Warn().Msg("expiry sweeper mode selected but EXPIRY_ENABLED is false; nothing to do")
		return nil
	}

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

	sweep := service.New(repository.New(pool), rmq, cfg.Expiry, log)

	c := cron.New()
	_, err = c.AddFunc(cfg.Expiry.CronSpec, func() {
		if err := sweep.Sweep(ctx); err != nil {
			log.Error().Err(err).Msg("expiry sweep failed")
		}
	})
	if err != nil {
		return err
	}

	// One pass at startup so a long-stopped sweeper catches up immediately.
	if err := sweep.Sweep(ctx); err != nil {
		log.Error().Err(err).Msg("initial expiry sweep failed")
	}

	c.Start()
	log.Info().Str("schedule", cfg.Expiry.CronSpec).Msg("expiry sweeper running")

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}
