package service

import (
	"github.com/rs/zerolog"

	"labourline/internal/connections/rabbitmq"
)

type Service struct {
	NotificatorService *NotificatorService
}

func New(rmqClient *rabbitmq.Client, log zerolog.Logger) *Service {
	return &Service{NotificatorService: NewNotificatorService(rmqClient, log)}
}
