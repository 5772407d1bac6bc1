package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"labourline/internal/connections/rabbitmq"
	"labourline/internal/domain"
)

const notificationsQueue = "notifications_queue"

// NotificatorService consumes the work event stream and emits one
// notification line per event. Delivery to actual devices (push, SMS) is a
// transport concern that plugs in behind notifyLine.
type NotificatorService struct {
	rmqClient *rabbitmq.Client
	log       zerolog.Logger
}

func NewNotificatorService(rmqClient *rabbitmq.Client, log zerolog.Logger) *NotificatorService {
	return &NotificatorService{rmqClient: rmqClient, log: log}
}

// Notify binds a durable queue to every work event routing key and consumes
// until ctx is cancelled. Events that fail to decode are rejected without
// requeue; everything else is acked after handling.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	ch := ns.rmqClient.Channel()

	q, err := ch.QueueDeclare(notificationsQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "#", rabbitmq.EventsExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "notificator", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	ns.log.Info().Str("queue", q.Name).Msg("notification subscriber running")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			var ev domain.WorkEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				ns.log.Warn().Err(err).Str("message_id", msg.MessageId).Msg("undecodable event rejected")
				_ = msg.Nack(false, false)
				continue
			}

			ns.notifyLine(ev)
			_ = msg.Ack(false)
		}
	}
}

func (ns *NotificatorService) notifyLine(ev domain.WorkEvent) {
	recipient, text := renderNotification(ev)
	if text == "" {
		ns.log.Debug().Str("type", ev.Type).Str("work_id", ev.WorkID).Msg("event without notification")
		return
	}
	ns.log.Info().
		Str("type", ev.Type).
		Str("work_id", ev.WorkID).
		Str("recipient", recipient).
		Msg(text)
}

// renderNotification picks who is told what for each event type. Created
// postings fan out to workers via the open listing, so no direct recipient.
func renderNotification(ev domain.WorkEvent) (recipient, text string) {
	switch ev.Type {
	case domain.EventWorkAccepted:
		return ev.WorkerID, fmt.Sprintf("you were assigned %q", ev.Title)
	case domain.EventWorkInProgress:
		return ev.EmployerID, fmt.Sprintf("work on %q has started", ev.Title)
	case domain.EventWorkCompleted:
		return ev.WorkerID, fmt.Sprintf("%q was marked complete", ev.Title)
	case domain.EventWorkCancelled:
		if ev.WorkerID != "" {
			return ev.WorkerID, fmt.Sprintf("%q was cancelled", ev.Title)
		}
		return ev.EmployerID, fmt.Sprintf("%q was cancelled", ev.Title)
	case domain.EventWorkExpired:
		return ev.EmployerID, fmt.Sprintf("%q expired without being taken", ev.Title)
	case domain.EventWorkerArrived:
		return ev.EmployerID, "your worker has arrived at the site"
	default:
		return "", ""
	}
}
