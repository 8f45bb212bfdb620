// Package event consumes notification messages published by the API and delivers them by mail.
package event

import (
	"context"
	"fmt"
	"stays/config"
	"stays/infras/kafka"
	"stays/infras/otel"
	"stays/shared/constant"
	"stays/shared/notify"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type NotificationConsumer struct {
	client   kafka.Client
	notifier notify.Notifier
	cfg      *config.Config
	otel     otel.Otel
}

// NewNotificationConsumer delivers through notifier, which is the SMTP notifier in cmd/notifier.
func NewNotificationConsumer(client kafka.Client, notifier notify.Notifier, cfg *config.Config, otel otel.Otel) *NotificationConsumer {
	return &NotificationConsumer{
		client:   client,
		notifier: notifier,
		cfg:      cfg,
		otel:     otel,
	}
}

// Run blocks until ctx is cancelled.
func (c *NotificationConsumer) Run(ctx context.Context) {
	topic := c.cfg.Kafka.Topics.Notification

	log.Info().Str("topic", topic).Str("group", c.cfg.Kafka.ConsumerGroup).Msg("Notification consumer started")

	c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, topic, c.Handle)
}

// Handle delivers one message. Undecodable and recipient-less messages are dropped.
func (c *NotificationConsumer) Handle(ctx context.Context, message kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Notification")
	defer scope.End()
	defer scope.TraceIfError(err)

	msg, err := kafka.DecodeKafkaMessage[notify.Message](message)
	if err != nil {
		return fmt.Errorf("failed to decode notification: %w", err)
	}

	scope.SetAttributes(map[string]any{
		"notify.kind": msg.Kind,
		"notify.to":   msg.To,
	})

	if msg.To == constant.Empty {
		log.Warn().Str("kind", msg.Kind).Msg("notification dropped, no recipient")

		return nil
	}

	if err = c.notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to deliver %s notification: %w", msg.Kind, err)
	}

	log.Info().Str("kind", msg.Kind).Str("to", msg.To).Msg("notification delivered")

	return nil
}
