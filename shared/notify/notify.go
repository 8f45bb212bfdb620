// Package notify delivers guest notifications outside the request's critical path.
package notify

//go:generate go run go.uber.org/mock/mockgen -source=./notify.go -destination=./mocks/notify_mock.go -package=mocks

import (
	"context"
	"fmt"
	"stays/config"
	"stays/infras/kafka"
	"stays/infras/mailer"
	"stays/infras/otel"
	"stays/shared/constant"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	DriverKafka = "kafka"
	DriverSMTP  = "smtp"
	DriverLog   = "log"
)

const (
	KindBookingCreated = "booking.created"
	KindBookingStatus  = "booking.status"
	KindWelcome        = "user.welcome"
)

// Message is the unit published to the notification topic and delivered by cmd/notifier.
type Message struct {
	Kind    string `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier sends one message and reports whether it was handed off.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher runs Notifier.Send on a detached goroutine; failures are logged, never returned.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message)
	Wait(ctx context.Context) error
}

type kafkaNotifier struct {
	client kafka.Client
	topic  string
}

func (k *kafkaNotifier) Send(ctx context.Context, msg Message) error {
	if err := k.client.SendMessages(ctx, k.topic, kafka.Message{Key: msg.To, Value: msg}); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

type mailNotifier struct {
	mailer mailer.Mailer
}

func (m *mailNotifier) Send(ctx context.Context, msg Message) error {
	return m.mailer.Send(ctx, msg.To, msg.Subject, msg.Body) //nolint:wrapcheck
}

// NewMailNotifier delivers directly over SMTP; cmd/notifier uses it behind the Kafka consumer.
func NewMailNotifier(m mailer.Mailer) Notifier {
	return &mailNotifier{mailer: m}
}

type logNotifier struct{}

func (logNotifier) Send(_ context.Context, msg Message) error {
	log.Info().Str("kind", msg.Kind).Str("to", msg.To).Str("subject", msg.Subject).Msg("notification (log driver)")

	return nil
}

// NewNotifier picks the transport configured in NOTIFICATION_DRIVER.
func NewNotifier(cfg *config.Config, client kafka.Client, m mailer.Mailer) Notifier {
	switch cfg.Notification.Driver {
	case DriverSMTP:
		return NewMailNotifier(m)
	case DriverLog:
		return logNotifier{}
	default:
		return &kafkaNotifier{client: client, topic: cfg.Kafka.Topics.Notification}
	}
}

type dispatcher struct {
	notifier Notifier
	otel     otel.Otel
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, ot otel.Otel) Dispatcher {
	return &dispatcher{
		notifier: notifier,
		otel:     ot,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, msg Message) {
	if msg.To == constant.Empty {
		log.Warn().Str("kind", msg.Kind).Msg("notification skipped, no recipient")

		return
	}

	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("kind", msg.Kind).Msg("notification panicked")
			}
		}()

		c, scope := d.otel.NewScope(context.WithoutCancel(ctx), constant.OtelNotifyScopeName, constant.OtelNotifyScopeName+".Dispatch")
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"notify.kind": msg.Kind,
			"notify.to":   msg.To,
		})

		if err := d.notifier.Send(c, msg); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("kind", msg.Kind).Str("to", msg.To).Msg("failed to deliver notification")

			return
		}

		scope.AddEvent("notification delivered")
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done, whichever comes first.
func (d *dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notifications still in flight: %w", ctx.Err())
	}
}
