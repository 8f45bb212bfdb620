package main

import (
	"context"
	"os"
	"os/signal"
	"stays/config"
	"stays/di"
	"stays/shared/logger"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeNotificationConsumer()
	consumer.Run(ctx)

	log.Info().Msg("Notification consumer stopped.")
}
