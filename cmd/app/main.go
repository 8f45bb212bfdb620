package main

import (
	"stays/config"
	"stays/di"
	"stays/helper"
	"stays/shared/logger"
	"stays/shared/password"

	"github.com/rs/zerolog/log"
)

// @title Stays API
// @version 1.0
// @description Room booking admission and pricing service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	password.SetCost(cfg.App.PasswordCost)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
