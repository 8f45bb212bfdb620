//go:build wireinject
// +build wireinject

package di

import (
	"stays/config"
	"stays/infras/jwt"
	"stays/infras/kafka"
	"stays/infras/mailer"
	"stays/infras/otel"
	"stays/infras/postgres"
	"stays/infras/redis"
	"stays/infras/s3"
	"stays/permissions"
	"stays/shared/cache"
	"stays/shared/locker"
	"stays/shared/notify"
	"stays/transport/event"
	"stays/transport/http"
	"stays/transport/http/middleware"
	"stays/transport/http/router"

	"github.com/google/wire"

	authService "stays/internal/domains/auth/service"
	availabilityService "stays/internal/domains/availability/service"
	bookingRepository "stays/internal/domains/booking/repository"
	bookingService "stays/internal/domains/booking/service"
	discountService "stays/internal/domains/discount/service"
	reportRepository "stays/internal/domains/report/repository"
	reportService "stays/internal/domains/report/service"
	roomRepository "stays/internal/domains/room/repository"
	roomService "stays/internal/domains/room/service"
	userRepository "stays/internal/domains/user/repository"
	userService "stays/internal/domains/user/service"
	adminHandler "stays/internal/handlers/admin"
	authHandler "stays/internal/handlers/auth"
	bookingHandler "stays/internal/handlers/booking"
	roomHandler "stays/internal/handlers/room"
	userHandler "stays/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	mailer.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	locker.New,
	notify.NewNotifier,
	notify.NewDispatcher,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
	discountService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	availabilityService.New,
	bookingService.New,
)

var reportDomain = wire.NewSet(
	reportRepository.New,
	reportService.New,
)

var domains = wire.NewSet(
	userDomain,
	roomDomain,
	bookingDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	bookingHandler.New,
	userHandler.New,
	adminHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeNotificationConsumer() *event.NotificationConsumer {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		mailer.New,
		notify.NewMailNotifier,
		event.NewNotificationConsumer,
	)

	return &event.NotificationConsumer{}
}
