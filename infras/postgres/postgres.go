package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"stays/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName = "postgres"
	roleRead   = "read"
	roleWrite  = "write"
)

// Connection splits reads from writes. Availability checks and admissions always use Write
// so they observe committed bookings without replica lag.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, roleRead, cfg.DB.Postgres.Read),
		Write: connect(cfg, roleWrite, cfg.DB.Postgres.Write),
	}
}

// DSN builds a lib/pq connection URL for endpoint. Extra parameters are appended to the query.
func DSN(cfg *config.Config, endpoint config.Endpoint, extra map[string]string) string {
	query := url.Values{}

	if endpoint.SSLMode != "" {
		query.Set("sslmode", endpoint.SSLMode)
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	for key, value := range extra {
		query.Set(key, value)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(cfg *config.Config, role string, endpoint config.Endpoint) *sqlx.DB {
	settings := cfg.DB.Postgres
	dsn := DSN(cfg, endpoint, nil)

	logger := log.With().
		Str("role", role).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("db", settings.Prefix+endpoint.Name).
		Logger()

	attempts := max(settings.MaxRetry, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			db.SetMaxOpenConns(settings.MaxOpenConns)
			db.SetMaxIdleConns(settings.MaxIdleConns)
			db.SetConnMaxLifetime(time.Duration(settings.ConnMaxLifeMin) * time.Minute)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(settings.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Int("attempts", attempts).Msg("Database unreachable")

	return nil
}
