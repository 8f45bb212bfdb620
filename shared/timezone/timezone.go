// Package timezone pins wall-clock handling to APP_TIMEZONE. Stay dates, revenue windows and
// response timestamps are all interpreted in this location.
package timezone

import (
	"stays/config"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultZone = "UTC"

var (
	location atomic.Pointer[time.Location]
	loadOnce sync.Once
)

// Load resolves an IANA zone name, falling back to UTC when it is empty or unknown.
func Load(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")

		return time.UTC
	}

	return loc
}

// Set overrides the application location.
func Set(loc *time.Location) {
	loadOnce.Do(func() {})
	location.Store(loc)
}

// GetLocation returns the application location, reading configuration on first use.
func GetLocation() *time.Location {
	loadOnce.Do(func() {
		name := config.Get().App.Timezone
		if name == "" {
			log.Warn().Str("timezone", defaultZone).Msg("No timezone configured")
		}

		loc := Load(name)
		location.Store(loc)

		log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
	})

	return location.Load()
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value in the application location when layout carries no zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
