package postgres_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stays/config"
	"stays/infras/postgres"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"

	endpoint := config.Endpoint{
		Host:     "db.internal",
		Port:     "5432",
		Username: "stays",
		Password: "p@ss:word",
		Name:     "bookings",
		Timezone: "UTC",
		SSLMode:  "disable",
	}

	tests := []struct {
		name      string
		extra     map[string]string
		wantQuery url.Values
	}{
		{
			name: "endpoint settings only",
			wantQuery: url.Values{
				"sslmode":  {"disable"},
				"timezone": {"UTC"},
			},
		},
		{
			name:  "migration table appended",
			extra: map[string]string{"x-migrations-table": "schema_migrations"},
			wantQuery: url.Values{
				"sslmode":            {"disable"},
				"timezone":           {"UTC"},
				"x-migrations-table": {"schema_migrations"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := url.Parse(postgres.DSN(cfg, endpoint, tt.extra))
			require.NoError(t, err)

			password, _ := parsed.User.Password()

			assert.Equal(t, "postgres", parsed.Scheme)
			assert.Equal(t, "db.internal:5432", parsed.Host)
			assert.Equal(t, "/test_bookings", parsed.Path)
			assert.Equal(t, "stays", parsed.User.Username())
			assert.Equal(t, "p@ss:word", password)
			assert.Equal(t, tt.wantQuery, parsed.Query())
		})
	}
}
