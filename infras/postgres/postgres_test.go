package postgres_test

import (
	"hotel/config"
	"hotel/infras/postgres"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name         string
		prefix       string
		endpoint     postgres.Endpoint
		wantPath     string
		wantPassword string
		wantQuery    url.Values
	}{
		{
			name:   "full endpoint",
			prefix: "stg_",
			endpoint: postgres.Endpoint{
				Host: "db.internal", Port: "5432", Username: "hotel", Password: "s3cr#t:pw",
				Name: "hotel", Timezone: "Asia/Jakarta", SSLMode: "require",
			},
			wantPath:     "/stg_hotel",
			wantPassword: "s3cr#t:pw",
			wantQuery:    url.Values{"sslmode": {"require"}, "timezone": {"Asia/Jakarta"}},
		},
		{
			name:         "optional parameters omitted",
			endpoint:     postgres.Endpoint{Host: "localhost", Port: "5433", Username: "ro", Password: "ro", Name: "hotel"},
			wantPath:     "/hotel",
			wantPassword: "ro",
			wantQuery:    url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.DB.Postgres.Prefix = tt.prefix

			parsed, err := url.Parse(postgres.DSN(cfg, tt.endpoint))
			require.NoError(t, err)

			password, _ := parsed.User.Password()

			assert.Equal(t, tt.endpoint.Host+":"+tt.endpoint.Port, parsed.Host)
			assert.Equal(t, tt.wantPath, parsed.Path)
			assert.Equal(t, tt.wantPassword, password)
			assert.Equal(t, tt.wantQuery, parsed.Query())
		})
	}
}

func TestConnect_NoRetriesReturnsNil(t *testing.T) {
	cfg := &config.Config{}

	assert.Nil(t, postgres.Connect(cfg, "read", postgres.Endpoint{Host: "localhost", Port: "1", Name: "hotel"}))
}
