package postgres

//nolint:revive
import (
	"hotel/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	roleRead  = "read"
	roleWrite = "write"
)

// Connection holds the read replica and the primary. Repositories query
// through Read and run every mutation and transaction on Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the read/write split.
type Endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Timezone string
	SSLMode  string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	return &Connection{
		Read:  Connect(config, roleRead, Endpoint(pg.Read)),
		Write: Connect(config, roleWrite, Endpoint(pg.Write)),
	}
}

// DSN renders an endpoint as a lib/pq connection URL. The configured prefix
// is prepended to the database name so several environments can share a server.
func DSN(config *config.Config, endpoint Endpoint) string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(endpoint.Username, endpoint.Password),
		Host:   net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:   "/" + config.DB.Postgres.Prefix + endpoint.Name,
	}

	query := url.Values{}
	if endpoint.SSLMode != "" {
		query.Set("sslmode", endpoint.SSLMode)
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	dsn.RawQuery = query.Encode()

	return dsn.String()
}

// Connect retries until the endpoint answers or MaxRetry attempts are used up,
// in which case it returns nil.
func Connect(config *config.Config, role string, endpoint Endpoint) *sqlx.DB {
	pg := config.DB.Postgres
	dsn := DSN(config, endpoint)

	for attempt := 1; attempt <= pg.MaxRetry; attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(pg.Pool.MaxOpen)
			db.SetMaxIdleConns(pg.Pool.MaxIdle)
			db.SetConnMaxLifetime(time.Duration(pg.Pool.MaxLifetimeMins) * time.Minute)

			log.Info().
				Str("role", role).
				Str("host", endpoint.Host).
				Str("dbName", pg.Prefix+endpoint.Name).
				Int("maxOpen", pg.Pool.MaxOpen).
				Msg("Connected to database")

			return db
		}

		log.Error().
			Err(err).
			Str("role", role).
			Str("host", endpoint.Host).
			Int("attempt", attempt).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	log.Error().Str("role", role).Str("host", endpoint.Host).Msg("Giving up on database connection")

	return nil
}
