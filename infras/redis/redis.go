package redis

import (
	"context"
	"hotel/config"
	"net"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 5 * time.Second

// Options maps the primary cache configuration onto client options.
func Options(config *config.Config) *goRedis.Options {
	primary := config.Cache.Redis.Primary

	timeout := time.Duration(primary.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &goRedis.Options{
		Addr:        net.JoinHostPort(primary.Host, primary.Port),
		ClientName:  config.App.Name,
		Password:    primary.Password,
		DB:          primary.DB,
		PoolSize:    primary.PoolSize,
		DialTimeout: timeout,
	}
}

// New connects to the primary cache and exits the process when it cannot be reached.
func New(config *config.Config) *goRedis.Client {
	opts := Options(config)
	client := goRedis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", opts.Addr).Msg("Failed to connect to Redis")
	}

	log.Info().
		Int("db", opts.DB).
		Str("addr", opts.Addr).
		Int("poolSize", opts.PoolSize).
		Msg("Connected to Redis")

	return client
}
