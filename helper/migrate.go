package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"hotel/config"
	"net"
	"net/url"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
	ActionForce   = "force"

	migrationSource = "file://migrations/postgres"
)

func getDBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// connectionString builds the write DSN; credentials are escaped so passwords may hold
// reserved URL characters.
func connectionString(config *config.Config) string {
	write := config.DB.Postgres.Write

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(write.Username, write.Password),
		Host:   net.JoinHostPort(write.Host, write.Port),
		Path:   "/" + getDBName(config, write.Name),
	}

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)

	if config.DB.Postgres.MigrationTable != "" {
		query.Set("x-migrations-table", config.DB.Postgres.MigrationTable)
	}

	dsn.RawQuery = query.Encode()

	return dsn.String()
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New(migrationSource, connectionString(config))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func ignoreNoChange(err error) error {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Runner applies a migration action. args carries the target version for ActionForce.
func Runner(config *config.Config, action string, args ...string) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		if err := ignoreNoChange(mig.Up()); err != nil {
			return fmt.Errorf("error running migrations: %w", err)
		}
	case ActionDown:
		if err := ignoreNoChange(mig.Steps(-1)); err != nil {
			return fmt.Errorf("error rolling back migrations: %w", err)
		}
	case ActionStepUp:
		if err := ignoreNoChange(mig.Steps(1)); err != nil {
			return fmt.Errorf("error running migrations: %w", err)
		}
	case ActionDrop:
		if err := ignoreNoChange(mig.Down()); err != nil {
			return fmt.Errorf("error dropping migrations: %w", err)
		}
	case ActionVersion:
		version, dirty, err := mig.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading migration version: %w", err)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current migration version")

		return nil
	case ActionForce:
		if len(args) == 0 {
			return errors.New("force requires a version")
		}

		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}

		if err := mig.Force(version); err != nil {
			return fmt.Errorf("error forcing migration version: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration action %q", action)
	}

	log.Info().Str("action", action).Msg("Database migrations completed successfully")

	return nil
}
