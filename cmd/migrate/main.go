// Command migrate applies the SQL files under migrations/ to DATABASE_URL.
//
//	migrate [-path migrations] up | down | steps <n> | version | force <version>
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"

	"github.com/stemsi/classgrid-backend/internal/config"
	"github.com/stemsi/classgrid-backend/internal/logger"
)

func main() {
	dir := flag.String("path", "migrations", "directory holding the migration files")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Component(logger.Setup(cfg.LogLevel, cfg.LogFormat), "migrate")
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	m, err := migrate.New("file://"+*dir, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dir).Msg("cannot open migrations")
	}

	err = run(m, args, log)
	srcErr, dbErr := m.Close()
	if err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("migration failed")
	}
	if err := errors.Join(srcErr, dbErr); err != nil {
		log.Warn().Err(err).Msg("close")
	}
}

func run(m *migrate.Migrate, args []string, log zerolog.Logger) error {
	switch args[0] {
	case "up":
		return report(m, log, m.Up())
	case "down":
		return report(m, log, m.Down())
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return report(m, log, m.Steps(n))
	case "force":
		v, err := intArg(args)
		if err != nil {
			return err
		}
		if err := m.Force(v); err != nil {
			return err
		}
		log.Info().Int("version", v).Msg("version forced")
		return nil
	case "version":
		return report(m, log, nil)
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// report logs the schema version after a command. ErrNoChange is not a failure.
func report(m *migrate.Migrate, log zerolog.Logger, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Msg("no change")
	} else if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Msg("no migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema version")
	return nil
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s needs a number", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", args[0], err)
	}
	return n, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [flags] up | down | steps <n> | version | force <version>")
	flag.PrintDefaults()
}
