package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/courtside-app/courtside-api/internal/platform/logging"
)

func main() {
	logger := logging.NewJSON(logging.LevelInfo)
	defer logger.Sync()

	if len(os.Args) < 2 {
		logger.Error("missing command", "usage", "migration <up|down|version|force|goto> [arg]")
		os.Exit(1)
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		logger.Error("DB_URL is required")
		os.Exit(1)
	}

	sourceURL := "file://" + resolveMigrationsDir()

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		logger.Error("create migrator", "error", err, "source", sourceURL)
		os.Exit(1)
	}
	defer closeMigrator(logger, m)

	command := os.Args[1]
	switch command {
	case "up":
		handleMigrationErr(logger, command, m.Up())
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				logger.Error("invalid step count", "error", err, "arg", os.Args[2])
				os.Exit(1)
			}
		}
		handleMigrationErr(logger, command, m.Steps(-steps))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			logger.Error("read version", "error", err)
			os.Exit(1)
		}
		logger.Info("migration version", "version", version, "dirty", dirty)
	case "force":
		version, err := requireVersionArg()
		if err != nil {
			logger.Error("invalid version", "error", err)
			os.Exit(1)
		}
		handleMigrationErr(logger, command, m.Force(version))
	case "goto":
		version, err := requireVersionArg()
		if err != nil {
			logger.Error("invalid version", "error", err)
			os.Exit(1)
		}
		handleMigrationErr(logger, command, m.Migrate(uint(version)))
	default:
		logger.Error("unknown command", "command", command)
		os.Exit(1)
	}
}

func requireVersionArg() (int, error) {
	if len(os.Args) < 3 {
		return 0, errors.New("version argument is required")
	}
	version, err := strconv.Atoi(os.Args[2])
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", os.Args[2], err)
	}
	return version, nil
}

// resolveMigrationsDir prefers an explicit override and falls back to the
// directory shipped alongside the binary.
func resolveMigrationsDir() string {
	for _, key := range []string{"MIGRATIONS_DIR", "MIGRATIONS_PATH"} {
		if dir := os.Getenv(key); dir != "" {
			return dir
		}
	}
	return "./migrations"
}

func handleMigrationErr(logger *logging.Logger, command string, err error) {
	switch {
	case err == nil:
		logger.Info("migration applied", "command", command)
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("no migration change", "command", command)
	default:
		logger.Error("migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func closeMigrator(logger *logging.Logger, m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration database", "error", dbErr)
	}
}
