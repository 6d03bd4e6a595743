package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"fedauth/internal/config"
	"fedauth/internal/logger"
)

const usage = "Usage: migrate [up|down|steps N|version]"

func main() {
	_ = godotenv.Load()

	cfg := config.Read()
	logger.Init(cfg.Log)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	source := os.Getenv("FEDAUTH_MIGRATIONS_PATH")
	if source == "" {
		source = "file://db/migrations"
	}

	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migrate instance")
	}
	defer m.Close()

	cmd := os.Args[1]
	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration up failed")
		}
		log.Info().Msg("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration down failed")
		}
		log.Info().Msg("migrations reverted successfully")

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal().Msg("steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid steps argument")
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration steps failed")
		}
		log.Info().Int("steps", n).Msg("applied migration steps")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get version")
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}
