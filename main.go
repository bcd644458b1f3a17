package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/app"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/config"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/database"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/pkg/logger"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateDirection := migrateCmd.String("direction", "up", "direction of migration (up/down)")
	migrateDir := migrateCmd.String("dir", "migrations", "path to the migrations directory")

	seedCmd := flag.NewFlagSet("seed-user", flag.ExitOnError)
	seedUsername := seedCmd.String("username", "", "login name")
	seedPassword := seedCmd.String("password", "", "login password")
	seedRole := seedCmd.String("role", "Super Admin", "role: 'Super Admin', Admin or Trainer")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			migrateCmd.Parse(os.Args[2:])
			runMigrations(*migrateDirection, *migrateDir)
			return
		case "seed-user":
			seedCmd.Parse(os.Args[2:])
			seedUser(*seedUsername, *seedPassword, *seedRole)
			return
		}
	}

	cfg, log := loadConfig()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	log.Info().Msg("Database connection established")

	application, err := app.New(cfg, log, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	go func() {
		if err := application.Run(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run application")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down front desk service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Front desk service stopped")
}

func loadConfig() (*config.Config, zerolog.Logger) {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	return cfg, logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)
}

func runMigrations(direction, dir string) {
	cfg, log := loadConfig()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db, dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}

	switch direction {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Migrations applied successfully")
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal().Err(err).Msg("Failed to rollback migrations")
		}
		log.Info().Msg("Migrations rolled back successfully")
	default:
		log.Fatal().Msg("Invalid migration direction. Use 'up' or 'down'")
	}

	if v, dirty, err := migrator.Version(); err == nil {
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("Schema version")
	}
}

// seedUser creates a staff login, typically the first Super Admin.
func seedUser(username, password, role string) {
	cfg, log := loadConfig()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	credentials := service.NewCredentialService(repository.NewCredentialRepository(db, log), log)
	user, err := credentials.CreateUser(ctx, username, password, role)
	if err != nil {
		log.Fatal().Err(err).Str("username", username).Str("role", role).Msg("Failed to create user")
	}

	log.Info().Str("id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("User created")
}
