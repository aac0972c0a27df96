package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"portfolio_tracker_back/internal/config"
	"portfolio_tracker_back/pkg/repository"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	direction := flag.String("direction", "up", "up, down or version")
	configDir := flag.String("config", "configs", "directory holding config.yml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		logrus.Fatalf("load config: %s", err)
	}
	dbURL := cfg.DB.URL()

	switch *direction {
	case "up":
		if err := repository.RunMigrations(dbURL, cfg.MigrationsPath); err != nil {
			logrus.Fatal(err)
		}
		logrus.Info("migrations applied")
	case "down":
		if err := repository.RollbackMigrations(dbURL, cfg.MigrationsPath); err != nil {
			logrus.Fatal(err)
		}
		logrus.Info("last migration rolled back")
	case "version":
		version, dirty, err := repository.MigrationVersion(dbURL, cfg.MigrationsPath)
		if err != nil {
			logrus.Fatal(err)
		}
		logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migration version")
	default:
		logrus.Fatalf("unknown direction %q", *direction)
	}
}
