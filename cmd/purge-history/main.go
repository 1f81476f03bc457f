package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/bulkeditor/internal/config"
	"github.com/jafarshop/bulkeditor/internal/repository/postgres"
)

// Manual sweep of expired audit entries. The server sweeps on every write,
// so this only matters for stores that have gone quiet.
func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	purged, err := repos.AuditLog.PurgeExpired(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to purge expired entries: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Purged %d expired audit entries.\n", purged)
}
