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

func main() {
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: list-history <myshopify-domain>")
		os.Exit(1)
	}
	shopDomain := os.Args[1]

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

	entries, err := repos.AuditLog.ListByDomain(context.Background(), shopDomain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list history: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Printf("No restorable history for %s in the last 24 hours.\n", shopDomain)
		os.Exit(0)
	}

	fmt.Printf("History for %s (newest first):\n\n", shopDomain)
	for _, e := range entries {
		restorable := "restorable"
		if !e.Restore {
			restorable = "consumed"
		}
		fmt.Printf("  %s  %-18s %-10s rows=%-4d (%s)  %s\n",
			e.ID.String(), e.Operation, e.ObjectType, len(e.Value), restorable,
			e.Time.Format("2006-01-02 15:04"))
	}
}
