package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bistro-backend/internal/database"
	"bistro-backend/internal/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	logger, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, dbURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	var result struct {
		ArchivedOrders int `db:"archived_orders"`
		ArchivedItems  int `db:"archived_items"`
		StatusChanges  int `db:"status_changes"`
	}
	query := `
		SELECT
			(SELECT COUNT(*) FROM order_archive) AS archived_orders,
			(SELECT COUNT(*) FROM order_archive_items) AS archived_items,
			(SELECT COUNT(*) FROM order_status_log) AS status_changes
	`
	if err := db.GetContext(ctx, &result, query); err != nil {
		logger.Fatal("failed to query summary", zap.Error(err))
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Archived orders:         %d\n", result.ArchivedOrders)
	fmt.Printf("Archived order lines:    %d\n", result.ArchivedItems)
	fmt.Printf("Status changes logged:   %d\n", result.StatusChanges)
	fmt.Println("============================================================")
}
