// Command dbcheck verifies the database configured in the environment (or
// .env) is reachable and reports its schema version and table sizes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"atelier/internal/config"
	"atelier/internal/database"

	"github.com/jackc/pgx/v5"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	connString := cfg.Database.ConnectionString()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	version, dirty, err := database.SchemaVersion(connString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read schema version: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Schema version: %d (dirty: %t)\n", version, dirty)
	if version == 0 {
		fmt.Println("No migrations applied; start the API with MIGRATE_ON_START=true")
		return
	}

	fmt.Println("\nTables:")
	for _, table := range []string{"users", "orders", "order_items"} {
		var n int64
		if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			fmt.Fprintf(os.Stderr, "Count of %s failed: %v\n", table, err)
			os.Exit(1)
		}
		fmt.Printf("  - %-12s %d rows\n", table, n)
	}
}
