package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev" // Default to dev
	}

	// Mirror the prefix rules in internal/config
	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		switch env {
		case "prod":
			prefix = "prod_"
		case "test":
			prefix = "test_"
		default:
			prefix = "dev_"
		}
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Drop all tables with environment-specific prefix
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %sresource_links CASCADE;
		DROP TABLE IF EXISTS %sfiles CASCADE;
		DROP TABLE IF EXISTS %sfolders CASCADE;
		DROP TABLE IF EXISTS %suser_departments CASCADE;
		DROP TABLE IF EXISTS %susers CASCADE;
		DROP TABLE IF EXISTS %sdivisions CASCADE;
		DROP TABLE IF EXISTS %sdepartments CASCADE;
		DROP TABLE IF EXISTS %scompanies CASCADE;
	`, prefix, prefix, prefix, prefix, prefix, prefix, prefix, prefix)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
}
