package main

import (
	"fmt"
	"os"

	"github.com/vrisa/alertengine/internal/config"
	"github.com/vrisa/alertengine/internal/repository/postgres"
	"github.com/vrisa/alertengine/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database\n", cfg.Database.Driver)

	migrationsFS, err := migrations.GetFS(cfg.Database.Driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load migrations: %v\n", err)
		os.Exit(1)
	}

	applied, err := postgres.RunMigrations(db, postgres.Dialect(cfg.Database.Driver), migrationsFS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed after %d file(s): %v\n", applied, err)
		os.Exit(1)
	}

	if applied == 0 {
		fmt.Println("Database is up to date")
		return
	}
	fmt.Printf("Applied %d migration(s)\n", applied)
}
