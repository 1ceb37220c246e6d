package main

import (
	"log"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

// Applies db/migrations to the database at DB_ADDR. Pass "down" to roll
// the last migration back.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// the pgx/v5 migrate driver registers the pgx5:// scheme
	addr := strings.Replace(os.Getenv("DB_ADDR"), "postgres://", "pgx5://", 1)

	m, err := migrate.New("file://db/migrations", addr)
	if err != nil {
		log.Fatalf("migrate init: %v", err)
	}
	defer m.Close()

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	default:
		log.Fatalf("unknown direction %q", direction)
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("migrate %s: %v", direction, err)
	}

	log.Println("migrations applied")
}
