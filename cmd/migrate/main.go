// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func main() {
	var dbDSN = flag.String("db-dsn", firstNonEmpty(os.Getenv("CAMPAIGND_DB_DSN"), os.Getenv("DB_PATH")), "Database DSN")
	var migrationsPath = flag.String("migrations-path", "file://migrations", "Path to migrations directory")
	flag.Parse()

	if *dbDSN == "" {
		log.Fatal("CAMPAIGND_DB_DSN environment variable or -db-dsn flag is required")
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]

	db, err := sql.Open("postgres", *dbDSN)
	if err != nil {
		log.Fatal("cannot connect to database:", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("cannot create database driver:", err)
	}

	m, err := migrate.NewWithDatabaseInstance(*migrationsPath, "postgres", driver)
	if err != nil {
		log.Fatal("cannot create migrator:", err)
	}

	switch command {
	case "up":
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("migration up failed:", err)
		}
		fmt.Println("campaignd migrations applied successfully")
	case "down":
		steps := 1
		if len(args) > 1 {
			_, _ = fmt.Sscanf(args[1], "%d", &steps)
		}
		err = m.Steps(-steps)
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("migration down failed:", err)
		}
		fmt.Printf("campaignd migrations rolled back %d steps\n", steps)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("cannot get version:", err)
		}
		fmt.Printf("version: %d, dirty: %t\n", version, dirty)
	case "drop":
		err = m.Drop()
		if err != nil {
			log.Fatal("drop failed:", err)
		}
		fmt.Println("all campaignd migrations dropped")
	default:
		printUsage()
		os.Exit(1)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func printUsage() {
	fmt.Println("Usage: migrate [options] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up           Apply all migrations")
	fmt.Println("  down [n]     Rollback n migrations (default: 1)")
	fmt.Println("  version      Show current migration version")
	fmt.Println("  drop         Drop all migrations (DANGER)")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -db-dsn string          Database DSN (or CAMPAIGND_DB_DSN / DB_PATH env var)")
	fmt.Println("  -migrations-path string Path to migrations (default: file://migrations)")
}
