package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"social_analytics/migrations"
)

var commands = map[string]func(*sql.DB, string, ...goose.OptionsFunc) error{
	"up":      goose.Up,
	"down":    goose.Down,
	"status":  goose.Status,
	"version": goose.Version,
	"reset":   goose.Reset,
}

func main() {
	dbPath := flag.String("db", envOrDefault("DATABASE_PATH", "./data/analytics.db"), "path to sqlite database")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	run, ok := commands[flag.Arg(0)]
	if !ok {
		log.Fatalf("unknown command: %s", flag.Arg(0))
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatalf("set dialect: %v", err)
	}

	if err := run(db, "."); err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: migrate [-db path] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  up        Migrate to the latest version")
	fmt.Fprintln(os.Stderr, "  down      Roll back one version")
	fmt.Fprintln(os.Stderr, "  status    Show migration status")
	fmt.Fprintln(os.Stderr, "  version   Show current version")
	fmt.Fprintln(os.Stderr, "  reset     Roll back all migrations")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
