package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List migrations and whether they are applied")
	dir := flag.String("dir", "migrations", "Directory holding the .sql migrations")
	flag.Parse()

	log := logger.New(logger.Config{Level: "info", Format: "console", Development: true})
	defer func() { _ = log.Sync() }()

	dsn, err := databaseURL()
	if err != nil {
		log.Fatal("no database to migrate", zap.Error(err))
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := ensureMigrationsTable(db); err != nil {
		log.Fatal("failed to prepare migrations table", zap.Error(err))
	}

	switch {
	case *status:
		err = printStatus(db, *dir)
	case *rollback:
		err = rollbackLast(db, *dir, log)
	default:
		err = applyPending(db, *dir, log)
	}
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}

// databaseURL prefers DATABASE_URL and falls back to the application config
func databaseURL() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Database.Driver != "postgres" {
		return "", fmt.Errorf("database driver %q does not use SQL migrations", cfg.Database.Driver)
	}
	return cfg.Database.DSN(), nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func applied(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)", name).Scan(&exists)
	return exists, err
}

func applyPending(db *sql.DB, dir string, log *zap.Logger) error {
	files, err := database.MigrationFiles(dir)
	if err != nil {
		return err
	}

	count := 0
	for _, name := range files {
		done, err := applied(db, name)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if done {
			log.Debug("migration already applied", zap.String("name", name))
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		err = inTx(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", name, err)
			}
			_, err := tx.Exec("INSERT INTO migrations (name) VALUES ($1)", name)
			return err
		})
		if err != nil {
			return err
		}

		log.Info("applied migration", zap.String("name", name))
		count++
	}

	log.Info("migrations complete", zap.Int("applied", count))
	return nil
}

func rollbackLast(db *sql.DB, dir string, log *zap.Logger) error {
	var name string
	err := db.QueryRow("SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to rollback")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	rollbackFile := strings.TrimSuffix(name, ".sql") + database.RollbackSuffix
	content, err := os.ReadFile(filepath.Join(dir, rollbackFile))
	if err != nil {
		return fmt.Errorf("failed to read rollback file: %w", err)
	}

	err = inTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		_, err := tx.Exec("DELETE FROM migrations WHERE name = $1", name)
		return err
	})
	if err != nil {
		return err
	}

	log.Info("rolled back migration", zap.String("name", name))
	return nil
}

func printStatus(db *sql.DB, dir string) error {
	files, err := database.MigrationFiles(dir)
	if err != nil {
		return err
	}
	for _, name := range files {
		done, err := applied(db, name)
		if err != nil {
			return err
		}
		state := "pending"
		if done {
			state = "applied"
		}
		fmt.Printf("%-8s %s\n", state, name)
	}
	return nil
}

func inTx(db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
