package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"gym-app-go/pkg/logger"
)

const migrationsDirName = "migrations"

// Migrate brings the gym schema up to date: gorm creates or extends the model
// tables, then every SQL file in the nearest migrations/ directory that is not
// yet recorded in schema_migrations runs in its own transaction.
func Migrate(db *gorm.DB, log logger.Logger) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}

	dir, err := findMigrationsDir(migrationsDirName)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("db: no migrations directory found")
		return nil
	}
	if err != nil {
		return err
	}

	if err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL
	)`).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	pending, err := pendingMigrations(db, dir)
	if err != nil {
		return err
	}
	for _, name := range pending {
		if err := applyMigration(db, dir, name); err != nil {
			return err
		}
		log.Info("db: migration applied", "file", name)
	}
	return nil
}

// AutoMigrate creates or extends every table of the application schema.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func pendingMigrations(db *gorm.DB, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var applied []string
	if err := db.Raw("SELECT filename FROM schema_migrations").Scan(&applied).Error; err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") || done[name] {
			continue
		}
		pending = append(pending, name)
	}
	sort.Strings(pending)
	return pending, nil
}

func applyMigration(db *gorm.DB, dir, name string) error {
	contents, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if sql := strings.TrimSpace(string(contents)); sql != "" {
			if err := tx.Exec(sql).Error; err != nil {
				return fmt.Errorf("apply migration %s: %w", name, err)
			}
		}
		return tx.Exec(
			"INSERT INTO schema_migrations (filename, applied_at) VALUES (?, ?)",
			name, time.Now().UTC(),
		).Error
	})
}

func findMigrationsDir(dirName string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, dirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
