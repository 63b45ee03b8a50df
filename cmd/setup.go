package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/shared"
)

// Setup writes the example config when none exists, then initializes the database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if err := r.loadConfig(r.configPath); err != nil {
			return err
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	_, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

// DBStatus prints the applied migration version and the tables it created.
func (r *Runner) DBStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	version, ok, err := shared.CurrentMigration(db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	tables, err := shared.TableNames(db)
	if err != nil {
		return err
	}

	r.writePlainHeader("Database")
	r.writePlain("Path:      %s\n", r.config.Database.Path)
	if ok {
		r.writePlain("Migration: %04d\n", version)
	} else {
		r.writePlain("Migration: none applied\n")
	}
	return r.writePlain("Tables:    %s\n", strings.Join(tables, ", "))
}

// DBRollback reverts the most recent migration.
func (r *Runner) DBRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	version, ok, err := shared.CurrentMigration(db)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("nothing to roll back\n")
	}
	if err := shared.RollbackMigration(db); err != nil {
		return err
	}
	r.logger.Info("rolled back migration", "version", version)
	return r.writePlain("rolled back migration %04d\n", version)
}
