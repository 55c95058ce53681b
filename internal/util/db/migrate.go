package db

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/migrations"
)

// MigrationSource returns the embedded migrations.
func MigrationSource() migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       ".",
	}
}

// Migrate applies all pending up migrations and returns how many were applied.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	n, err := migrate.Exec(db, "postgres", MigrationSource(), migrate.Up)
	if err != nil {
		return 0, errors.Wrap(err, "failed to apply migrations")
	}

	util.LogFromContext(ctx).Info().Int("applied", n).Msg("Applied migrations")

	return n, nil
}
