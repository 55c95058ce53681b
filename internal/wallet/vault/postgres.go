package vault

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/util"
)

// vaultRecordID is the fixed primary key of the single vault row.
const vaultRecordID = "00000000-0000-0000-0000-000000000001"

// PostgresStore keeps the vault as the single row of the vault table
// (see migrations/). Save is one upsert statement, so it is atomic.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) (string, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT vault_data
		FROM vault
		WHERE id = $1
	`, vaultRecordID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoVault
		}
		return "", errors.Wrap(err, "failed to get vault")
	}

	return data, nil
}

func (s *PostgresStore) Save(ctx context.Context, vault string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vault (id, vault_data, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET vault_data = EXCLUDED.vault_data, updated_at = NOW()
	`, vaultRecordID, vault)
	if err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to save vault")
		return errors.Wrap(err, "failed to save vault")
	}

	return nil
}
