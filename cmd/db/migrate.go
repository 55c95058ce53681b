package db

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/config"
	"github/chapool/go-keyring/internal/util/command"
	"github/chapool/go-keyring/internal/util/db"
)

func newMigrate() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Executes all migrations which are not yet applied",
		Long: `Creates the vault table used by the postgres vault store.
The store is selected regardless of KEYRING_VAULT_STORE.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := command.ConfigFromFlags(v)
			cfg.Vault.Store = config.VaultStorePostgres

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				if s.DB == nil {
					return errors.New("no database configured")
				}

				n, err := db.Migrate(ctx, s.DB)
				if err != nil {
					return err
				}

				log.Info().Int("applied", n).Msg("Database migrated")

				return nil
			})
		},
	}

	if err := command.AddConfigFlags(cmd, v); err != nil {
		log.Panic().Err(err).Msg("Failed to register db flags")
	}

	return cmd
}
