package vault

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/util/command"
)

func newRestore() *cobra.Command {
	var force bool
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replaces the vault with one restored from a seed phrase",
		Long: `Prompts for a BIP-39 seed phrase and a new password and stores a vault
holding the first account derived from the seed phrase.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithServer(cmd.Context(), command.ConfigFromFlags(v), func(ctx context.Context, s *api.Server) error {
				if err := ensureReplaceable(ctx, s, force); err != nil {
					return err
				}

				mnemonic, err := command.PromptPassword("Enter seed phrase: ")
				if err != nil {
					return err
				}

				password, err := command.PromptNewPassword()
				if err != nil {
					return err
				}

				state, err := s.Keyring.CreateNewVaultAndRestore(ctx, password, mnemonic)
				if err != nil {
					return err
				}

				printAccounts(state.Keyrings)

				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, forceFlag, "f", false, "Replace an existing vault")
	if err := command.AddConfigFlags(cmd, v); err != nil {
		log.Panic().Err(err).Msg("Failed to register vault flags")
	}

	return cmd
}
