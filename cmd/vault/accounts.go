package vault

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/util/command"
)

func newAccounts() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Unlocks the vault and lists its accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithServer(cmd.Context(), command.ConfigFromFlags(v), func(ctx context.Context, s *api.Server) error {
				password, err := command.PromptPassword("Enter vault password: ")
				if err != nil {
					return err
				}

				state, err := s.Keyring.SubmitPassword(ctx, password)
				if err != nil {
					return err
				}

				printAccounts(state.Keyrings)

				return nil
			})
		},
	}

	if err := command.AddConfigFlags(cmd, v); err != nil {
		log.Panic().Err(err).Msg("Failed to register vault flags")
	}

	return cmd
}
