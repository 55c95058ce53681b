package vault

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/util/command"
	"github/chapool/go-keyring/internal/wallet"
)

var ErrVaultExists = errors.New("a vault already exists, pass --force to replace it")

func newCreate() *cobra.Command {
	var force bool
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Creates a new vault with a freshly generated seed phrase",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithServer(cmd.Context(), command.ConfigFromFlags(v), func(ctx context.Context, s *api.Server) error {
				if err := ensureReplaceable(ctx, s, force); err != nil {
					return err
				}

				password, err := command.PromptNewPassword()
				if err != nil {
					return err
				}

				state, err := s.Keyring.CreateNewVaultAndKeychain(ctx, password)
				if err != nil {
					return err
				}

				if err := command.PrintSeedPhrase(os.Stdout, s.Keyring); err != nil {
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

func ensureReplaceable(ctx context.Context, s *api.Server, force bool) error {
	exists, err := s.Keyring.HasVault(ctx)
	if err != nil {
		return err
	}

	if exists && !force {
		return ErrVaultExists
	}

	return nil
}

//nolint:forbidigo // command output
func printAccounts(keyrings []wallet.DisplayRecord) {
	for _, kr := range keyrings {
		for _, account := range kr.Accounts {
			fmt.Println(account)
		}
	}
}
