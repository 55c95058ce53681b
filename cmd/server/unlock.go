package server

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/util/command"
	"github/chapool/go-keyring/internal/wallet/vault"
)

// unlockKeyring prompts for the vault password until it is accepted. A missing vault
// is created from a new seed phrase instead.
func unlockKeyring(ctx context.Context, s *api.Server) error {
	log := log.With().Str("component", "keyring_unlock").Logger()

	const maxAttempts = 3

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		password, err := command.PromptPassword("Enter vault password: ")
		if err != nil {
			return err
		}

		state, err := s.Keyring.SubmitPassword(ctx, password)
		switch {
		case err == nil:
			log.Info().Int("keyrings", len(state.Keyrings)).Msg("Keyring unlocked")
			return nil
		case errors.Is(err, vault.ErrNoVault):
			log.Info().Msg("No vault found, creating a new one")
			return createVault(ctx, s)
		case errors.Is(err, vault.ErrIncorrectPassword):
			log.Warn().Int("attempt", attempt).Msg("Incorrect password")
		default:
			return err
		}
	}

	return errors.Wrap(vault.ErrIncorrectPassword, "too many attempts")
}

func createVault(ctx context.Context, s *api.Server) error {
	password, err := command.PromptNewPassword()
	if err != nil {
		return err
	}

	state, err := s.Keyring.CreateNewVaultAndKeychain(ctx, password)
	if err != nil {
		return errors.Wrap(err, "failed to create vault")
	}

	if err := command.PrintSeedPhrase(os.Stdout, s.Keyring); err != nil {
		return err
	}

	for _, kr := range state.Keyrings {
		for _, account := range kr.Accounts {
			log.Info().Str("account", account).Msg("Created account")
		}
	}

	return nil
}
