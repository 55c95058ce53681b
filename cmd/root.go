package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-keyring/cmd/db"
	"github/chapool/go-keyring/cmd/probe"
	"github/chapool/go-keyring/cmd/server"
	"github/chapool/go-keyring/cmd/vault"
	"github/chapool/go-keyring/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "keyring",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

A keyring service holding Ethereum accounts in one encrypted vault and signing
transactions, messages and typed data with them.
Requires configuration through ENV.`, config.ModuleName),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		db.New(),
		probe.New(),
		server.New(),
		vault.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
