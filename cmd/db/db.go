package db

import (
	"github.com/spf13/cobra"
	"github/chapool/go-keyring/internal/util/command"
)

// New groups commands operating on the postgres vault store.
func New() *cobra.Command {
	cmd := command.NewSubcommandGroup("db",
		newMigrate(),
	)
	cmd.Short = "Postgres vault store subcommands"

	return cmd
}
