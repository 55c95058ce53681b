package vault

import (
	"github.com/spf13/cobra"
	"github/chapool/go-keyring/internal/util/command"
)

const (
	forceFlag = "force"
)

func New() *cobra.Command {
	cmd := command.NewSubcommandGroup("vault",
		newCreate(),
		newRestore(),
		newAccounts(),
	)
	cmd.Short = "Create, restore and inspect the encrypted vault"

	return cmd
}
