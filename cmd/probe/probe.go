package probe

import (
	"github.com/spf13/cobra"
	"github/chapool/go-keyring/internal/util/command"
)

const (
	verboseFlag string = "verbose"
)

// New groups the container probes. Both exit non-zero when the keyring server is unhealthy.
func New() *cobra.Command {
	cmd := command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
	cmd.Short = "Liveness and readiness probes for the keyring server"

	return cmd
}
