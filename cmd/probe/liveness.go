package probe

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/util/command"
)

func newLiveness() *cobra.Command {
	var verbose bool
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long: `Checks that the vault store and, for the postgres store, the database can be reached.
Exits with a non-zero code if a probe fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := command.ConfigFromFlags(v)
			if !verbose {
				cfg.Logger.Level = zerolog.WarnLevel
			}

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				return runLiveness(ctx, s)
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Show verbose output.")
	if err := command.AddConfigFlags(cmd, v); err != nil {
		log.Panic().Err(err).Msg("Failed to register probe flags")
	}

	return cmd
}

func runLiveness(ctx context.Context, s *api.Server) error {
	ctx, cancel := context.WithTimeout(ctx, s.Config.Management.ReadinessTimeout)
	defer cancel()

	start := time.Now()

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			return errors.Wrap(err, "liveness probe failed to ping database")
		}
	}

	exists, err := s.Keyring.HasVault(ctx)
	if err != nil {
		return errors.Wrap(err, "liveness probe failed to read vault store")
	}

	log.Info().Bool("vaultExists", exists).Dur("duration", time.Since(start)).Msg("Liveness probes succeeded")

	return nil
}
