package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/router"
	"github/chapool/go-keyring/internal/config"
	"github/chapool/go-keyring/internal/util/command"
	"github/chapool/go-keyring/internal/util/db"
)

const (
	migrateFlag     = "migrate"
	unlockFlag      = "unlock"
	shutdownTimeout = 10 * time.Second
)

type Flags struct {
	Migrate bool
	Unlock  bool
}

func New() *cobra.Command {
	var flags Flags
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the HTTP API of the keyring.

The keyring starts locked. Unlock it through the API or pass --unlock
to enter the vault password on the terminal before serving.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), command.ConfigFromFlags(v), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Migrate, migrateFlag, "m", false, "Apply database migrations before starting the server (postgres vault store)")
	cmd.Flags().BoolVarP(&flags.Unlock, unlockFlag, "u", false, "Prompt for the vault password and unlock it before starting the server")

	if err := command.AddConfigFlags(cmd, v); err != nil {
		log.Panic().Err(err).Msg("Failed to register server flags")
	}

	return cmd
}

func runServer(ctx context.Context, cfg config.Server, flags Flags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	command.SetupLogger(cfg.Logger)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		return err
	}

	if flags.Migrate {
		if s.DB == nil {
			log.Warn().Msg("Ignoring --migrate, the vault store does not use a database")
		} else if _, err := db.Migrate(ctx, s.DB); err != nil {
			return err
		}
	}

	if flags.Unlock {
		if err := unlockKeyring(ctx, s); err != nil {
			return err
		}
	}

	if err := router.Init(s); err != nil {
		return err
	}

	go func() {
		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	log.Info().Str("address", cfg.Echo.ListenAddress).Str("vaultStore", cfg.Vault.Store).Msg("Keyring server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
