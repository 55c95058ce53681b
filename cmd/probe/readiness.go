package probe

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-keyring/internal/util/command"
)

func newReadiness() *cobra.Command {
	var verbose bool
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long: `Asks the running server on its listen address whether it is ready.
Exits with a non-zero code if the server is not ready.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := command.ConfigFromFlags(v)
			if verbose {
				command.SetupLogger(cfg.Logger)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return runReadiness(ctx, readyURL(cfg.Echo.ListenAddress), cfg.Management.ReadinessTimeout)
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Show verbose output.")
	if err := command.AddConfigFlags(cmd, v); err != nil {
		log.Panic().Err(err).Msg("Failed to register probe flags")
	}

	return cmd
}

// readyURL turns a listen address such as ":8080" into the local readiness URL.
func readyURL(listenAddress string) string {
	host := listenAddress
	if strings.HasPrefix(host, ":") {
		host = "127.0.0.1" + host
	}

	return "http://" + host + "/-/ready"
}

func runReadiness(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build readiness request")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "readiness probe failed to reach server")
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	if res.StatusCode != http.StatusOK {
		return errors.Errorf("server is not ready: %d %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	log.Debug().Str("url", url).Msg("Readiness probe succeeded")

	return nil
}
