package command

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github/chapool/go-keyring/internal/config"
	"github/chapool/go-keyring/internal/util"
)

const (
	FlagListen     = "listen"
	FlagVaultStore = "vault-store"
	FlagVaultFile  = "vault-file"
	FlagRPCURL     = "rpc-url"
	FlagLogLevel   = "log-level"
)

// AddConfigFlags registers the config overriding flags on cmd and binds them to v.
func AddConfigFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	flags.String(FlagListen, "", "Listen address of the HTTP server, overrides SERVER_ECHO_LISTEN_ADDRESS")
	flags.String(FlagVaultStore, "", "Vault store (memory, file or postgres), overrides KEYRING_VAULT_STORE")
	flags.String(FlagVaultFile, "", "Path of the vault file, overrides KEYRING_VAULT_FILE")
	flags.StringSlice(FlagRPCURL, nil, "JSON-RPC node URL, may be repeated, overrides KEYRING_RPC_URLS")
	flags.String(FlagLogLevel, "", "Log level, overrides SERVER_LOGGER_LEVEL")

	for _, name := range []string{FlagListen, FlagVaultStore, FlagVaultFile, FlagRPCURL, FlagLogLevel} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", name)
		}
	}

	return nil
}

// ConfigFromFlags returns the config from the environment with every explicitly set
// flag bound to v applied on top.
func ConfigFromFlags(v *viper.Viper) config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	if v.IsSet(FlagListen) {
		cfg.Echo.ListenAddress = v.GetString(FlagListen)
	}
	if v.IsSet(FlagVaultStore) {
		cfg.Vault.Store = v.GetString(FlagVaultStore)
	}
	if v.IsSet(FlagVaultFile) {
		cfg.Vault.File = v.GetString(FlagVaultFile)
	}
	if v.IsSet(FlagRPCURL) {
		cfg.Network.RPCURLs = v.GetStringSlice(FlagRPCURL)
	}
	if v.IsSet(FlagLogLevel) {
		cfg.Logger.Level = util.LogLevelFromString(v.GetString(FlagLogLevel))
	}

	return cfg
}
