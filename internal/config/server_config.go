package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet/vault"
)

const (
	VaultStoreMemory   = "memory"
	VaultStoreFile     = "file"
	VaultStorePostgres = "postgres"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableLoggerMiddleware         bool
	EnableMetricsMiddleware        bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	PrettyPrintConsole bool
}

type Management struct {
	ReadinessTimeout time.Duration
}

// Vault selects where the encrypted vault lives and how expensive its key derivation is.
type Vault struct {
	Store   string
	File    string
	ScryptN int
	ScryptP int
}

func (v Vault) ScryptParams() vault.ScryptParams {
	return vault.ScryptParams{N: v.ScryptN, P: v.ScryptP}
}

type Network struct {
	RPCURLs        []string
	RequestTimeout time.Duration
}

type Server struct {
	Database   Database
	Echo       EchoServer
	Logger     LoggerServer
	Management Management
	Vault      Vault
	Network    Network
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in your project root can override the currently set ENV variables.
	// We never automatically apply `.env.local` when running "go test" as these ENV variables
	// may be sensitive (e.g. secrets to external APIs) and applying them modifies the process
	// global "os.Env" state.
	if !util.RunningInTest() {
		DotEnvTryLoad(util.GetProjectRootDir()+"/.env.local", os.Setenv)
	}

	defaultScrypt := vault.DefaultScryptParams()

	return Server{
		Database: Database{
			Host:     util.GetEnv("PGHOST", "postgres"),
			Port:     util.GetEnvAsInt("PGPORT", 5432),
			Database: util.GetEnv("PGDATABASE", "keyring"),
			Username: util.GetEnv("PGUSER", "dbuser"),
			Password: util.GetEnv("PGPASSWORD", ""),
			AdditionalParams: map[string]string{
				"sslmode": util.GetEnv("PGSSLMODE", "disable"),
			},
			MaxOpenConns:    util.GetEnvAsInt("DB_MAX_OPEN_CONNS", 4),
			MaxIdleConns:    util.GetEnvAsInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetime: time.Second * time.Duration(util.GetEnvAsInt("DB_CONN_MAX_LIFETIME_SEC", 60)),
		},
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableMetricsMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_METRICS_MIDDLEWARE", true),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.InfoLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Management: Management{
			ReadinessTimeout: time.Second * time.Duration(util.GetEnvAsInt("SERVER_MANAGEMENT_READINESS_TIMEOUT_SEC", 4)),
		},
		Vault: Vault{
			Store:   util.GetEnv("KEYRING_VAULT_STORE", VaultStoreFile),
			File:    util.GetEnv("KEYRING_VAULT_FILE", "/app/data/vault.json"),
			ScryptN: util.GetEnvAsInt("KEYRING_SCRYPT_N", defaultScrypt.N),
			ScryptP: util.GetEnvAsInt("KEYRING_SCRYPT_P", defaultScrypt.P),
		},
		Network: Network{
			RPCURLs:        util.GetEnvAsStringArr("KEYRING_RPC_URLS", []string{}),
			RequestTimeout: time.Second * time.Duration(util.GetEnvAsInt("KEYRING_RPC_TIMEOUT_SEC", 10)),
		},
	}
}
