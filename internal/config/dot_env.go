package config

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

// DotEnvTryLoad forcefully overrides ENV variables through **a maybe available** .env file.
//
// This function should never be used within test code, it's only meant for local development
// and the CLI. setEnvFn is used to apply each key, so tests can pass t.Setenv.
func DotEnvTryLoad(absolutePathToEnvFile string, setEnvFn func(k string, v string) error) {
	err := DotEnvLoad(absolutePathToEnvFile, setEnvFn)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Str("envFile", absolutePathToEnvFile).Msg(".env parse error!")
			return
		}
	}
}

// DotEnvLoad forcefully overrides ENV variables through the supplied .env file.
func DotEnvLoad(absolutePathToEnvFile string, setEnvFn func(k string, v string) error) error {
	file, err := os.Open(absolutePathToEnvFile)
	if err != nil {
		return err
	}
	defer file.Close()

	envs, err := gotenv.StrictParse(file)
	if err != nil {
		return err
	}

	for key, value := range envs {
		if err := setEnvFn(key, value); err != nil {
			return err
		}
	}

	log.Warn().Str("envFile", absolutePathToEnvFile).Int("envCount", len(envs)).Msg(".env overrides ENV variables!")

	return nil
}
