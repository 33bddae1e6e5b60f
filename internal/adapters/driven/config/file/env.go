package file

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override config keys.
const (
	EnvAPIURL          = "CONFADMIN_API_URL"
	EnvOIDCProviderURL = "CONFADMIN_OIDC_PROVIDER_URL"
	EnvOIDCClientID    = "CONFADMIN_OIDC_CLIENT_ID"
)

// EnvBindings maps each override variable to the config key it shadows.
var EnvBindings = map[string]string{
	EnvAPIURL:          "api.base_url",
	EnvOIDCProviderURL: "oidc.provider_url",
	EnvOIDCClientID:    "oidc.client_id",
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are skipped and variables already set are not overwritten.
// It returns the files that were loaded.
func LoadDotEnv(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, err
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}
