package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Bootstrap environment variables. These are read straight from the process
// environment and are never overridden by the secret store.
const (
	EnvSecretName = "SECRET_NAME"
	EnvRegion     = "REGION"
	EnvEndpoint   = "AWS_ENDPOINT"
)

// Bootstrap holds the values needed before the secret store can be reached.
type Bootstrap struct {
	SecretName string
	Region     string
	Endpoint   string
}

// LoadBootstrap reads the bootstrap values from the process environment.
func LoadBootstrap() Bootstrap {
	v := viper.New()
	_ = v.BindEnv("secret_name", EnvSecretName)
	_ = v.BindEnv("region", EnvRegion)
	_ = v.BindEnv("endpoint", EnvEndpoint)

	return Bootstrap{
		SecretName: v.GetString("secret_name"),
		Region:     v.GetString("region"),
		Endpoint:   v.GetString("endpoint"),
	}
}

// FromEnvironment builds a Config from process environment variables, one
// variable per key. Unset variables leave the key absent.
func FromEnvironment() *Config {
	v := viper.New()
	for _, k := range Keys() {
		_ = v.BindEnv(string(k), k.EnvName())
	}

	cfg := &Config{Source: SourceEnvironment}
	for _, k := range Keys() {
		cfg.set(k, v.GetString(string(k)))
	}
	return cfg
}

// LoadDotEnv loads variables from a dotenv file, overriding values already
// present in the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Overload(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
