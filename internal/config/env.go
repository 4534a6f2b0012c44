package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment variable gctool reads.
const EnvPrefix = "gctool"

// Env holds runtime settings taken from the environment (GCTOOL_*).
// Command-line flags override them.
type Env struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	Book      string `envconfig:"BOOK"`
	Config    string `envconfig:"CONFIG" default:"gctool.yaml"`
	GitAuthor string `envconfig:"GIT_AUTHOR"` // "Name <email>"
}

// LoadEnv reads Env from the process environment. A .env file in the
// current directory is loaded first if present; pass envPath to require a
// specific one. Variables already set are not overridden.
func LoadEnv(envPath ...string) (*Env, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &env, nil
}
