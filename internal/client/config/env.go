package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays cfg with values from environment variables declared in
// the struct tags. Unset variables leave the current values untouched.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
