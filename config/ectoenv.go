package config

import "github.com/Gobusters/ectoenv"

// load delegates to ectoenv, the env-tag parser used throughout the
// teacher's services (ivy/config, orchid/config, lotus/config) for this
// exact "env" / "env-default" struct tag convention.
func load(cfg *Config) error {
	return ectoenv.Parse(cfg)
}
