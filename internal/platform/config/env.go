// Package config loads command configuration from the environment.
package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every studyforge environment variable.
const EnvPrefix = "STUDYFORGE_"

// ParseEnv loads configuration from environment variables.
//
// Struct tags name variables without the shared prefix, so a field tagged
// `env:"DB_PATH"` reads STUDYFORGE_DB_PATH.
func ParseEnv(target any) error {
	opts := env.Options{
		Prefix: EnvPrefix,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): parseDuration,
		},
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func parseDuration(value string) (any, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	if d < 0 {
		return nil, fmt.Errorf("duration %q must not be negative", value)
	}
	return d, nil
}
