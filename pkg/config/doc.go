// Package config loads typed configuration from environment variables and
// optional .env files.
//
// It wraps github.com/joho/godotenv for reading env files and
// github.com/caarlos0/env/v11 for parsing struct tags:
//
//	type Config struct {
//		DatabaseURL string        `env:"PG_CONN_URL,required"`
//		Timeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
//	}
//
//	cfg := config.MustLoad[Config]()
//
// Nested structs are parsed with the same environment, which lets each
// package own its own Config type while the process composes them.
package config
