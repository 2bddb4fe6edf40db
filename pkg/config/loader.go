package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option adjusts how Load resolves variables.
type Option func(*loadOptions)

type loadOptions struct {
	files   []string
	prefix  string
	environ map[string]string
}

// WithEnvFiles replaces the default ".env" lookup. Later files override
// earlier ones; missing files are skipped.
func WithEnvFiles(files ...string) Option {
	return func(o *loadOptions) { o.files = files }
}

// WithPrefix requires every variable name to carry prefix.
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithEnviron parses from vars instead of the process environment.
func WithEnviron(vars map[string]string) Option {
	return func(o *loadOptions) { o.environ = vars }
}

// Load parses T from the process environment layered over the env files.
// Process variables always win over file values, and the process environment
// itself is never modified.
//
//	type StripeConfig struct {
//		SecretKey string `env:"STRIPE_SECRET_KEY,required"`
//	}
//
//	cfg, err := config.Load[StripeConfig]()
func Load[T any](opts ...Option) (T, error) {
	o := loadOptions{files: []string{".env"}}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T

	fromFiles, err := readEnvFiles(o.files)
	if err != nil {
		return zero, errors.Join(ErrReadingEnvFile, err)
	}

	environ := o.environ
	if environ == nil {
		environ = processEnviron()
	}

	merged := make(map[string]string, len(fromFiles)+len(environ))
	maps.Copy(merged, fromFiles)
	maps.Copy(merged, environ)

	cfg, err := env.ParseAsWithOptions[T](env.Options{
		Environment: merged,
		Prefix:      o.prefix,
	})
	if err != nil {
		return zero, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](opts ...Option) T {
	cfg, err := Load[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func readEnvFiles(files []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, file := range files {
		vars, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		maps.Copy(out, vars)
	}
	return out, nil
}

func processEnviron() map[string]string {
	vars := os.Environ()
	out := make(map[string]string, len(vars))
	for _, kv := range vars {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
