package auth

import "time"

// Config holds the Supabase project settings used to verify access tokens.
type Config struct {
	JWTSecret string        `env:"SUPABASE_JWT_SECRET,required"`
	Audience  string        `env:"SUPABASE_JWT_AUDIENCE" envDefault:"authenticated"`
	Issuer    string        `env:"SUPABASE_JWT_ISSUER"` // empty skips the issuer check
	Leeway    time.Duration `env:"SUPABASE_JWT_LEEWAY" envDefault:"30s"`
}
