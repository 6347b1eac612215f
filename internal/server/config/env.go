package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from environment variables onto
// the provided Config. An optional .env file in the working directory is
// loaded first; a missing file is not an error.
//
// DATABASE_DSN that is set but empty selects the in-memory stores, so
// lookups distinguish "unset" from "set to empty".
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("CODE_VALIDITY_DURATION"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.CodeValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("SESSION_VALIDITY_DURATION"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("SWEEP_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SweepInterval = d
		}
	}
	if v, ok := os.LookupEnv("RECONCILE_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.ReconcileInterval = d
		}
	}
	if v, ok := os.LookupEnv("S3_ROOT_USER"); ok {
		config.S3RootUser = v
	}
	if v, ok := os.LookupEnv("S3_ROOT_PASSWORD"); ok {
		config.S3RootPassword = v
	}
	if v, ok := os.LookupEnv("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}
