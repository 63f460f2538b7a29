package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"shipnotify/internal/types"
)

// Load resolves the configuration:
//
//  1. Load a .env file if one exists (non-fatal when absent).
//  2. Process envconfig struct tags against the environment.
//  3. Validate the populated struct.
//
// Carrier credentials are validated here rather than by struct tags
// because they are required only when the live carrier is in use.
func Load() (*Config, error) {
	// Silently succeeds when no .env file exists; OS environment always
	// takes precedence over file values.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid,
			"failed to process environment configuration", err)
	}

	v := validator.New()
	if err := v.Struct(&cfg); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid,
			"configuration failed validation", err)
	}

	if !cfg.Carrier.Stub {
		if cfg.Carrier.AccessLicense.Unmask() == "" || cfg.Carrier.UserID == "" || cfg.Carrier.Password.Unmask() == "" {
			return nil, types.NewAppError(types.ErrCodeConfigInvalid,
				"carrier credentials are required unless CARRIER_STUB is set", nil)
		}
	}
	if cfg.Mail.Provider == "smtp" && cfg.Mail.SMTP.Username == "" {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid,
			"SMTP_USERNAME is required for the smtp provider", nil)
	}

	return &cfg, nil
}

// MustLoad is Load with fail-fast semantics for the entrypoint.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}
