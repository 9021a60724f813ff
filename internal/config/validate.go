package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.DevLoginEnabled && c.Auth.DevLoginPassword == "" {
		return fmt.Errorf("auth.dev_login_password is required when dev login is enabled")
	}

	if err := validateBaseURL("llm.base_url", c.LLM.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("transcription.base_url", c.Transcription.BaseURL); err != nil {
		return err
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2] (got %v)", c.LLM.Temperature)
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be > 0 (got %d)", c.Server.MaxUploadBytes)
	}

	if c.Storage.UploadDir == "" {
		return fmt.Errorf("storage.upload_dir must not be empty")
	}

	return nil
}

func validateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host", name)
	}
	return nil
}
