package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads a .env file into the process environment. A missing
// file is not an error; variables already set are not overwritten.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// OverlayEnv applies JOBTRACKER_* variables on top of cfg.
//
//   - JOBTRACKER_DATA_DIR
//   - JOBTRACKER_UI_PORT
//   - JOBTRACKER_API_URL
//   - JOBTRACKER_API_TOKEN
//   - JOBTRACKER_API_TIMEOUT (seconds)
//   - JOBTRACKER_BACKEND_PORT
//   - JOBTRACKER_BACKEND_DB
//   - JOBTRACKER_LOG_LEVEL
//   - JOBTRACKER_LOG_FORMAT
func OverlayEnv(cfg *Config) error {
	var errs []string

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a number", key, v))
			return
		}
		*dst = n
	}

	str("JOBTRACKER_DATA_DIR", &cfg.App.DataDir)
	num("JOBTRACKER_UI_PORT", &cfg.App.UIPort)
	str("JOBTRACKER_API_URL", &cfg.API.BaseURL)
	str("JOBTRACKER_API_TOKEN", &cfg.API.Token)
	num("JOBTRACKER_API_TIMEOUT", &cfg.API.TimeoutSeconds)
	num("JOBTRACKER_BACKEND_PORT", &cfg.Backend.Port)
	str("JOBTRACKER_BACKEND_DB", &cfg.Backend.DBFile)
	str("JOBTRACKER_LOG_LEVEL", &cfg.Log.Level)
	str("JOBTRACKER_LOG_FORMAT", &cfg.Log.Format)

	if len(errs) > 0 {
		return errors.New("env overlay failed:\n- " + joinLines(errs))
	}
	return nil
}
