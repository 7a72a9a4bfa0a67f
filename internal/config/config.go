// Package config resolves command defaults from the environment. A .env file
// in the working directory is loaded first; variables already set win.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultSchema = "examples/fixtures/onboarding.json"

// Load reads .env from the current directory when present.
func Load() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// SchemaPath returns FORMFLOW_SCHEMA or the bundled onboarding fixture.
func SchemaPath() string {
	if v := os.Getenv("FORMFLOW_SCHEMA"); v != "" {
		return v
	}
	return defaultSchema
}

// Renderer returns FORMFLOW_RENDERER, defaulting to tui.
func Renderer() string {
	if v := os.Getenv("FORMFLOW_RENDERER"); v != "" {
		return v
	}
	return "tui"
}

// Format returns FORMFLOW_FORMAT, defaulting to json.
func Format() string {
	if v := os.Getenv("FORMFLOW_FORMAT"); v != "" {
		return v
	}
	return "json"
}

// Verbose reports whether FORMFLOW_VERBOSE is set to a true value.
func Verbose() bool {
	v, err := strconv.ParseBool(os.Getenv("FORMFLOW_VERBOSE"))
	return err == nil && v
}
