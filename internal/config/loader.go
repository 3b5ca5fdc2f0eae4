package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file into out based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string, out any) error {
	if path == "" {
		return fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, out); err != nil {
			return err
		}
	case ".json":
		if err := json.Unmarshal(b, out); err != nil {
			return err
		}
	case ".toml":
		if err := toml.Unmarshal(b, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
	return nil
}

// ValidationError reports configuration settings that are missing or still
// hold placeholder values. Detected eagerly, before any remote call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "please configure the following: " + strings.Join(e.Missing, ", ")
}

// IsValidationError reports whether err is a configuration validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
