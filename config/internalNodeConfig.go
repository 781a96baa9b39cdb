package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env"
)

func loadDefault(defaultValues string, cfg interface{}) error {
	if _, err := toml.Decode(defaultValues, cfg); err != nil {
		return err
	}
	return nil
}

func loadFile(path string, cfg interface{}) error {
	bs, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	if _, err := toml.Decode(string(bs), cfg); err != nil {
		return err
	}
	return nil
}

func loadEnv(cfg interface{}) error {
	if err := env.Parse(cfg); err != nil {
		return err
	}
	return nil
}

// LoadConfig loads the configuration in three layers: the default TOML
// values, the TOML file at filePath (if any) and the environment variables
// declared with `env` tags, each one overriding the previous
func LoadConfig(filePath string, defaultValues string, cfg interface{}) error {
	if err := loadDefault(defaultValues, cfg); err != nil {
		return fmt.Errorf("error loading default configuration: %w", err)
	}
	var errLoadFile error
	if filePath != "" {
		errLoadFile = loadFile(filePath, cfg)
	}
	// Overwrite file configuration with the env configuration
	errLoadEnv := loadEnv(cfg)
	if errLoadFile != nil {
		return fmt.Errorf("error loading configuration file: %w", errLoadFile)
	}
	if errLoadEnv != nil {
		return fmt.Errorf("error loading environment variables: %w", errLoadEnv)
	}
	return nil
}
