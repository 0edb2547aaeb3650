package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source describes where a loaded configuration came from.
type Source string

const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
	SourceBuiltin  Source = "builtin"
)

// Loaded is the result of Load: a normalized configuration plus diagnostics.
type Loaded struct {
	Config   Config
	Source   Source
	Path     string
	Warnings []string
}

// Load loads the flappy configuration.
// Search order: customPath -> ~/.flappy/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
//
// Documents are decoded on top of Default(), so missing keys keep their
// defaults. A custom path that cannot be read or parsed returns an error
// together with a usable default configuration; callers may warn and go on.
func Load(customPath string) (Loaded, error) {
	if customPath != "" {
		cfg, err := decode(customPath)
		if err != nil {
			out := fromConfig(Default(), SourceBuiltin, "")
			return out, err
		}
		return fromConfig(cfg, SourceCustom, customPath), nil
	}

	if userCfgPath := userConfigPath("flappy.yaml"); userCfgPath != "" {
		if cfg, err := decode(userCfgPath); err == nil {
			return fromConfig(cfg, SourceUser, userCfgPath), nil
		}
	}

	localPath := filepath.Join("configs", "flappy.yaml")
	if cfg, err := decode(localPath); err == nil {
		return fromConfig(cfg, SourceLocal, localPath), nil
	}

	cfg := Default()
	if err := yaml.Unmarshal(defaultFlappyYAML, &cfg); err != nil {
		return fromConfig(Default(), SourceBuiltin, ""), nil // Fallback to hardcoded if embed fails
	}
	return fromConfig(cfg, SourceEmbedded, ""), nil
}

// Parse decodes a YAML document on top of the defaults and normalizes it.
func Parse(data []byte) (Loaded, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fromConfig(Default(), SourceBuiltin, ""), fmt.Errorf("failed to parse config: %w", err)
	}
	return fromConfig(cfg, SourceCustom, ""), nil
}

// Marshal encodes a configuration as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}

func decode(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func fromConfig(cfg Config, src Source, path string) Loaded {
	warnings := cfg.Normalize()
	return Loaded{Config: cfg, Source: src, Path: path, Warnings: warnings}
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flappy", filename)
}
