package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything teesheet needs at startup: where the document
// collections live and how to reach the federation lookup site.
type Config struct {
	DataDir     string
	LookupURL   string
	Timeout     time.Duration
	Concurrency int
}

const (
	defaultConfigPath  = "~/.config/teesheet/config.toml"
	defaultDataDir     = "~/.local/share/teesheet"
	defaultLookupURL   = "https://hcp.rusgolf.ru"
	defaultTimeoutSecs = 15
	defaultConcurrency = 4
)

// Load locates and parses the config file, falling back to defaults when it
// is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DataDir:     mustExpand(defaultDataDir),
		LookupURL:   defaultLookupURL,
		Timeout:     defaultTimeoutSecs * time.Second,
		Concurrency: defaultConcurrency,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataDir     string `toml:"data_dir"`
		LookupURL   string `toml:"lookup_url"`
		TimeoutSecs int    `toml:"timeout_seconds"`
		Concurrency int    `toml:"concurrency"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
	}
	if u := strings.TrimSpace(raw.LookupURL); u != "" {
		cfg.LookupURL = u
	}
	if raw.TimeoutSecs > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSecs) * time.Second
	}
	if raw.Concurrency > 0 {
		cfg.Concurrency = raw.Concurrency
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
