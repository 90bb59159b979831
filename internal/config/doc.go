// Package config handles loading and parsing the teesheet configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/teesheet/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
// Example config.toml:
//
//	data_dir = "~/.local/share/teesheet"
//	lookup_url = "https://hcp.rusgolf.ru"
//	timeout_seconds = 15
//	concurrency = 4
//
// All fields are optional. Tilde expansion is performed automatically for
// paths. A missing config file is not an error: teesheet works out of the
// box with an empty roster in the default data directory.
//
// The package is read-only and stateless; configuration is loaded once at
// startup and returned as an immutable Config value.
package config
