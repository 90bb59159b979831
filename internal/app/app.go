package app

import (
	"context"
	"fmt"

	"github.com/avolkov/teesheet/internal/channel"
	"github.com/avolkov/teesheet/internal/config"
	"github.com/avolkov/teesheet/internal/docstore"
	"github.com/avolkov/teesheet/internal/lookup"
	"github.com/avolkov/teesheet/internal/prefs"
	"github.com/avolkov/teesheet/internal/ui"
)

// Options configure the teesheet application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/teesheet/prefs.toml
	DataDir    string // empty uses the configured data directory
}

// Run boots the teesheet TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	store, err := docstore.Open(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}

	client, err := lookup.NewClient(cfg.LookupURL, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("init lookup client: %w", err)
	}

	ch := channel.New(0)

	// The store serves intents until the context is cancelled; the UI owns
	// the other end of both queues.
	go store.Serve(ctx, ch)

	return ui.Run(ui.Options{
		Context:     ctx,
		Channel:     ch,
		Lookup:      client,
		Concurrency: cfg.Concurrency,
		Prefs:       userPrefs,
		PrefsPath:   opts.PrefsPath,
	})
}
