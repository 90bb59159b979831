// Package app provides the orchestration layer for the teesheet application.
//
// # Overview
//
// This package wires together configuration, the document store, the handicap
// lookup client, and the UI to create the complete teesheet editor. It serves
// as the composition root where all dependencies are initialized and
// connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/teesheet/config.toml
//  2. Load user preferences (theme, startup help), tolerating a broken file
//  3. Open the document store, seeding the roster on first run
//  4. Initialize the HTTP client for the federation handicap site
//  5. Launch the store's serve loop on the synchronization channel
//  6. Start the TUI and block until the user exits or the context cancels
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      Read editor config
//	       ├─────> prefs.Load()       Read user preferences
//	       ├─────> docstore.Open()    Open (or seed) the collections
//	       ├─────> lookup.NewClient() Create HTTP client
//	       ├─────> channel.New()      Intent/event queue pair
//	       ├─────> store.Serve()      Confirm intents (goroutine)
//	       └─────> ui.Run()           Start TUI (blocks)
//
// Every mutation originates in the UI as an intent, is applied and persisted
// by the store, and returns as a confirmation event that the UI reduces into
// its table state. The store's serve loop is the only writer of the
// collections, so ordering on the channel is the only synchronization the
// two sides need.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file present but invalid
//   - Document store directory unreadable or corrupt
//   - Lookup base URL unusable
//
// Recoverable conditions (logged or surfaced in the UI, editing continues):
//   - Preferences file missing or broken (defaults are used)
//   - Persistence write failures after a confirmed mutation
//   - Handicap refresh failures (reported in the error overlay)
package app
