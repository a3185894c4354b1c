// Package cli provides the interactive GophCollect command-line client.
//
// It wires configuration, the local SQLite cache, the gRPC access layer,
// the collection and collectible stores and a line-oriented REPL. The
// REPL renders lists and detail cards as text and reports the outcome of
// every command with a one-line [ok] or [error] notification.
//
// Sessions established while the server is unreachable are offline: the
// lists are served from the snapshots saved after the last successful
// fetch and every mutating command is refused.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is cancelled.
package cli
