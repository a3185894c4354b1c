// Package client is the access layer of the GophCollect CLI.
//
// # Overview
//
// The package provides:
//  1. The Client interface: one method per remote operation (auth,
//     collections, collectibles and image links). No batching, retry or
//     caching happens here; callers own those policies.
//  2. GRPCClient, the gRPC implementation. It keeps the session token pair,
//     attaches the access token and a request id to every call through a
//     unary interceptor, rotates an expired access token once and reports
//     the new pair through OnTokensRefreshed.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite cache that holds offline login data and list snapshots.
//
// # Error Handling
//
// gRPC status codes are translated into sentinel errors matched with
// errors.Is: ErrUnavailable, ErrUnauthorized, and the record errors of
// package common (ErrorNotFound, ErrValidation, ErrAlreadyExists,
// ErrInvalidReference, ErrNoImage). The server's message is kept as the
// error text.
//
// # Concurrency
//
// GRPCClient is safe for concurrent use. The token pair is guarded by a
// mutex that is not held across remote calls.
package client
