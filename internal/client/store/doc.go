// Package store keeps the client's in-memory view of one entity kind and
// mediates every remote mutation of it.
//
// A Store holds an ordered slice of records. FetchAll replaces it with the
// server's rows; Add appends the canonical record the server returned;
// Update replaces one record in place; Remove drops one by id. Failures
// leave the cache untouched, clear the loading flag, go to the Notifier
// and are returned to the caller.
//
// Requests are numbered. A fetch that started before the latest applied
// mutation or fetch is discarded when it completes, so a slow list call
// never overwrites newer state. Every call is bound to the caller's
// context: a response that arrives after the context is done is dropped.
//
// Subscribers receive an Event after every applied change and after an
// explicit Invalidate, which is how list views learn to re-fetch.
package store
