// Package client implements the on-device application runtime.
//
// It selects the storage backend once at startup, wires the repositories,
// the location provider, and the background sync job into a single process
// lifecycle, and exposes the entry creation flow that ties them together.
package client
