// Package service implements the offline-sync engine: pushing locally
// created entries to the sync server and recording the server's
// confirmations back into local storage.
//
// Sync is strictly push-based and idempotent. Entries are keyed by their
// client-generated LocalID, so a push repeated after a lost confirmation
// cannot duplicate a record server-side. An unreachable server is a normal
// condition, not an error state: the cycle is skipped and retried on the
// next tick.
package service
