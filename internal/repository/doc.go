// Package repository implements the domain data layer on top of a
// [store.Backend]: validation, identity assignment, tag grouping, and the
// in-memory list mirrors the UI reads from.
//
// Repositories never know which backend variant is active. The backend is
// chosen once at startup and injected; every rule here (level bounds, the
// all-or-nothing location unit, client-generated LocalIDs) holds identically
// for the embedded, remote, and in-memory stores.
package repository
