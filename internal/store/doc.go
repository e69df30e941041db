// Package store persists candidate events and archival training rows in
// SQLite. It owns the sampler query feeding labeling sessions and the
// read-modify-write that records a verdict. All failures are wrapped with
// operation context before they leave this package.
package store
