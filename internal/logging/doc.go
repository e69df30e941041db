// Package logging constructs the slog loggers used across the labeling core.
// Console output gets an aligned human-readable handler; json output is meant
// for log shippers. Components attach themselves with WithComponent.
package logging
