// Package testsupport provides shared builders for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"pulse/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Trainer.Seed = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSamplerWindow overrides the candidate window size.
func WithSamplerWindow(window int) ConfigOption {
	return func(c *config.Config) {
		c.Sampler.Window = window
	}
}

// WithAdmins sets the authorized labeler list.
func WithAdmins(ids ...string) ConfigOption {
	return func(c *config.Config) {
		c.Labeling.Admins = ids
	}
}

// WithTrainerFloor overrides the archival padding floor.
func WithTrainerFloor(floor int) ConfigOption {
	return func(c *config.Config) {
		c.Trainer.Floor = floor
	}
}
