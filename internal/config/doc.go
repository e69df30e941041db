// Package config loads and validates the toml configuration shared by the
// labeling service and the training commands.
package config
