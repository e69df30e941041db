package config

import (
	"errors"
	"fmt"
)

var knownTrainerKinds = map[string]struct{}{
	"tree":     {},
	"adaboost": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSampler(); err != nil {
		return err
	}
	if err := c.validateTrainer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateSampler() error {
	if c.Sampler.Window <= 0 {
		return errors.New("sampler.window must be positive")
	}
	return nil
}

func (c *Config) validateTrainer() error {
	if _, ok := knownTrainerKinds[c.Trainer.Kind]; !ok {
		return fmt.Errorf("trainer.kind must be one of tree, adaboost (got %q)", c.Trainer.Kind)
	}
	if c.Trainer.Floor < 0 {
		return errors.New("trainer.floor must not be negative")
	}
	if c.Trainer.MaxDepth <= 0 {
		return errors.New("trainer.max_depth must be positive")
	}
	if c.Trainer.MinLeaf <= 0 {
		return errors.New("trainer.min_leaf must be positive")
	}
	if c.Trainer.Rounds <= 0 {
		return errors.New("trainer.rounds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	return nil
}
