package app

import "errors"

// DefaultTaskfile is the path tried when no --config flag is given.
const DefaultTaskfile = "taskgrid.hcl"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// TaskfilePath is a single .hcl file or a directory searched recursively.
	TaskfilePath string

	LogFormat string
	LogLevel  string

	// List prints the available targets instead of running anything.
	List bool

	// Targets are the target names to run, in order.
	Targets []string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TaskfilePath == "" {
		return nil, errors.New("TaskfilePath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
