package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from a path (a single file or a directory
	// searched recursively) and translates it into the agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}
