// Package config defines the format-agnostic model of a taskfile: named
// targets mapped to ordered command sequences. Loaders for a concrete
// configuration format (see the hcl package) translate their parse trees
// into this model, so everything downstream of loading is independent of
// the file format.
package config
