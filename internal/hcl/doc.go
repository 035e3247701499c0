// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, evaluation of
// env/local expressions, and translation of the HCL schema into the
// format-agnostic config model.
package hcl
