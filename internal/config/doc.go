// Package config defines the format-agnostic model of a host configuration
// and the interfaces a concrete configuration format must implement to load
// it and to bind component arguments to Go structs.
package config
