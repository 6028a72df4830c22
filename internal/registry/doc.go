// Package registry provides the central "glue" for the component system.
//
// The Registry stores the mapping between the component type names used in
// configuration (e.g., `component "http_client" "api"`) and the Go
// functions that start and stop components of that type. Modules add their
// component types by implementing Module.
//
// During application startup the registry is populated and then validated
// against the loaded configuration, so that a typo in a component type is
// reported before any component runs.
package registry
