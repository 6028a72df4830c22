// Package app contains the host process. It loads component configuration,
// starts every configured component with its own identity and handle on the
// shared data registry, and releases everything the components hold when
// the run ends.
package app
