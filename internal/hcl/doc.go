// Package hcl provides the concrete HCL implementation of the configuration
// loading and argument binding interfaces defined in the `config` package.
//
// A configuration is one file or a directory of .hcl files containing
// component blocks:
//
//	component "http_client" "api" {
//	  timeout = "5s"
//	}
//
//	component "assets" "fonts" {
//	  manifest = "https://${env.ASSET_HOST}/manifest.hcl"
//	  asset    = lower("Font-Atlas")
//	}
//
// Argument expressions are evaluated lazily, when a component's input is
// decoded, with an `env` object holding the process environment and a small
// set of string functions.
package hcl
