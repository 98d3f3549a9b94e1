// Package config defines siren's configuration structures and loading.
//
// Configuration is layered: built-in defaults are overridden by an optional
// YAML file, which is in turn overridden by SIREN_* environment variables.
// The backend base URL is the only hard requirement; startup fails without
// it because every tool invocation needs an upstream to call.
package config
