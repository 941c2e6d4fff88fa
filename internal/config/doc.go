// Package config defines the warden agent configuration schema and loads it
// from defaults, an optional YAML/JSON file, and WARDEN_-prefixed environment
// variables, in that order of precedence.
//
// Loading is strictly a startup concern: the loaded Config is validated once
// and then passed by reference through the application; nothing in this
// package watches or reloads the file at runtime.
package config
