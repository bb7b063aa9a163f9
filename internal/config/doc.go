// Package config handles configuration loading, parsing, and validation
// from environment variables (TEAMTASKS_ prefix) and an optional YAML file.
// It provides type-safe access to the settings needed by the server, the
// stores and the session layer.
package config
