// Package config handles configuration management for spinflip.
// It supports loading configuration from multiple sources including
// embedded TOML defaults, user and project TOML files, environment
// variables, and command-line flags. The result is a single Config value
// gathered once at startup and passed by value into the pipeline.
package config
