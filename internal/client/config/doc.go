// Package config loads settings for the gophauth CLI: defaults, then an
// optional JSON file (-c/-config), then command-line flags.
package config
