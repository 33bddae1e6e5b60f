// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with environment overrides
//   - LoadDotEnv: optional .env loading
//   - LoadSourceManifest: TOML manifest of sources for `source apply`
package file
