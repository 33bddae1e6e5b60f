// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Beyond the standard library they
// only use golang.org/x helpers for concurrency and text handling.
package services
