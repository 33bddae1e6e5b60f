// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It currently backs the
// [driven.SessionStore], holding the token, active event and signed-in account
// between invocations.
//
// # Schema
//
// The schema is managed by goose from the versioned migrations embedded in
// the migrations/ directory. Migrations run on open.
//
// # Data Location
//
// By default, the database is stored at ~/.confadmin/data/confadmin.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
