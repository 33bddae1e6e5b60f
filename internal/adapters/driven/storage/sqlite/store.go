package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/confadmin/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "confadmin.db"

// Store is a SQLite-based storage that provides access to the
// driven store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.confadmin/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".confadmin", "data")
	}

	// The session holds a bearer token, so keep the directory private.
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// Version returns the applied migration version.
func (s *Store) Version() (int64, error) {
	if err := configureGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.db)
}

// migrate runs all pending migrations.
func (s *Store) migrate() error {
	if err := configureGoose(); err != nil {
		return err
	}
	if err := goose.Up(s.db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func configureGoose() error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}
