package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// pragma is a connection setting applied on Open. Value is what the
// database reports back once the setting is active.
type pragma struct {
	Name  string
	Set   string
	Value string
}

var pragmas = []pragma{
	{Name: "journal_mode", Set: "WAL", Value: "wal"},
	{Name: "synchronous", Set: "NORMAL", Value: "1"},
	{Name: "busy_timeout", Set: "5000", Value: "5000"},
	{Name: "foreign_keys", Set: "ON", Value: "1"},
}

// migrations upgrade a ledger from user_version i to i+1. Ledgers created
// from schema.sql already have every column; each step must be a no-op on
// them.
var migrations = []func(*sql.DB) error{
	addSkippedColumn,
}

// Store records generation runs in a SQLite ledger.
type Store struct {
	db  *sql.DB
	ids IDGenerator
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUIDv7 run id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// Open creates or opens the ledger at path, applying pragmas, the schema and
// any pending migrations. Opening the same path repeatedly is safe.
//
// The ledger runs in WAL mode with a single connection, and transactions
// begin IMMEDIATE so a writer takes the lock before reading the next seq.
// Concurrent bindgen processes then queue on the busy timeout instead of
// failing on a lock upgrade.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func prepare(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to ledger: %w", err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.Name, p.Set)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.Name, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return migrate(db)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// migrate runs every migration past the ledger's user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if err := migrations[v](db); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

func addSkippedColumn(db *sql.DB) error {
	has, err := hasColumn(db, "runs", "skipped")
	if err != nil || has {
		return err
	}
	_, err = db.Exec(`ALTER TABLE runs ADD COLUMN skipped INTEGER NOT NULL DEFAULT 0`)
	return err
}

func hasColumn(db *sql.DB, table, column string) (bool, error) {
	var n int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", table, err)
	}
	return n > 0, nil
}

// pragmaValue reads the current value of a pragma.
func (s *Store) pragmaValue(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to query %s: %w", name, err)
	}
	return value, nil
}
