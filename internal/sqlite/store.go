// Package sqlite implements the relational storage gateway for icebox.
// It executes parameterized statements against the configured engine and
// commits each mutation before the caller responds; it holds no business
// logic.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	_ "github.com/stoolap/stoolap/pkg/driver"
	_ "modernc.org/sqlite"

	"github.com/coldchain/icebox/pkg/types"
)

// Store owns the database handle for one storage file. It is not safe for
// concurrent use: the session loop's single thread is its only caller.
type Store struct {
	db     *sql.DB
	config types.Config
	path   string
}

// driverFor maps a backend name to a database/sql driver and DSN.
func driverFor(backend, path string) (string, string, error) {
	switch backend {
	case types.BackendSQLite:
		return "sqlite", path, nil
	case types.BackendStoolap:
		return "stoolap", "db://" + path, nil
	default:
		return "", "", types.ErrBackendUnknown
	}
}

// Open attaches to an existing storage file. The schema must already be in
// place; Open fails when the file is missing or lacks the expected tables.
// This is the only error fatal to the process.
func Open(config types.Config, path string) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("storage file: %w", err)
	}

	driver, dsn, err := driverFor(config.Backend, path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	s := &Store{db: db, config: config, path: path}
	if err := s.probeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("checking schema of %s: %w", path, err)
	}
	return s, nil
}

// Create initializes a new storage file with the fridge schema. It refuses
// to touch a file that already exists; the serve path never creates schema.
func Create(config types.Config, path string) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("storage file %s already exists", path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("storage file: %w", err)
	}

	driver, dsn, err := driverFor(config.Backend, path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}
	return &Store{db: db, config: config, path: path}, nil
}

// Close releases the database handle. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Products returns the accessor for the products table.
func (s *Store) Products() *ProductsTable { return &ProductsTable{store: s} }

// Contents returns the accessor for the fridge_contents table.
func (s *Store) Contents() *ContentsTable { return &ContentsTable{store: s} }

// Favourites returns the accessor for the favourites table.
func (s *Store) Favourites() *FavouritesTable { return &FavouritesTable{store: s} }

// probeSchema runs a trivial query against each expected table so a file
// without the pre-existing schema is rejected at startup.
func (s *Store) probeSchema() error {
	for _, table := range []string{"products", "fridge_contents", "favourites"} {
		var n int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return fmt.Errorf("table %s: %w", table, err)
		}
	}
	return nil
}

// storageErr tags an engine error so callers can tell it apart from domain
// rule violations with errors.Is(err, types.ErrStorageFailure).
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(types.ErrStorageFailure, err))
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
